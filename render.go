package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const inkRune = '•'

type cell struct {
	r     rune
	color string
}

type borderRunes struct {
	tl, tr, bl, br, h, v rune
}

var (
	plainBorder    = borderRunes{'+', '+', '+', '+', '-', '|'}
	hoverBorder    = borderRunes{'╭', '╮', '╰', '╯', '─', '│'}
	grabBorder     = borderRunes{'╔', '╗', '╚', '╝', '═', '║'}
	selectedBorder = borderRunes{'#', '#', '#', '#', '#', '#'}
)

func borderFor(v Visual) borderRunes {
	switch {
	case v.State == DragGrabbed || v.State == DragGrabZone:
		return grabBorder
	case v.Selected:
		return selectedBorder
	case v.State == DragHovered:
		return hoverBorder
	}
	return plainBorder
}

// gridRenderer paints elements onto a grid of terminal cells. One surface unit
// is one cell; pan is the surface position of the top-left cell.
type gridRenderer struct {
	width, height int
	panX, panY    int
	cells         [][]cell
}

func newGridRenderer(width, height, panX, panY int) *gridRenderer {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	cells := make([][]cell, height)
	for i := range cells {
		cells[i] = make([]cell, width)
		for j := range cells[i] {
			cells[i][j] = cell{r: ' '}
		}
	}
	return &gridRenderer{width: width, height: height, panX: panX, panY: panY, cells: cells}
}

func (g *gridRenderer) set(x, y int, r rune, color string) {
	x -= g.panX
	y -= g.panY
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return
	}
	g.cells[y][x] = cell{r: r, color: color}
}

// maxCell bounds cell coordinates so far-away surface positions stay
// representable as ints.
const maxCell = 1 << 30

func cellCoord(v float64) int {
	return int(math.Floor(math.Max(-maxCell, math.Min(maxCell, v))))
}

func cellOf(p Point) (int, int) {
	return cellCoord(p.X), cellCoord(p.Y)
}

// visible is the surface area covered by the grid.
func (g *gridRenderer) visible() Box {
	return Box{X: float64(g.panX), Y: float64(g.panY), W: float64(g.width), H: float64(g.height)}
}

func (g *gridRenderer) stamp(p Point, radius int, color string) {
	cx, cy := cellOf(p)
	x0, x1 := max(cx-radius, g.panX), min(cx+radius, g.panX+g.width-1)
	y0, y1 := max(cy-radius, g.panY), min(cy+radius, g.panY+g.height-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.set(x, y, inkRune, color)
		}
	}
}

// Stroke samples each segment every half cell. Segments are clipped to the
// grid first, so the work depends on the viewport and not the stroke length.
func (g *gridRenderer) Stroke(points []Point, style Style) {
	if len(points) == 0 {
		return
	}
	radius := min(int(math.Floor(style.HalfWidth())), max(g.width, g.height))
	if style.Fill == FillSolid && len(points) >= 3 {
		g.fillPolygon(points, style.Color)
	}
	g.stamp(points[0], radius, style.Color)

	reach := float64(radius + 1)
	area := g.visible()
	area = Box{X: area.X - reach, Y: area.Y - reach, W: area.W + 2*reach, H: area.H + 2*reach}
	for i := 1; i < len(points); i++ {
		a, b, ok := clipSegment(points[i-1], points[i], area)
		if !ok {
			continue
		}
		n := int(math.Ceil(a.Distance(b) * 2))
		for s := 0; s <= n; s++ {
			t := 1.0
			if n > 0 {
				t = float64(s) / float64(n)
			}
			g.stamp(a.Lerp(b, t), radius, style.Color)
		}
	}
}

// fillPolygon marks every cell whose centre lies inside the closed polyline.
func (g *gridRenderer) fillPolygon(points []Point, color string) {
	minX, minY := cellOf(points[0])
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		x, y := cellOf(p)
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	minX, maxX = max(minX, g.panX), min(maxX, g.panX+g.width-1)
	minY, maxY = max(minY, g.panY), min(maxY, g.panY+g.height-1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if insidePolygon(Pt(float64(x)+0.5, float64(y)+0.5), points) {
				g.set(x, y, inkRune, color)
			}
		}
	}
}

// insidePolygon is the even-odd rule over the polyline closed back to its start.
func insidePolygon(p Point, poly []Point) bool {
	in := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}

func (g *gridRenderer) TextBox(box Box, lines []string, v Visual) {
	x0, y0 := cellOf(box.Origin())
	w := cellCoord(math.Round(box.W))
	h := cellCoord(math.Round(box.H))
	if w < 2 || h < 2 {
		return
	}
	x1, y1 := x0+w-1, y0+h-1
	br := borderFor(v)

	for y := max(y0, g.panY); y <= min(y1, g.panY+g.height-1); y++ {
		for x := max(x0, g.panX); x <= min(x1, g.panX+g.width-1); x++ {
			switch {
			case y == y0 && x == x0:
				g.set(x, y, br.tl, "")
			case y == y0 && x == x1:
				g.set(x, y, br.tr, "")
			case y == y1 && x == x0:
				g.set(x, y, br.bl, "")
			case y == y1 && x == x1:
				g.set(x, y, br.br, "")
			case y == y0 || y == y1:
				g.set(x, y, br.h, "")
			case x == x0 || x == x1:
				g.set(x, y, br.v, "")
			default:
				g.set(x, y, ' ', "")
			}
		}
	}

	for i, line := range lines {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		line = ansi.Truncate(ansi.Strip(line), w-2, "")
		x := x0 + 1
		for _, r := range line {
			if x >= x1 || x >= g.panX+g.width {
				break
			}
			g.set(x, y, r, "")
			x++
		}
	}
}

// Lines returns the grid with ink cells coloured.
func (g *gridRenderer) Lines() []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		var sb strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			if c.color != runColor {
				flush()
				runColor = c.color
			}
			run = append(run, c.r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}

// PlainLines returns the grid without styling, trailing blanks trimmed.
func (g *gridRenderer) PlainLines() []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		rs := make([]rune, len(row))
		for x, c := range row {
			rs[x] = c.r
		}
		out[y] = strings.TrimRight(string(rs), " ")
	}
	return out
}

// paintDocument draws every element in z-order with its interaction state.
func paintDocument(r Renderer, doc *Document, drag *DragController) {
	for el := range doc.All() {
		v := Visual{Selected: doc.IsSelected(el.ID())}
		if drag != nil {
			v.State = drag.State(el.ID())
		}
		el.Render(r, v)
	}
}

// renderSession paints the session's document and any stroke still being
// drawn onto a width x height viewport.
func renderSession(s *Session, width, height, panX, panY int) *gridRenderer {
	g := newGridRenderer(width, height, panX, panY)
	paintDocument(g, s.Document(), s.Drag())
	if pts, style, ok := s.Ink().Pending(); ok {
		g.Stroke(pts, style)
	}
	return g
}

// maxFittedCells caps either side of a fitted render.
const maxFittedCells = 4096

// renderFitted paints the whole document onto a grid just large enough to
// hold it.
func renderFitted(doc *Document) (*gridRenderer, error) {
	b, ok := doc.Bounds()
	if !ok {
		return newGridRenderer(1, 1, 0, 0), nil
	}
	x0, y0 := cellOf(b.Origin())
	x1, y1 := cellOf(Pt(b.Right(), b.Bottom()))
	w, h := x1-x0+1, y1-y0+1
	if w > maxFittedCells || h > maxFittedCells {
		return nil, fmt.Errorf("%w: %dx%d cells (limit %d)", errNoteTooLarge, w, h, maxFittedCells)
	}
	g := newGridRenderer(w, h, x0, y0)
	paintDocument(g, doc, nil)
	return g, nil
}
