package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	errNothingToExport = errors.New("nothing to export")
	errNoteTooLarge    = errors.New("note too large to export")
)

// maxPNGSide caps either side of an exported image, in pixels.
const maxPNGSide = 16384

// pngRenderer draws elements with gg. A terminal cell is twice as tall as it
// is wide, so one surface unit is scale pixels across and 2*scale down.
type pngRenderer struct {
	dc         *gg.Context
	minX, minY float64
	sx, sy     float64
}

func (p *pngRenderer) pixel(pt Point) (float64, float64) {
	return (pt.X - p.minX) * p.sx, (pt.Y - p.minY) * p.sy
}

func (p *pngRenderer) Stroke(points []Point, style Style) {
	if len(points) == 0 {
		return
	}
	c, err := parseColor(style.Color)
	if err != nil {
		return
	}
	p.dc.SetColor(c)
	lw := style.Width * p.sx

	if len(points) == 1 {
		x, y := p.pixel(points[0])
		p.dc.DrawCircle(x, y, lw/2)
		p.dc.Fill()
		return
	}

	p.dc.SetLineWidth(lw)
	p.dc.SetLineCapRound()
	p.dc.SetLineJoinRound()
	p.dc.NewSubPath()
	for i, pt := range points {
		x, y := p.pixel(pt)
		if i == 0 {
			p.dc.MoveTo(x, y)
		} else {
			p.dc.LineTo(x, y)
		}
	}
	if style.Fill == FillSolid && len(points) >= 3 {
		p.dc.ClosePath()
		p.dc.FillPreserve()
	}
	p.dc.Stroke()
}

func (p *pngRenderer) TextBox(box Box, lines []string, v Visual) {
	x, y := p.pixel(box.Origin())
	w, h := box.W*p.sx, box.H*p.sy

	p.dc.SetLineWidth(1.0)
	p.dc.SetColor(color.Black)
	p.dc.DrawRectangle(x, y, w, h)
	p.dc.Stroke()

	textY := y + p.sy*1.75
	for i, line := range lines {
		p.dc.DrawString(line, x+p.sx, textY+float64(i)*p.sy)
	}
}

func loadMonoFace(size float64) (font.Face, error) {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(ttfFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// exportPNG renders the whole document to a PNG file. scale is the pixel
// width of one surface unit.
func exportPNG(doc *Document, filename string, scale float64) error {
	b, ok := doc.Bounds()
	if !ok {
		return errNothingToExport
	}
	if scale <= 0 {
		scale = 8
	}

	padding := 2.0
	sx, sy := scale, 2*scale
	w := math.Ceil((b.W + 2*padding) * sx)
	h := math.Ceil((b.H + 2*padding) * sy)
	if w > maxPNGSide || h > maxPNGSide {
		return fmt.Errorf("%w: %.0fx%.0f pixels (limit %d)", errNoteTooLarge, w, h, maxPNGSide)
	}

	dc := gg.NewContext(int(w), int(h))
	dc.SetColor(color.White)
	dc.Clear()

	face, err := loadMonoFace(1.5 * scale)
	if err != nil {
		return err
	}
	dc.SetFontFace(face)

	r := &pngRenderer{dc: dc, minX: b.X - padding, minY: b.Y - padding, sx: sx, sy: sy}
	paintDocument(r, doc, nil)
	return dc.SavePNG(filename)
}

// exportTXT writes the document as it appears in the terminal, without colour.
func exportTXT(doc *Document, filename string) error {
	if doc.Len() == 0 {
		return errNothingToExport
	}
	g, err := renderFitted(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(strings.Join(g.PlainLines(), "\n")+"\n"), 0o644)
}
