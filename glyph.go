package main

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

type FillMode string

const (
	FillNone  FillMode = "none"
	FillSolid FillMode = "solid"
)

// Style is the pen state captured when a stroke begins.
type Style struct {
	Color string
	Width float64
	Fill  FillMode
}

func (s Style) HalfWidth() float64 {
	return s.Width / 2
}

func (s Style) Validate() error {
	if _, err := parseColor(s.Color); err != nil {
		return err
	}
	if !(s.Width > 0) || math.IsInf(s.Width, 0) {
		return fmt.Errorf("invalid stroke width %v", s.Width)
	}
	switch s.Fill {
	case FillNone, FillSolid:
	default:
		return fmt.Errorf("invalid fill mode %q", s.Fill)
	}
	return nil
}

// parseColor accepts #rgb and #rrggbb.
func parseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// GlyphElement is one freehand ink stroke. The path start is relative to the
// box's top-left corner, so moving the box moves the stroke.
type GlyphElement struct {
	elementBase
	path  GlyphPath
	style Style

	points []Point
}

func NewGlyph(box Box, path GlyphPath, style Style) (*GlyphElement, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}
	for _, v := range []float64{box.X, box.Y, box.W, box.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("invalid box %v", box)
		}
	}
	return &GlyphElement{
		elementBase: elementBase{box: box},
		path:        path,
		style:       style,
	}, nil
}

func (g *GlyphElement) Variant() Variant { return VariantGlyph }
func (g *GlyphElement) Path() GlyphPath  { return g.path }
func (g *GlyphElement) Style() Style     { return g.style }

func (g *GlyphElement) SetBox(b Box) {
	g.box = b
	g.points = nil
}

// Points returns the absolute polyline. The slice is cached until the box
// changes and must not be modified.
func (g *GlyphElement) Points() []Point {
	if g.points == nil {
		g.points = g.path.Points(g.box.Origin())
	}
	return g.points
}

func (g *GlyphElement) HitTest(p Point, radius float64) bool {
	limit := g.style.HalfWidth() + radius
	pts := g.Points()
	if len(pts) == 1 {
		return p.Distance(pts[0]) <= limit
	}
	for i := 1; i < len(pts); i++ {
		if segmentDistance(p, pts[i-1], pts[i]) <= limit {
			return true
		}
	}
	return false
}

func (g *GlyphElement) Render(r Renderer, _ Visual) {
	r.Stroke(g.Points(), g.style)
}

func (g *GlyphElement) ExportRecord() (any, error) {
	return glyphRecord{
		Box:  boxToRecord(g.box),
		Path: g.path.Encode(),
		Style: styleRecord{
			Color: g.style.Color,
			Size:  g.style.Width,
			Fill:  string(g.style.Fill),
		},
	}, nil
}

func (g *GlyphElement) release() {
	g.points = nil
}
