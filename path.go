package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// GlyphPath is a stroke stored as a start point followed by relative moves.
type GlyphPath struct {
	Start  Point
	Deltas []Point
}

// Points reconstructs the absolute points of the path, offset by origin.
func (p GlyphPath) Points(origin Point) []Point {
	pts := make([]Point, 0, len(p.Deltas)+1)
	cur := origin.Add(p.Start)
	pts = append(pts, cur)
	for _, d := range p.Deltas {
		cur = cur.Add(d)
		pts = append(pts, cur)
	}
	return pts
}

// Bounds is the tight box around the path's points (origin at 0,0).
func (p GlyphPath) Bounds() Box {
	pts := p.Points(Point{})
	b := Box{X: pts[0].X, Y: pts[0].Y}
	for _, pt := range pts[1:] {
		b = b.Include(pt, 0)
	}
	return b
}

// Shift returns a copy with the start point moved by d. Deltas are shared.
func (p GlyphPath) Shift(d Point) GlyphPath {
	return GlyphPath{Start: p.Start.Add(d), Deltas: p.Deltas}
}

// Encode writes the path as "M x y l dx dy l dx dy ...".
func (p GlyphPath) Encode() string {
	var sb strings.Builder
	sb.Grow(8 + len(p.Deltas)*10)
	sb.WriteString("M ")
	sb.WriteString(formatNumber(p.Start.X))
	sb.WriteByte(' ')
	sb.WriteString(formatNumber(p.Start.Y))
	for _, d := range p.Deltas {
		sb.WriteString(" l ")
		sb.WriteString(formatNumber(d.X))
		sb.WriteByte(' ')
		sb.WriteString(formatNumber(d.Y))
	}
	return sb.String()
}

func formatNumber(v float64) string {
	if v == 0 {
		// avoids "-0"
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParsePath decodes the restricted path syntax produced by Encode: one
// absolute move followed by any number of relative lines.
func ParsePath(s string) (GlyphPath, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return GlyphPath{}, fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if fields[0] != "M" {
		return GlyphPath{}, fmt.Errorf("%w: must start with M, got %q", ErrInvalidPath, fields[0])
	}
	if len(fields) < 3 {
		return GlyphPath{}, fmt.Errorf("%w: missing start point", ErrInvalidPath)
	}
	start, err := parsePair(fields[1], fields[2])
	if err != nil {
		return GlyphPath{}, err
	}

	rest := fields[3:]
	if len(rest)%3 != 0 {
		return GlyphPath{}, fmt.Errorf("%w: truncated line command", ErrInvalidPath)
	}
	path := GlyphPath{Start: start, Deltas: make([]Point, 0, len(rest)/3)}
	cur := start
	for i := 0; i < len(rest); i += 3 {
		if rest[i] != "l" {
			return GlyphPath{}, fmt.Errorf("%w: unsupported command %q", ErrInvalidPath, rest[i])
		}
		d, err := parsePair(rest[i+1], rest[i+2])
		if err != nil {
			return GlyphPath{}, err
		}
		if cur = cur.Add(d); !finite(cur.X) || !finite(cur.Y) {
			return GlyphPath{}, fmt.Errorf("%w: coordinates overflow", ErrInvalidPath)
		}
		path.Deltas = append(path.Deltas, d)
	}
	return path, nil
}

func parsePair(xs, ys string) (Point, error) {
	x, err := parseCoordinate(xs)
	if err != nil {
		return Point{}, err
	}
	y, err := parseCoordinate(ys)
	if err != nil {
		return Point{}, err
	}
	return Point{X: x, Y: y}, nil
}

// parseCoordinate accepts finite decimal numbers only. ParseFloat alone would
// let NaN and Inf through.
func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		return 0, fmt.Errorf("%w: bad coordinate %q", ErrInvalidPath, s)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Simplifier reduces the number of deltas in a finished stroke.
type Simplifier interface {
	Simplify(GlyphPath) GlyphPath
}

// identitySimplifier keeps every sample. No decimation algorithm is defined yet.
type identitySimplifier struct{}

func (identitySimplifier) Simplify(p GlyphPath) GlyphPath { return p }
