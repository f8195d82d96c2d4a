package main

import "math"

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp interpolates between p (t=0) and q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Box is an axis-aligned bounding box in surface coordinates.
type Box struct {
	X, Y, W, H float64
}

// BoxAround returns the square box of half-size r centred on p.
func BoxAround(p Point, r float64) Box {
	return Box{X: p.X - r, Y: p.Y - r, W: 2 * r, H: 2 * r}
}

func (b Box) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

func (b Box) Right() float64  { return b.X + b.W }
func (b Box) Bottom() float64 { return b.Y + b.H }

// Contains reports whether p lies inside b, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Include grows b so that it also covers the box of half-size r around p.
func (b Box) Include(p Point, r float64) Box {
	minX := math.Min(b.X, p.X-r)
	minY := math.Min(b.Y, p.Y-r)
	maxX := math.Max(b.Right(), p.X+r)
	maxY := math.Max(b.Bottom(), p.Y+r)
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.Right(), o.Right())
	maxY := math.Max(b.Bottom(), o.Bottom())
	return Box{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// MoveTo returns b with its top-left corner at p, size unchanged.
func (b Box) MoveTo(p Point) Box {
	b.X, b.Y = p.X, p.Y
	return b
}

// EdgeDistance is the distance from p to the nearest edge of b.
// Only meaningful when b contains p.
func (b Box) EdgeDistance(p Point) float64 {
	d := p.X - b.X
	d = math.Min(d, b.Right()-p.X)
	d = math.Min(d, p.Y-b.Y)
	return math.Min(d, b.Bottom()-p.Y)
}

// segmentDistance returns the distance from p to the segment a-b, clamping the
// projection to the segment's end points.
func segmentDistance(p, a, b Point) float64 {
	ab := b.Sub(a)
	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return p.Distance(a.Lerp(b, t))
}

// clipSegment trims the segment a-b to the part inside r (Liang-Barsky).
// ok is false when no part of the segment is inside.
func clipSegment(a, b Point, r Box) (Point, Point, bool) {
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, edge := range [4][2]float64{
		{-d.X, a.X - r.X},
		{d.X, r.Right() - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.Bottom() - a.Y},
	} {
		p, q := edge[0], edge[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Lerp(b, t0), a.Lerp(b, t1), true
}
