package main

import (
	"math"

	"github.com/rs/zerolog"
)

type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonPrimary
	ButtonSecondary
)

// PointerEvent is a pointer sample in surface coordinates.
type PointerEvent struct {
	Pos    Point
	Button PointerButton
}

type inkState int

const (
	inkIdle inkState = iota
	inkTracking
	inkErasing
)

func (s inkState) String() string {
	switch s {
	case inkTracking:
		return "tracking"
	case inkErasing:
		return "erasing"
	default:
		return "idle"
	}
}

type stroke struct {
	style  Style
	start  Point
	prev   Point
	deltas []Point
	box    Box
}

func (s *stroke) points() []Point {
	return GlyphPath{Start: s.start, Deltas: s.deltas}.Points(Point{})
}

// InkResult describes what a pointer event changed.
type InkResult struct {
	// Damage is the surface area that needs repainting.
	Damage  Box
	Changed bool
	Erased  []int
	Glyph   *GlyphElement
}

type InkOptions struct {
	Pen          Style
	EraserRadius float64
	// Interpolate erases along the gap between consecutive eraser samples
	// instead of testing the samples alone.
	Interpolate bool
	Simplifier  Simplifier
	Logger      zerolog.Logger
}

// InkCapture turns pointer drags into glyphs (primary button) or erases
// glyphs under the pointer (secondary button).
type InkCapture struct {
	doc          *Document
	pen          Style
	eraserRadius float64
	interpolate  bool
	simplifier   Simplifier
	log          zerolog.Logger

	state     inkState
	cur       *stroke
	lastErase Point
}

func NewInkCapture(doc *Document, opts InkOptions) *InkCapture {
	if opts.Simplifier == nil {
		opts.Simplifier = identitySimplifier{}
	}
	if opts.EraserRadius <= 0 {
		opts.EraserRadius = 1
	}
	return &InkCapture{
		doc:          doc,
		pen:          opts.Pen,
		eraserRadius: opts.EraserRadius,
		interpolate:  opts.Interpolate,
		simplifier:   opts.Simplifier,
		log:          opts.Logger,
	}
}

func (c *InkCapture) Pen() Style { return c.pen }

// SetPen changes the style for future strokes. A stroke in progress keeps the
// style it started with.
func (c *InkCapture) SetPen(s Style) { c.pen = s }

func (c *InkCapture) EraserRadius() float64 { return c.eraserRadius }

func (c *InkCapture) Tracking() bool { return c.state == inkTracking }
func (c *InkCapture) Erasing() bool  { return c.state == inkErasing }

// Pending returns the stroke being drawn, for live painting.
func (c *InkCapture) Pending() ([]Point, Style, bool) {
	if c.state != inkTracking {
		return nil, Style{}, false
	}
	return c.cur.points(), c.cur.style, true
}

func (c *InkCapture) PointerDown(ev PointerEvent) InkResult {
	if c.state != inkIdle {
		return InkResult{}
	}
	switch ev.Button {
	case ButtonPrimary:
		hw := c.pen.HalfWidth()
		c.cur = &stroke{
			style: c.pen,
			start: ev.Pos,
			prev:  ev.Pos,
			box:   BoxAround(ev.Pos, hw),
		}
		c.state = inkTracking
		c.log.Debug().Float64("x", ev.Pos.X).Float64("y", ev.Pos.Y).Msg("stroke started")
		return InkResult{Damage: c.cur.box, Changed: true}
	case ButtonSecondary:
		c.state = inkErasing
		c.lastErase = ev.Pos
		return c.eraseAt(ev.Pos)
	}
	return InkResult{}
}

func (c *InkCapture) PointerMove(ev PointerEvent) InkResult {
	switch c.state {
	case inkTracking:
		s := c.cur
		d := ev.Pos.Sub(s.prev)
		if d == (Point{}) {
			return InkResult{}
		}
		hw := s.style.HalfWidth()
		s.deltas = append(s.deltas, d)
		s.box = s.box.Include(ev.Pos, hw)
		damage := BoxAround(s.prev, hw).Include(ev.Pos, hw)
		s.prev = ev.Pos
		return InkResult{Damage: damage, Changed: true}
	case inkErasing:
		from := c.lastErase
		c.lastErase = ev.Pos
		if !c.interpolate {
			return c.eraseAt(ev.Pos)
		}
		return c.eraseAlong(from, ev.Pos)
	}
	return InkResult{}
}

func (c *InkCapture) PointerUp(ev PointerEvent) InkResult {
	switch c.state {
	case inkTracking:
		return c.finalize()
	case inkErasing:
		c.state = inkIdle
	}
	return InkResult{}
}

// Cancel drops the gesture in progress. Nothing reaches the document.
func (c *InkCapture) Cancel() {
	if c.state != inkIdle {
		c.log.Debug().Stringer("state", c.state).Msg("ink gesture cancelled")
	}
	c.state = inkIdle
	c.cur = nil
}

func (c *InkCapture) finalize() InkResult {
	s := c.cur
	c.state = inkIdle
	c.cur = nil

	path := c.simplifier.Simplify(GlyphPath{Start: s.start, Deltas: s.deltas})
	hw := s.style.HalfWidth()
	bounds := path.Bounds()
	box := Box{X: bounds.X - hw, Y: bounds.Y - hw, W: bounds.W + 2*hw, H: bounds.H + 2*hw}
	path.Start = path.Start.Sub(box.Origin())

	g, err := NewGlyph(box, path, s.style)
	if err != nil {
		c.log.Warn().Err(err).Msg("discarding stroke")
		return InkResult{Damage: s.box, Changed: true}
	}
	id := c.doc.Add(g)
	c.log.Debug().Int("id", id).Int("deltas", len(path.Deltas)).Msg("stroke finalized")
	return InkResult{Damage: box, Changed: true, Glyph: g}
}

func (c *InkCapture) eraseAt(p Point) InkResult {
	ids := EraseAt(c.doc, p, c.eraserRadius)
	if len(ids) == 0 {
		return InkResult{}
	}
	return InkResult{Damage: BoxAround(p, c.eraserRadius), Changed: true, Erased: ids}
}

func (c *InkCapture) eraseAlong(from, to Point) InkResult {
	step := math.Max(c.eraserRadius, 0.5)
	n := int(math.Ceil(from.Distance(to) / step))
	res := InkResult{Damage: BoxAround(from, c.eraserRadius).Include(to, c.eraserRadius)}
	for i := 1; i <= n; i++ {
		ids := EraseAt(c.doc, from.Lerp(to, float64(i)/float64(n)), c.eraserRadius)
		res.Erased = append(res.Erased, ids...)
	}
	if n == 0 {
		res.Erased = EraseAt(c.doc, to, c.eraserRadius)
	}
	res.Changed = len(res.Erased) > 0
	return res
}
