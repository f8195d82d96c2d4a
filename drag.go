package main

import "github.com/rs/zerolog"

type DragState int

const (
	DragDefault DragState = iota
	DragHovered
	DragGrabZone
	DragGrabbed
)

func (s DragState) String() string {
	switch s {
	case DragHovered:
		return "hovered"
	case DragGrabZone:
		return "grab-zone"
	case DragGrabbed:
		return "grabbed"
	default:
		return "default"
	}
}

type dragTrack struct {
	hovered       bool
	inGrabZone    bool
	grabbed       bool
	originBox     Box
	originPointer Point
}

func (t *dragTrack) state() DragState {
	switch {
	case t.grabbed:
		return DragGrabbed
	case t.inGrabZone:
		return DragGrabZone
	case t.hovered:
		return DragHovered
	}
	return DragDefault
}

// DragController tracks hover and drag state per element. While an element is
// grabbed the controller holds pointer capture: every move and release goes to
// that element until the button is let go, even outside its box.
type DragController struct {
	doc    *Document
	margin float64
	log    zerolog.Logger

	tracks   map[int]*dragTrack
	captured int
}

func NewDragController(doc *Document, margin float64, log zerolog.Logger) *DragController {
	if margin <= 0 {
		margin = 1
	}
	return &DragController{
		doc:    doc,
		margin: margin,
		log:    log,
		tracks: make(map[int]*dragTrack),
	}
}

func (c *DragController) State(id int) DragState {
	if t, ok := c.tracks[id]; ok {
		return t.state()
	}
	return DragDefault
}

// Captured returns the id of the grabbed element, if any.
func (c *DragController) Captured() (int, bool) {
	return c.captured, c.captured != 0
}

// PointerMove updates hover state, or moves the grabbed element so that it
// keeps its offset from the pointer. It reports whether anything visible changed.
func (c *DragController) PointerMove(p Point) bool {
	if c.captured != 0 {
		t := c.tracks[c.captured]
		el, err := c.doc.Get(c.captured)
		if err != nil {
			c.release()
			return true
		}
		el.SetBox(t.originBox.MoveTo(t.originBox.Origin().Add(p.Sub(t.originPointer))))
		return true
	}
	return c.hover(p)
}

// PointerDown grabs the hovered element when the pointer is in its grab zone
// and selects whatever element was clicked. It reports whether a drag began.
func (c *DragController) PointerDown(ev PointerEvent) bool {
	if ev.Button != ButtonPrimary || c.captured != 0 {
		return false
	}
	c.hover(ev.Pos)

	el, ok := c.doc.TopmostAt(ev.Pos)
	c.doc.ClearSelection()
	if !ok {
		return false
	}
	c.doc.Select(el.ID())

	t := c.tracks[el.ID()]
	if t == nil || !t.inGrabZone {
		return false
	}
	t.grabbed = true
	t.originBox = el.Box()
	t.originPointer = ev.Pos
	c.captured = el.ID()
	c.log.Debug().Int("id", el.ID()).Msg("element grabbed")
	return true
}

// PointerUp ends a drag and signals the move to the document.
func (c *DragController) PointerUp(ev PointerEvent) bool {
	if c.captured == 0 {
		return false
	}
	id := c.captured
	c.release()
	c.doc.Touch(id)
	c.log.Debug().Int("id", id).Msg("element dropped")
	c.hover(ev.Pos)
	return true
}

// Cancel abandons any drag, putting the grabbed element back where it was,
// and forgets hover state.
func (c *DragController) Cancel() {
	if c.captured != 0 {
		t := c.tracks[c.captured]
		if el, err := c.doc.Get(c.captured); err == nil {
			el.SetBox(t.originBox)
		}
	}
	c.captured = 0
	clear(c.tracks)
}

func (c *DragController) release() {
	if t, ok := c.tracks[c.captured]; ok {
		t.grabbed = false
	}
	c.captured = 0
}

func (c *DragController) hover(p Point) bool {
	top, ok := c.doc.TopmostAt(p)
	changed := false
	for id, t := range c.tracks {
		if ok && id == top.ID() {
			continue
		}
		if t.state() != DragDefault {
			changed = true
		}
		delete(c.tracks, id)
	}
	if !ok {
		return changed
	}

	t := c.tracks[top.ID()]
	if t == nil {
		t = &dragTrack{}
		c.tracks[top.ID()] = t
	}
	before := t.state()
	t.hovered = true
	t.inGrabZone = top.Box().EdgeDistance(p) <= c.margin
	return changed || before != t.state()
}
