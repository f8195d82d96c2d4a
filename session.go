package main

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

type SessionOptions struct {
	Pen               Style
	EraserRadius      float64
	EraserInterpolate bool
	GrabMargin        float64
	Simplifier        Simplifier
	Logger            zerolog.Logger
	// OnSaved receives the result of every save. It runs on the bridge's
	// goroutine, not the caller's.
	OnSaved func(error)
}

func sessionOptions(cfg *Config, log zerolog.Logger) SessionOptions {
	return SessionOptions{
		Pen:               cfg.PenStyle(),
		EraserRadius:      cfg.EraserRadius,
		EraserInterpolate: cfg.EraserInterpolate,
		GrabMargin:        cfg.GrabMargin,
		Logger:            log,
	}
}

// SessionUpdate tells the front end what a pointer event did.
type SessionUpdate struct {
	Redraw bool
	Damage Box
	Erased []int
	// Created is the id of an element the event added, 0 if none.
	Created int
	// EditText is the id of a text element the user asked to edit, 0 if none.
	EditText int
}

// Session is the editing state of one opened note. It is created when the
// note opens and closed when it goes away; nothing about it is global.
type Session struct {
	id     uuid.UUID
	note   string
	bridge HostBridge
	log    zerolog.Logger

	doc  *Document
	ink  *InkCapture
	drag *DragController
	tool Tool

	dirty   bool
	closed  bool
	// damaged is set while the stored note fails to import; automatic
	// saves are held until an explicit Save or a good delivery.
	damaged bool
	onSaved func(error)
}

func NewSession(note string, bridge HostBridge, opts SessionOptions) *Session {
	s := &Session{
		id:      uuid.New(),
		note:    note,
		bridge:  bridge,
		onSaved: opts.OnSaved,
	}
	s.log = opts.Logger.With().Str("session", s.id.String()).Str("note", note).Logger()
	s.doc = NewDocument(func() { s.dirty = true })
	s.ink = NewInkCapture(s.doc, InkOptions{
		Pen:          opts.Pen,
		EraserRadius: opts.EraserRadius,
		Interpolate:  opts.EraserInterpolate,
		Simplifier:   opts.Simplifier,
		Logger:       s.log,
	})
	s.drag = NewDragController(s.doc, opts.GrabMargin, s.log)
	s.log.Info().Msg("session opened")
	return s
}

func (s *Session) ID() uuid.UUID              { return s.id }
func (s *Session) Note() string               { return s.note }
func (s *Session) Document() *Document        { return s.doc }
func (s *Session) Ink() *InkCapture           { return s.ink }
func (s *Session) Drag() *DragController      { return s.drag }
func (s *Session) Tool() Tool                 { return s.tool }
func (s *Session) Logger() zerolog.Logger     { return s.log }
func (s *Session) Damaged() bool              { return s.damaged }
func (s *Session) SetOnSaved(fn func(error)) { s.onSaved = fn }

// SetTool switches the active tool. Any gesture in progress is dropped.
func (s *Session) SetTool(t Tool) {
	s.ink.Cancel()
	s.drag.Cancel()
	s.tool = t
}

// SetPen changes the style of future strokes.
func (s *Session) SetPen(style Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	s.ink.SetPen(style)
	return nil
}

// HandlePointer routes one pointer event. While an element is grabbed every
// event goes to the drag controller regardless of the active tool.
func (s *Session) HandlePointer(kind PointerKind, ev PointerEvent) SessionUpdate {
	if s.closed {
		return SessionUpdate{}
	}
	var up SessionUpdate
	if _, ok := s.drag.Captured(); ok {
		up = s.routeCaptured(kind, ev)
	} else {
		switch s.tool {
		case ToolPen:
			up = s.routeInk(kind, ev)
		case ToolSelect:
			up = s.routeSelect(kind, ev)
		case ToolText:
			up = s.routeText(kind, ev)
		}
	}
	s.sync()
	return up
}

func (s *Session) routeCaptured(kind PointerKind, ev PointerEvent) SessionUpdate {
	switch kind {
	case PointerMove:
		return SessionUpdate{Redraw: s.drag.PointerMove(ev.Pos)}
	case PointerUp:
		return SessionUpdate{Redraw: s.drag.PointerUp(ev)}
	}
	return SessionUpdate{}
}

func (s *Session) routeInk(kind PointerKind, ev PointerEvent) SessionUpdate {
	var res InkResult
	switch kind {
	case PointerDown:
		res = s.ink.PointerDown(ev)
	case PointerMove:
		res = s.ink.PointerMove(ev)
	case PointerUp:
		res = s.ink.PointerUp(ev)
	}
	up := SessionUpdate{Redraw: res.Changed, Damage: res.Damage, Erased: res.Erased}
	if res.Glyph != nil {
		up.Created = res.Glyph.ID()
	}
	if len(res.Erased) > 0 {
		s.log.Debug().Ints("ids", res.Erased).Msg("glyphs erased")
	}
	return up
}

func (s *Session) routeSelect(kind PointerKind, ev PointerEvent) SessionUpdate {
	switch kind {
	case PointerDown:
		before := s.doc.Selected()
		grabbed := s.drag.PointerDown(ev)
		return SessionUpdate{Redraw: grabbed || !slices.Equal(before, s.doc.Selected())}
	case PointerMove:
		return SessionUpdate{Redraw: s.drag.PointerMove(ev.Pos)}
	case PointerUp:
		return SessionUpdate{Redraw: s.drag.PointerUp(ev)}
	}
	return SessionUpdate{}
}

// routeText opens the text box under the pointer for editing, or creates an
// empty one there.
func (s *Session) routeText(kind PointerKind, ev PointerEvent) SessionUpdate {
	if kind != PointerDown || ev.Button != ButtonPrimary {
		return SessionUpdate{}
	}
	for el := range s.doc.All(VariantText) {
		if el.HitTest(ev.Pos, 0) {
			return SessionUpdate{EditText: el.ID()}
		}
	}
	id := s.doc.Add(NewPlainText(snap(ev.Pos), ""))
	return SessionUpdate{Redraw: true, Created: id, EditText: id}
}

// SetText commits edited text. A text box left empty is removed.
func (s *Session) SetText(id int, text string) error {
	el, err := s.doc.Get(id)
	if err != nil {
		return err
	}
	t, ok := el.(*TextElement)
	if !ok {
		return fmt.Errorf("element %d is a %s: %w", id, el.Variant(), ErrInvalidVariant)
	}
	if strings.TrimSpace(text) == "" {
		s.doc.Remove(id)
	} else if text != t.PlainText() {
		t.SetPlainText(text)
		s.doc.Touch(id)
	}
	s.sync()
	return nil
}

// AddText places a new text box with the given content at pos.
func (s *Session) AddText(pos Point, text string) int {
	id := s.doc.Add(NewPlainText(snap(pos), text))
	s.sync()
	return id
}

// DeleteSelected removes the selected elements and returns how many went.
func (s *Session) DeleteSelected() int {
	ids := s.doc.Selected()
	for _, id := range ids {
		s.doc.Remove(id)
	}
	s.sync()
	return len(ids)
}

// ClearNote removes every element as a user edit, so the empty note is saved.
func (s *Session) ClearNote() {
	s.SetTool(s.tool)
	var ids []int
	for el := range s.doc.All() {
		ids = append(ids, el.ID())
	}
	for _, id := range ids {
		s.doc.Remove(id)
	}
	s.sync()
}

// Receive replaces the document with a note delivered by the host. It does
// not echo a save back.
func (s *Session) Receive(noteText string) (ImportReport, error) {
	s.ink.Cancel()
	s.drag.Cancel()
	report, err := Import(s.doc, noteText, s.log)
	if err != nil {
		s.damaged = true
		s.log.Error().Err(err).Msg("import failed, holding saves")
		return report, err
	}
	s.damaged = false
	s.log.Info().Int("added", report.Added).Int("skipped", report.Skipped).Strs("unknown", report.Unknown).Msg("note imported")
	return report, nil
}

func (s *Session) Marshal() (string, error) {
	return Marshal(s.doc)
}

// Save sends the current document to the host whether or not it changed.
// It also overwrites a stored note that failed to import.
func (s *Session) Save() {
	if s.damaged {
		s.log.Warn().Msg("overwriting damaged note")
		s.damaged = false
	}
	s.dirty = true
	s.sync()
}

func (s *Session) sync() {
	if !s.dirty || s.closed || s.damaged {
		return
	}
	s.dirty = false
	text, err := Marshal(s.doc)
	if err != nil {
		s.log.Error().Err(err).Msg("export failed")
		return
	}
	log, onSaved := s.log, s.onSaved
	s.bridge.SaveNote(text, func(err error) {
		if err != nil {
			log.Warn().Err(err).Msg("save failed")
		} else {
			log.Debug().Int("bytes", len(text)).Msg("note saved")
		}
		if onSaved != nil {
			onSaved(err)
		}
	})
}

// Close drops gestures in progress and hands any unsaved edits to the host.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.ink.Cancel()
	s.drag.Cancel()
	s.sync()
	s.closed = true
	s.log.Info().Msg("session closed")
}

// snap moves p to the top-left corner of its cell. Text boxes live on whole
// units so their borders line up with the grid.
func snap(p Point) Point {
	return Pt(math.Floor(p.X), math.Floor(p.Y))
}
