package main

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingBridge completes every save synchronously.
type recordingBridge struct {
	listener func(string)
	saved    []string
	saveErr  error
}

func (b *recordingBridge) OnNoteStreamed(fn func(string)) { b.listener = fn }

func (b *recordingBridge) SaveNote(text string, onComplete func(error)) {
	b.saved = append(b.saved, text)
	if onComplete != nil {
		onComplete(b.saveErr)
	}
}

func newTestSession(t *testing.T) (*Session, *recordingBridge) {
	t.Helper()
	bridge := &recordingBridge{}
	s := NewSession("test", bridge, SessionOptions{
		Pen:          testPen(),
		EraserRadius: 1,
		GrabMargin:   1,
		Logger:       zerolog.Nop(),
	})
	return s, bridge
}

func TestSessionPenStrokeSaves(t *testing.T) {
	s, bridge := newTestSession(t)

	s.HandlePointer(PointerDown, primary(10, 10))
	s.HandlePointer(PointerMove, primary(15, 10))
	assert.Empty(t, bridge.saved, "nothing is saved mid-stroke")
	up := s.HandlePointer(PointerUp, primary(15, 10))

	assert.NotZero(t, up.Created)
	require.Len(t, bridge.saved, 1)
	assert.Contains(t, bridge.saved[0], `"GlyphElement"`)
}

func TestSessionReceiveDoesNotEcho(t *testing.T) {
	s, bridge := newTestSession(t)
	report, err := s.Receive(singleGlyphNote)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, s.Document().Len())
	assert.Empty(t, bridge.saved)
}

func TestSessionReceiveParseError(t *testing.T) {
	s, bridge := newTestSession(t)
	s.AddText(Pt(0, 0), "keep?")
	bridge.saved = nil

	_, err := s.Receive(`[1,2,3]`)
	assert.ErrorIs(t, err, ErrParse)
	assert.Zero(t, s.Document().Len())
	assert.Empty(t, bridge.saved)
}

func TestSessionReceiveCancelsGestures(t *testing.T) {
	s, _ := newTestSession(t)
	s.HandlePointer(PointerDown, primary(0, 0))
	require.True(t, s.Ink().Tracking())

	_, err := s.Receive("")
	require.NoError(t, err)
	assert.False(t, s.Ink().Tracking())
}

func TestSessionEraseSaves(t *testing.T) {
	s, bridge := newTestSession(t)
	_, err := s.Receive(singleGlyphNote)
	require.NoError(t, err)

	up := s.HandlePointer(PointerDown, secondary(5, 5))
	assert.Len(t, up.Erased, 1)
	s.HandlePointer(PointerUp, secondary(5, 5))
	require.Len(t, bridge.saved, 1)
	assert.Equal(t, "{}", bridge.saved[0])
}

func TestSessionCaptureOverridesTool(t *testing.T) {
	s, bridge := newTestSession(t)
	id := s.AddText(Pt(10, 10), "drag me")
	bridge.saved = nil

	s.SetTool(ToolSelect)
	s.HandlePointer(PointerMove, primary(10.5, 11))
	up := s.HandlePointer(PointerDown, primary(10.5, 11))
	assert.True(t, up.Redraw)

	// Switching tools is not possible mid-gesture from the UI, but events
	// still go to the grabbed element whatever the tool says.
	s.tool = ToolPen
	s.HandlePointer(PointerMove, primary(20.5, 11))
	assert.False(t, s.Ink().Tracking())
	s.HandlePointer(PointerUp, primary(20.5, 11))

	el, err := s.Document().Get(id)
	require.NoError(t, err)
	assert.Equal(t, 20.0, el.Box().X)
	assert.Len(t, bridge.saved, 1)
}

func TestSessionTextTool(t *testing.T) {
	s, bridge := newTestSession(t)
	s.SetTool(ToolText)

	up := s.HandlePointer(PointerDown, primary(3.5, 4.5))
	require.NotZero(t, up.EditText)
	assert.Equal(t, up.Created, up.EditText)
	el, err := s.Document().Get(up.EditText)
	require.NoError(t, err)
	assert.Equal(t, Pt(3, 4), el.Box().Origin())

	require.NoError(t, s.SetText(up.EditText, "note"))
	assert.Equal(t, "note", el.(*TextElement).PlainText())

	again := s.HandlePointer(PointerDown, primary(4.5, 5.5))
	assert.Equal(t, up.EditText, again.EditText)
	assert.Zero(t, again.Created)

	bridge.saved = nil
	require.NoError(t, s.SetText(up.EditText, "note"))
	assert.Empty(t, bridge.saved, "unchanged text is not a change")

	require.NoError(t, s.SetText(up.EditText, "  "))
	assert.Zero(t, s.Document().Len())
}

func TestSessionSetTextErrors(t *testing.T) {
	s, _ := newTestSession(t)
	assert.ErrorIs(t, s.SetText(42, "x"), ErrNotFound)

	_, err := s.Receive(singleGlyphNote)
	require.NoError(t, err)
	var glyphID int
	for el := range s.Document().All() {
		glyphID = el.ID()
	}
	assert.ErrorIs(t, s.SetText(glyphID, "x"), ErrInvalidVariant)
}

func TestSessionDeleteSelectedAndClear(t *testing.T) {
	s, bridge := newTestSession(t)
	a := s.AddText(Pt(0, 0), "a")
	s.AddText(Pt(0, 10), "b")
	s.Document().Select(a)

	assert.Equal(t, 1, s.DeleteSelected())
	assert.Equal(t, 1, s.Document().Len())

	s.ClearNote()
	assert.Zero(t, s.Document().Len())
	assert.Equal(t, "{}", bridge.saved[len(bridge.saved)-1])
}

func TestSessionSaveReportsErrors(t *testing.T) {
	s, bridge := newTestSession(t)
	bridge.saveErr = errors.New("disk full")
	var got []error
	s.SetOnSaved(func(err error) { got = append(got, err) })

	s.Save()
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "disk full")
}

func TestSessionSetPenValidates(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Error(t, s.SetPen(Style{Color: "#000", Width: 0, Fill: FillNone}))
	require.NoError(t, s.SetPen(Style{Color: "#f00", Width: 3, Fill: FillSolid}))
	assert.Equal(t, 3.0, s.Ink().Pen().Width)
}

func TestSessionClose(t *testing.T) {
	s, bridge := newTestSession(t)
	s.HandlePointer(PointerDown, primary(0, 0))
	s.Close()
	assert.False(t, s.Ink().Tracking())
	assert.Empty(t, bridge.saved)

	up := s.HandlePointer(PointerDown, primary(0, 0))
	assert.False(t, up.Redraw)
	s.Close()
}

func TestSessionSetToolMidGesture(t *testing.T) {
	t.Run("stroke", func(t *testing.T) {
		s, bridge := newTestSession(t)
		s.HandlePointer(PointerDown, primary(10, 10))
		s.HandlePointer(PointerMove, primary(15, 10))
		require.True(t, s.Ink().Tracking())

		s.SetTool(ToolText)
		s.SetTool(ToolText)
		s.HandlePointer(PointerMove, primary(20, 10))
		s.HandlePointer(PointerUp, primary(20, 10))

		assert.False(t, s.Ink().Tracking())
		_, _, pending := s.Ink().Pending()
		assert.False(t, pending)
		assert.Zero(t, s.Document().Len())
		assert.Empty(t, bridge.saved)
	})

	t.Run("erase", func(t *testing.T) {
		s, bridge := newTestSession(t)
		_, err := s.Receive(singleGlyphNote)
		require.NoError(t, err)
		s.HandlePointer(PointerDown, secondary(30, 30))
		require.True(t, s.Ink().Erasing())

		s.SetTool(ToolPen)
		s.SetTool(ToolPen)
		s.HandlePointer(PointerMove, secondary(5, 5))
		s.HandlePointer(PointerUp, secondary(5, 5))

		assert.False(t, s.Ink().Erasing())
		assert.Equal(t, 1, s.Document().Len())
		assert.Empty(t, bridge.saved)
	})

	t.Run("drag", func(t *testing.T) {
		s, bridge := newTestSession(t)
		id := s.AddText(Pt(10, 10), "drag me")
		bridge.saved = nil

		s.SetTool(ToolSelect)
		s.HandlePointer(PointerMove, primary(10.5, 11))
		s.HandlePointer(PointerDown, primary(10.5, 11))
		s.HandlePointer(PointerMove, primary(30.5, 20))
		_, grabbed := s.Drag().Captured()
		require.True(t, grabbed)

		s.SetTool(ToolPen)
		s.SetTool(ToolPen)
		s.HandlePointer(PointerUp, primary(30.5, 20))

		_, grabbed = s.Drag().Captured()
		assert.False(t, grabbed)
		el, err := s.Document().Get(id)
		require.NoError(t, err)
		assert.Equal(t, Pt(10, 10), el.Box().Origin())
		assert.Equal(t, 1, s.Document().Len())
		assert.Empty(t, bridge.saved)
	})
}

// mergeDeltas collapses a stroke to a single line from start to end.
type mergeDeltas struct{}

func (mergeDeltas) Simplify(p GlyphPath) GlyphPath {
	var sum Point
	for _, d := range p.Deltas {
		sum = sum.Add(d)
	}
	return GlyphPath{Start: p.Start, Deltas: []Point{sum}}
}

func TestSessionUsesSimplifier(t *testing.T) {
	bridge := &recordingBridge{}
	s := NewSession("test", bridge, SessionOptions{
		Pen:          testPen(),
		EraserRadius: 1,
		GrabMargin:   1,
		Simplifier:   mergeDeltas{},
		Logger:       zerolog.Nop(),
	})

	s.HandlePointer(PointerDown, primary(10, 10))
	s.HandlePointer(PointerMove, primary(15, 10))
	s.HandlePointer(PointerMove, primary(15, 15))
	up := s.HandlePointer(PointerUp, primary(15, 15))
	require.NotZero(t, up.Created)

	el, err := s.Document().Get(up.Created)
	require.NoError(t, err)
	g := el.(*GlyphElement)
	assert.Equal(t, "M 1 1 l 5 5", g.Path().Encode())
	assert.Equal(t, Box{X: 9, Y: 9, W: 7, H: 7}, g.Box())
	require.Len(t, bridge.saved, 1)
	assert.Contains(t, bridge.saved[0], `"path":"M 1 1 l 5 5"`)
}

func TestSessionDamagedNoteHoldsSaves(t *testing.T) {
	s, bridge := newTestSession(t)
	_, err := s.Receive(`{"GlyphElement":`)
	require.ErrorIs(t, err, ErrParse)
	assert.True(t, s.Damaged())

	s.AddText(Pt(0, 0), "new")
	s.Close()
	assert.Empty(t, bridge.saved, "the stored note is left alone")

	s, bridge = newTestSession(t)
	_, err = s.Receive(`[]`)
	require.Error(t, err)
	s.AddText(Pt(0, 0), "new")
	require.Empty(t, bridge.saved)

	s.Save()
	assert.False(t, s.Damaged())
	require.Len(t, bridge.saved, 1)
	assert.Contains(t, bridge.saved[0], `"new"`)

	s.AddText(Pt(0, 10), "more")
	assert.Len(t, bridge.saved, 2)
}

func TestSessionGoodDeliveryClearsDamage(t *testing.T) {
	s, bridge := newTestSession(t)
	_, err := s.Receive(`[]`)
	require.Error(t, err)

	_, err = s.Receive(singleGlyphNote)
	require.NoError(t, err)
	assert.False(t, s.Damaged())
	s.AddText(Pt(20, 20), "ok")
	assert.Len(t, bridge.saved, 1)
}
