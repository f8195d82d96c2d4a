package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPen() Style {
	return Style{Color: "#000000", Width: 2, Fill: FillNone}
}

func mustGlyph(t *testing.T, box Box, path GlyphPath) *GlyphElement {
	t.Helper()
	g, err := NewGlyph(box, path, testPen())
	require.NoError(t, err)
	return g
}

func ids(seq func(func(Element) bool)) []int {
	var out []int
	for el := range seq {
		out = append(out, el.ID())
	}
	return out
}

func TestDocumentAddAssignsIncreasingIDs(t *testing.T) {
	dirty := 0
	doc := NewDocument(func() { dirty++ })

	a := doc.Add(NewPlainText(Pt(0, 0), "a"))
	b := doc.Add(NewPlainText(Pt(0, 5), "b"))
	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, dirty)
	assert.Equal(t, []int{1, 2}, ids(doc.All()))
}

func TestDocumentRemove(t *testing.T) {
	dirty := 0
	doc := NewDocument(func() { dirty++ })
	id := doc.Add(NewPlainText(Pt(0, 0), "a"))
	doc.Select(id)

	doc.Remove(id)
	assert.Equal(t, 0, doc.Len())
	assert.False(t, doc.IsSelected(id))
	assert.Equal(t, 2, dirty)

	doc.Remove(id)
	assert.Equal(t, 2, dirty, "removing a missing id is not a change")

	_, err := doc.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentClearKeepsCounting(t *testing.T) {
	doc := NewDocument(nil)
	doc.Add(NewPlainText(Pt(0, 0), "a"))
	doc.Clear()
	assert.Equal(t, 0, doc.Len())
	assert.Equal(t, 2, doc.Add(NewPlainText(Pt(0, 0), "b")))
}

func TestDocumentAllFiltersAndRestarts(t *testing.T) {
	doc := NewDocument(nil)
	doc.Add(NewPlainText(Pt(0, 0), "a"))
	doc.Add(mustGlyph(t, Box{W: 2, H: 2}, GlyphPath{Start: Pt(1, 1)}))
	doc.Add(NewPlainText(Pt(0, 5), "b"))

	seq := doc.All(VariantText)
	assert.Equal(t, []int{1, 3}, ids(seq))
	assert.Equal(t, []int{1, 3}, ids(seq))
	assert.Equal(t, []int{2}, ids(doc.All(VariantGlyph)))

	var first []int
	for el := range doc.All() {
		first = append(first, el.ID())
		break
	}
	assert.Equal(t, []int{1}, first)
}

func TestDocumentTopmostAt(t *testing.T) {
	doc := NewDocument(nil)
	low := doc.Add(NewTextElement(Box{X: 0, Y: 0, W: 10, H: 10}, nil))
	high := doc.Add(NewTextElement(Box{X: 5, Y: 5, W: 10, H: 10}, nil))

	el, ok := doc.TopmostAt(Pt(7, 7))
	require.True(t, ok)
	assert.Equal(t, high, el.ID())

	el, ok = doc.TopmostAt(Pt(1, 1))
	require.True(t, ok)
	assert.Equal(t, low, el.ID())

	_, ok = doc.TopmostAt(Pt(50, 50))
	assert.False(t, ok)
}

func TestDocumentSelection(t *testing.T) {
	doc := NewDocument(nil)
	a := doc.Add(NewPlainText(Pt(0, 0), "a"))
	b := doc.Add(NewPlainText(Pt(0, 5), "b"))
	doc.Select(b)
	doc.Select(a)
	doc.Select(99)
	assert.Equal(t, []int{a, b}, doc.Selected())

	doc.Deselect(a)
	assert.Equal(t, []int{b}, doc.Selected())
	doc.ClearSelection()
	assert.Empty(t, doc.Selected())
}

func TestDocumentBounds(t *testing.T) {
	doc := NewDocument(nil)
	_, ok := doc.Bounds()
	assert.False(t, ok)

	doc.Add(NewTextElement(Box{X: 0, Y: 0, W: 10, H: 3}, nil))
	doc.Add(NewTextElement(Box{X: 20, Y: -5, W: 8, H: 3}, nil))
	b, ok := doc.Bounds()
	require.True(t, ok)
	assert.Equal(t, Box{X: 0, Y: -5, W: 28, H: 8}, b)
}

func TestDocumentQuietSuppressesDirty(t *testing.T) {
	dirty := 0
	doc := NewDocument(func() { dirty++ })
	doc.quiet(func() {
		doc.Add(NewPlainText(Pt(0, 0), "a"))
		doc.Clear()
	})
	assert.Zero(t, dirty)
	doc.Add(NewPlainText(Pt(0, 0), "b"))
	assert.Equal(t, 1, dirty)
}

func TestTextElementPlainText(t *testing.T) {
	el := NewPlainText(Pt(2, 3), "hello\nworld!!!!!")
	assert.Equal(t, "hello\nworld!!!!!", el.PlainText())
	assert.Equal(t, Box{X: 2, Y: 3, W: 12, H: 4}, el.Box())

	foreign := NewTextElement(Box{W: 8, H: 3}, []byte(`{"ops":[{"insert":"x"}]}`))
	assert.Equal(t, `{"ops":[{"insert":"x"}]}`, foreign.PlainText())

	empty := NewTextElement(Box{}, nil)
	assert.Equal(t, "", empty.PlainText())
	assert.JSONEq(t, `{"text":""}`, string(empty.Payload()))
}
