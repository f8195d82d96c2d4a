package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathEncode(t *testing.T) {
	p := GlyphPath{Start: Pt(1, 2.5), Deltas: []Point{{X: 5, Y: 0}, {X: -0.25, Y: 3}}}
	assert.Equal(t, "M 1 2.5 l 5 0 l -0.25 3", p.Encode())
}

func TestPathEncodeNegativeZero(t *testing.T) {
	negZero := 0.0
	negZero = -negZero
	p := GlyphPath{Start: Pt(negZero, 0)}
	assert.Equal(t, "M 0 0", p.Encode())
}

func TestParsePath(t *testing.T) {
	p, err := ParsePath("M 0 0 l 10 10 l -2 0.5")
	require.NoError(t, err)
	assert.Equal(t, Pt(0, 0), p.Start)
	assert.Equal(t, []Point{{X: 10, Y: 10}, {X: -2, Y: 0.5}}, p.Deltas)

	again, err := ParsePath(p.Encode())
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestParsePathRejects(t *testing.T) {
	for name, in := range map[string]string{
		"empty":          "",
		"no move":        "l 1 1",
		"missing start":  "M 1",
		"bad number":     "M x 1",
		"truncated line": "M 0 0 l 1",
		"curve":          "M 0 0 c 1 1",
		"nan start":      "M NaN 0",
		"inf delta":      "M 0 0 l -Inf 0",
		"infinity":       "M Infinity +Inf",
		"out of range":   "M 1e999 0",
		"overflow":       "M 1e308 0 l 1e308 0",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePath(in)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestPathPointsAndBounds(t *testing.T) {
	p := GlyphPath{Start: Pt(1, 1), Deltas: []Point{{X: 5, Y: 0}, {X: 0, Y: 5}}}
	assert.Equal(t, []Point{{X: 11, Y: 11}, {X: 16, Y: 11}, {X: 16, Y: 16}}, p.Points(Pt(10, 10)))
	assert.Equal(t, Box{X: 1, Y: 1, W: 5, H: 5}, p.Bounds())
}

func TestSegmentDistance(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	assert.InDelta(t, 3, segmentDistance(Pt(5, 3), a, b), 1e-9)
	assert.InDelta(t, 5, segmentDistance(Pt(-3, 4), a, b), 1e-9)
	assert.InDelta(t, 5, segmentDistance(Pt(3, 4), a, a), 1e-9)
}

func TestBoxEdgeDistance(t *testing.T) {
	b := Box{X: 0, Y: 0, W: 10, H: 4}
	assert.InDelta(t, 0.5, b.EdgeDistance(Pt(0.5, 2)), 1e-9)
	assert.InDelta(t, 2, b.EdgeDistance(Pt(5, 2)), 1e-9)
	assert.True(t, b.Contains(Pt(10, 4)))
	assert.False(t, b.Contains(Pt(10.1, 4)))
}
