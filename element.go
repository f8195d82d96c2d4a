package main

// Variant tags an element kind. The tag is also the top-level key of the
// persisted note.
type Variant string

const (
	VariantText  Variant = "TextElement"
	VariantGlyph Variant = "GlyphElement"
)

// Element is a positioned, addressable unit on the surface. The set of
// implementations is closed: only *TextElement and *GlyphElement satisfy it.
type Element interface {
	ID() int
	Variant() Variant
	Box() Box
	SetBox(Box)

	// HitTest reports whether a probe of the given radius centred on p
	// touches the element.
	HitTest(p Point, radius float64) bool
	Render(r Renderer, v Visual)
	ExportRecord() (any, error)

	base() *elementBase
	release()
}

// Renderer is the drawing backend elements paint themselves onto.
type Renderer interface {
	Stroke(points []Point, style Style)
	TextBox(box Box, lines []string, v Visual)
}

// Visual carries the interaction state that changes how an element is drawn.
type Visual struct {
	State    DragState
	Selected bool
}

type elementBase struct {
	id  int
	box Box
}

func (e *elementBase) ID() int            { return e.id }
func (e *elementBase) Box() Box           { return e.box }
func (e *elementBase) SetBox(b Box)       { e.box = b }
func (e *elementBase) base() *elementBase { return e }
