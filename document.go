package main

import (
	"iter"
	"slices"
)

// Document owns the elements of one note. Slice order is z-order: later
// elements paint above earlier ones.
type Document struct {
	elements []Element
	nextID   int
	selected map[int]struct{}

	onDirty   func()
	suspended int
}

// NewDocument creates an empty document. onDirty, when non-nil, is called after
// every mutation.
func NewDocument(onDirty func()) *Document {
	return &Document{
		elements: make([]Element, 0),
		nextID:   1,
		selected: make(map[int]struct{}),
		onDirty:  onDirty,
	}
}

func (d *Document) markDirty() {
	if d.suspended > 0 || d.onDirty == nil {
		return
	}
	d.onDirty()
}

// quiet runs fn with the dirty signal suppressed.
func (d *Document) quiet(fn func()) {
	d.suspended++
	defer func() { d.suspended-- }()
	fn()
}

// Add assigns the next id to el and appends it on top of the z-order.
func (d *Document) Add(el Element) int {
	id := d.nextID
	d.nextID++
	el.base().id = id
	d.elements = append(d.elements, el)
	d.markDirty()
	return id
}

// Remove deletes the element with the given id. Unknown ids are ignored.
func (d *Document) Remove(id int) {
	i := d.index(id)
	if i < 0 {
		return
	}
	d.elements[i].release()
	d.elements = slices.Delete(d.elements, i, i+1)
	delete(d.selected, id)
	d.markDirty()
}

func (d *Document) Get(id int) (Element, error) {
	i := d.index(id)
	if i < 0 {
		return nil, errNotFound(id)
	}
	return d.elements[i], nil
}

// Clear releases and drops every element. Ids keep counting up.
func (d *Document) Clear() {
	for _, el := range d.elements {
		el.release()
	}
	clear(d.elements)
	d.elements = d.elements[:0]
	clear(d.selected)
	d.markDirty()
}

// Touch signals that the element was changed in place (moved, edited).
func (d *Document) Touch(id int) {
	if d.index(id) >= 0 {
		d.markDirty()
	}
}

// All yields elements in z-order, optionally restricted to some variants.
// The sequence can be ranged over any number of times.
func (d *Document) All(variants ...Variant) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, el := range d.elements {
			if len(variants) > 0 && !slices.Contains(variants, el.Variant()) {
				continue
			}
			if !yield(el) {
				return
			}
		}
	}
}

func (d *Document) Len() int {
	return len(d.elements)
}

// TopmostAt returns the highest element whose box contains p.
func (d *Document) TopmostAt(p Point) (Element, bool) {
	for i := len(d.elements) - 1; i >= 0; i-- {
		if d.elements[i].Box().Contains(p) {
			return d.elements[i], true
		}
	}
	return nil, false
}

// Bounds is the union of every element box. ok is false for an empty document.
func (d *Document) Bounds() (b Box, ok bool) {
	for _, el := range d.elements {
		if !ok {
			b, ok = el.Box(), true
			continue
		}
		b = b.Union(el.Box())
	}
	return b, ok
}

func (d *Document) Select(id int) {
	if d.index(id) >= 0 {
		d.selected[id] = struct{}{}
	}
}

func (d *Document) Deselect(id int) {
	delete(d.selected, id)
}

func (d *Document) ClearSelection() {
	clear(d.selected)
}

func (d *Document) IsSelected(id int) bool {
	_, ok := d.selected[id]
	return ok
}

// Selected returns the selected ids in z-order.
func (d *Document) Selected() []int {
	ids := make([]int, 0, len(d.selected))
	for _, el := range d.elements {
		if _, ok := d.selected[el.ID()]; ok {
			ids = append(ids, el.ID())
		}
	}
	return ids
}

func (d *Document) index(id int) int {
	return slices.IndexFunc(d.elements, func(el Element) bool { return el.ID() == id })
}
