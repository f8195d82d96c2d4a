package main

// EraseAt removes every glyph within radius r (plus the glyph's own half
// width) of p and returns the removed ids in z-order. Text elements are never
// erased.
func EraseAt(doc *Document, p Point, r float64) []int {
	var hits []int
	for el := range doc.All(VariantGlyph) {
		if el.HitTest(p, r) {
			hits = append(hits, el.ID())
		}
	}
	for _, id := range hits {
		doc.Remove(id)
	}
	return hits
}
