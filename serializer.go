package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// RecordTree is the persisted form of a document: variant tag to records in
// z-order.
type RecordTree map[Variant][]any

type styleRecord struct {
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Fill  string  `json:"fill"`
}

type glyphRecord struct {
	Box   []float64   `json:"box"`
	Path  string      `json:"path"`
	Style styleRecord `json:"style"`
}

type textRecord struct {
	Box             []float64       `json:"box"`
	RichTextPayload json.RawMessage `json:"richTextPayload"`
}

func boxToRecord(b Box) []float64 {
	return []float64{b.X, b.Y, b.W, b.H}
}

func boxFromRecord(v []float64) (Box, error) {
	if len(v) != 4 {
		return Box{}, fmt.Errorf("box needs 4 numbers, got %d", len(v))
	}
	if v[2] < 0 || v[3] < 0 {
		return Box{}, fmt.Errorf("box has negative size %vx%v", v[2], v[3])
	}
	return Box{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

type recordDecoder func(raw json.RawMessage) (Element, error)

// variantDecoders is the closed set of element kinds a note may contain.
var variantDecoders = map[Variant]recordDecoder{
	VariantText:  decodeTextRecord,
	VariantGlyph: decodeGlyphRecord,
}

func decodeTextRecord(raw json.RawMessage) (Element, error) {
	var rec textRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	box, err := boxFromRecord(rec.Box)
	if err != nil {
		return nil, err
	}
	return NewTextElement(box, rec.RichTextPayload), nil
}

func decodeGlyphRecord(raw json.RawMessage) (Element, error) {
	var rec glyphRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	box, err := boxFromRecord(rec.Box)
	if err != nil {
		return nil, err
	}
	path, err := ParsePath(rec.Path)
	if err != nil {
		return nil, err
	}
	fill := FillMode(rec.Style.Fill)
	if fill == "" {
		fill = FillNone
	}
	return NewGlyph(box, path, Style{Color: rec.Style.Color, Width: rec.Style.Size, Fill: fill})
}

// Export builds the record tree for doc. Variants without elements are left out.
func Export(doc *Document) (RecordTree, error) {
	tree := RecordTree{}
	for el := range doc.All() {
		rec, err := el.ExportRecord()
		if err != nil {
			return nil, fmt.Errorf("export element %d: %w", el.ID(), err)
		}
		tree[el.Variant()] = append(tree[el.Variant()], rec)
	}
	return tree, nil
}

// Marshal serializes doc to the note text handed to the host. The output is
// stable: an unchanged document always produces the same bytes.
func Marshal(doc *Document) (string, error) {
	tree, err := Export(doc)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tree); err != nil {
		return "", fmt.Errorf("encode note: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ImportReport summarizes what Import rebuilt.
type ImportReport struct {
	Added   int
	Skipped int
	// Unknown lists variant tags that were skipped as a whole.
	Unknown []string
}

// Import replaces the contents of doc with the note in text. Ids are freshly
// assigned. A structural problem returns ErrParse and leaves doc empty; a bad
// record is skipped and counted. Unknown variants are skipped so newer notes
// still open.
func Import(doc *Document, text string, log zerolog.Logger) (ImportReport, error) {
	var report ImportReport
	var err error
	doc.quiet(func() {
		doc.Clear()
		report, err = importRecords(doc, text, log)
		if err != nil {
			doc.Clear()
		}
	})
	return report, err
}

func importRecords(doc *Document, text string, log zerolog.Logger) (ImportReport, error) {
	var report ImportReport
	if strings.TrimSpace(text) == "" {
		return report, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil || top == nil {
		if err == nil {
			err = errors.New("null note")
		}
		return report, fmt.Errorf("%w: %v", ErrParse, err)
	}

	sections := make(map[string][]json.RawMessage, len(top))
	for tag, raw := range top {
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			return report, fmt.Errorf("%w: %s is not a list: %v", ErrParse, tag, err)
		}
		sections[tag] = records
	}

	tags := make([]string, 0, len(sections))
	for tag := range sections {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	for _, tag := range tags {
		records := sections[tag]
		decode, ok := variantDecoders[Variant(tag)]
		if !ok {
			report.Skipped += len(records)
			report.Unknown = append(report.Unknown, tag)
			log.Warn().Err(ErrInvalidVariant).Str("variant", tag).Int("skipped", len(records)).Msg("skipping unknown variant")
			continue
		}
		for i, raw := range records {
			el, err := decode(raw)
			if err != nil {
				report.Skipped++
				log.Warn().Err(err).Str("variant", tag).Int("index", i).Msg("skipping record")
				continue
			}
			doc.Add(el)
			report.Added++
		}
	}
	return report, nil
}
