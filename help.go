package main

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Sketchpad

## Tools

| Key | Action |
| --- | --- |
| p | Pen: drag with the left button to draw, right button erases |
| t | Text: click empty space for a new text box, click a box to edit it |
| s | Select: click to select, drag a box by its edge to move it |

## Pen

| Key | Action |
| --- | --- |
| 1-8 | Pick a colour |
| [ / ] | Thinner / thicker stroke |
| f | Toggle solid fill |

## Editing

| Key | Action |
| --- | --- |
| e | Edit the selected text box |
| d | Delete the selection |
| X | Clear the note |
| v | Paste clipboard text at the cursor |
| c | Copy the note to the clipboard |
| Esc | Cancel the current gesture and clear the selection |

While editing text, **Esc** keeps the edit and **Ctrl+X** throws it away.

## Navigation

| Key | Action |
| --- | --- |
| h j k l / arrows | Move the cursor (Shift for 2x) |
| z | Toggle pan mode |

## Files

| Key | Action |
| --- | --- |
| w | Save now |
| E | Export as PNG |
| T | Export as text |
| q / Ctrl+C | Quit |
| ? | Toggle this help |

Notes are saved automatically a moment after every change.
`

var (
	helpRendererMu sync.Mutex
	helpRenderers  = map[int]*glamour.TermRenderer{}
)

// renderHelp renders the help page for the given wrap width. Renderers are
// cached per width; a fixed style avoids terminal background queries.
func renderHelp(width int) string {
	if width < 20 {
		width = 20
	}
	helpRendererMu.Lock()
	r := helpRenderers[width]
	helpRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return helpMarkdown
		}
		helpRendererMu.Lock()
		if existing := helpRenderers[width]; existing != nil {
			r = existing
		} else {
			helpRenderers[width] = rr
			r = rr
		}
		helpRendererMu.Unlock()
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return strings.TrimRight(out, "\n")
}

func (m model) helpView() string {
	helpLines := strings.Split(renderHelp(m.width), "\n")

	visibleHeight := m.height - 1
	if visibleHeight < 1 {
		visibleHeight = 1
	}
	startLine := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	endLine := min(startLine+visibleHeight, len(helpLines))

	result := strings.Join(helpLines[startLine:endLine], "\n")
	statusLine := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result + "\n" + statusLine
}

func (m model) updateHelp(key string) model {
	switch key {
	case "j", "down":
		total := len(strings.Split(renderHelp(m.width), "\n"))
		if m.helpScroll < total-max(m.height-1, 1) {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m
}
