package main

import (
	"html"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func writeClipboardText(text string) error {
	return clipboard.WriteAll(text)
}

// pasteText reads the clipboard and reduces whatever is there to plain text.
func pasteText() (string, error) {
	text, err := readClipboardText()
	if err != nil {
		return "", err
	}
	if isHTML(text) {
		text = extractTextFromHTML(text)
	}
	return strings.TrimRight(cleanClipboardText(text), "\n"), nil
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "<") {
		return false
	}
	for _, tag := range []string{"<html", "<body", "<div", "<p", "<span"} {
		if strings.Contains(t, tag) {
			return true
		}
	}
	return false
}

func extractTextFromHTML(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			out.WriteRune(r)
		}
	}
	return strings.ReplaceAll(html.UnescapeString(out.String()), "\u00a0", " ")
}

// cleanClipboardText strips RTF markup and control characters and
// normalises line endings to \n.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	if isRTF(text) {
		text = stripRTF(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}, text)
}

// stripRTF drops groups, control words and their single trailing space.
// Escaped braces and backslashes survive as literals.
func stripRTF(text string) string {
	var out strings.Builder
	out.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
		default:
			out.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			out.WriteRune(next)
			i++
		case isLetter(next):
			j := i + 1
			for j < len(runes) && isLetter(runes[j]) {
				j++
			}
			if word := string(runes[i+1 : j]); word == "par" || word == "line" {
				out.WriteRune('\n')
			}
			for j < len(runes) && (runes[j] == '-' || (runes[j] >= '0' && runes[j] <= '9')) {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			i = j - 1
		default:
			i++
		}
	}
	return out.String()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
