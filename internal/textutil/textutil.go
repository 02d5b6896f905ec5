// Package textutil provides text normalization helpers shared by the grid
// sources and renderers.
package textutil

import (
	"strings"
	"unicode"
)

// CleanWhitespace trims the text and collapses every whitespace run,
// including line breaks, into a single space.
func CleanWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// RemoveControlChars drops control characters, keeping newlines and tabs.
func RemoveControlChars(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)
}

// NormalizeLineBreaks converts CRLF and lone CR line endings to LF.
func NormalizeLineBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// CleanText applies the full cleaning sequence: control characters are
// removed, line breaks normalized, and whitespace collapsed.
func CleanText(text string) string {
	return CleanWhitespace(NormalizeLineBreaks(RemoveControlChars(text)))
}
