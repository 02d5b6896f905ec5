package model

import "fmt"

// CellFormatting holds character-level styling for a cell.
type CellFormatting struct {
	Bold            bool    `json:"bold,omitempty"`
	Italic          bool    `json:"italic,omitempty"`
	Underline       bool    `json:"underline,omitempty"`
	FontSize        float64 `json:"font_size,omitempty"`
	FontFamily      string  `json:"font_family,omitempty"`
	Color           string  `json:"color,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`
}

// HasFormatting reports whether any styling attribute is set.
func (f *CellFormatting) HasFormatting() bool {
	if f == nil {
		return false
	}
	return f.Bold || f.Italic || f.Underline ||
		f.FontSize > 0 || f.FontFamily != "" ||
		f.Color != "" || f.BackgroundColor != ""
}

// ApplyToText wraps text with markdown-style emphasis markers for each
// styling attribute that is set. Bold is applied innermost, then italic,
// then underline.
func (f *CellFormatting) ApplyToText(text string) string {
	if f == nil {
		return text
	}
	result := text
	if f.Bold {
		result = fmt.Sprintf("**%s**", result)
	}
	if f.Italic {
		result = fmt.Sprintf("*%s*", result)
	}
	if f.Underline {
		result = fmt.Sprintf("__%s__", result)
	}
	return result
}
