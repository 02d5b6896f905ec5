package textutil

import "golang.org/x/text/width"

// DisplayWidth returns the number of terminal columns the string occupies.
// East Asian wide and fullwidth runes count as two columns.
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}
