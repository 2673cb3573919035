package decoder

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Normalize returns the canonical form of a barcode payload: full-width
// characters (as typed by keyboard-wedge scanners in an IME) are narrowed,
// control characters are removed, and surrounding whitespace is trimmed.
func Normalize(raw string) string {
	narrowed, _, err := transform.String(width.Narrow, raw)
	if err != nil {
		narrowed = raw
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}

		return r
	}, narrowed)

	return strings.TrimSpace(cleaned)
}
