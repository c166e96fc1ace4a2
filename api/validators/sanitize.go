package validators

import (
	"strings"
	"unicode"
)

// SanitizeString drops control characters, trims surrounding space and caps
// the result at maxLen runes. A non-positive maxLen means no cap.
func SanitizeString(input string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(input))
	n := 0
	for _, r := range strings.TrimSpace(input) {
		if unicode.IsControl(r) {
			continue
		}
		if maxLen > 0 && n == maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return strings.TrimSpace(b.String())
}
