// Package text holds small string helpers.
package text

// Truncate cuts s to at most max bytes, backing off to a rune boundary, and
// marks the cut with "...". A max of zero or less disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !runeStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func runeStart(b byte) bool {
	return b&0xC0 != 0x80
}
