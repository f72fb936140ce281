package catalog

import "strings"

// Normalize reduces a raw title to its canonical matching key: lower-cased
// with every character that is not an ASCII letter or digit removed.
// "The Way of Kings" and "the-way-of-kings!" normalize identically.
//
// Empty input normalizes to the empty string, which never matches any
// catalog entry. Normalize is pure and idempotent.
func Normalize(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
