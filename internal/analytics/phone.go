package analytics

import "strings"

// NormalizePhone canonicalizes a dialed string into the comparison key.
//
// Non-digits are dropped. An 11-digit number starting with 8 gets a leading 7
// instead; a 10-digit number gets 7 prepended. Anything else is returned as
// bare digits, including foreign and malformed numbers.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && digits[0] == '8':
		return "7" + digits[1:]
	case len(digits) == 10:
		return "7" + digits
	default:
		return digits
	}
}
