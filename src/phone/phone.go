// Package phone canonicalizes phone numbers into correlation keys so numbers
// arriving in different formats from different messaging providers match.
package phone

import "strings"

const keyLength = 10

// CorrelationKey strips everything except digits and keeps the last 10, which
// drops country codes and provider channel prefixes ("whatsapp:+52..."). Two
// numbers correlate iff their keys are equal. Fewer than 10 digits yields the
// full digit string; such keys simply never match a stored reservation.
func CorrelationKey(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > keyLength {
		return digits[len(digits)-keyLength:]
	}
	return digits
}
