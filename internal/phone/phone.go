// Package phone canonicalizes phone numbers for routing and storage. Every
// lookup key and persisted number must pass through Normalize first; two
// numbers are "the same" exactly when their normalized forms are equal.
package phone

import "strings"

// Normalize strips every non-digit character from raw. It is pure and
// idempotent; an empty result means the input carried no usable number.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			b.WriteByte(raw[i])
		}
	}
	return b.String()
}
