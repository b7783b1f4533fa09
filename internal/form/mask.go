// Package form implements the contact form's field rules: the Brazilian
// phone mask, per-field validation, and submission references. Everything is
// pure; the page model owns state and timing.
package form

import "strings"

// maxPhoneDigits caps input at DDD plus a nine-digit mobile number.
const maxPhoneDigits = 11

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MaskPhone formats raw input as (DD) DDDDD-DDDD, growing the mask with the
// input: "11" → "(11", "119876" → "(11) 9876", "11987654321" →
// "(11) 98765-4321". Non-digits are dropped first, so pasting an already
// masked number is fine, and digits past eleven are ignored.
func MaskPhone(raw string) string {
	d := Digits(raw)
	if len(d) > maxPhoneDigits {
		d = d[:maxPhoneDigits]
	}
	switch {
	case len(d) == 0:
		return ""
	case len(d) <= 2:
		return "(" + d
	case len(d) <= 7:
		return "(" + d[:2] + ") " + d[2:]
	default:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	}
}
