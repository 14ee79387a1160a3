// Package idn transcodes internationalized domain labels to their ASCII
// (punycode) form. It exists so the cookie engine's canonicalization step
// never has to special-case non-ASCII hosts: it is the "idn.to_ascii"
// external collaborator called out as out-of-scope in the cookie engine
// specification.
//
// The teacher's cookiejar.go hand-rolls the punycode encoder (encode,
// toASCII, adapt, encodeDigit — section 6 of RFC 3492, reimplemented from
// scratch). golang.org/x/net/idna already ships a maintained implementation
// of the same RFC, so we use that instead of carrying the hand-rolled table
// forward.
package idn

import "golang.org/x/net/idna"

// ------------------------------------------------------------------------

// ToASCII converts a domain or domain label to its ASCII form. For example,
// ToASCII("bücher.example.com") is "xn--bcher-kva.example.com", and
// ToASCII("golang") is "golang". A plain-ASCII input is returned unchanged.
func ToASCII(s string) (string, error) {
	if isASCII(s) {
		return s, nil
	}

	return idna.Lookup.ToASCII(s)
}

// ------------------------------------------------------------------------

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}

	return true
}
