// Package intel accumulates, deduplicates and classifies intelligence
// artifacts across the turns of a session.
package intel

import (
	"net/url"
	"strings"
	"unicode"
)

// Normalize canonicalizes an entity value for its type. Dedup equality is
// tested on the normalized form only; the same phone number in two
// formats must collapse to one entry. Returns ok=false when the value is
// garbage after normalization (too short to be the claimed type).
func Normalize(t EntityType, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	switch t {
	case EntityPhone:
		digits := digitsOnly(value)
		// Strip country prefix and trunk zero so +91-98765... and
		// 098765... compare equal.
		if len(digits) == 12 && strings.HasPrefix(digits, "91") {
			digits = digits[2:]
		}
		if len(digits) == 11 && strings.HasPrefix(digits, "0") {
			digits = digits[1:]
		}
		if len(digits) != 10 {
			return "", false
		}
		return digits, true

	case EntityEmail, EntityUPIID:
		v := strings.ToLower(value)
		if !strings.Contains(v, "@") {
			return "", false
		}
		return v, true

	case EntityBankAccount:
		// IFSC codes stay alphanumeric uppercase; account numbers
		// collapse to digits.
		if hasLetter(value) {
			return strings.ToUpper(strings.Map(dropSpace, value)), true
		}
		digits := digitsOnly(value)
		if len(digits) < 9 {
			return "", false
		}
		return digits, true

	case EntityCryptoAddress:
		// Ethereum addresses are case-insensitive hex; bitcoin base58 is
		// case-sensitive, so only the 0x form is lowercased.
		if strings.HasPrefix(strings.ToLower(value), "0x") {
			return strings.ToLower(value), true
		}
		return value, true

	case EntityURL:
		u, err := url.Parse(value)
		if err != nil || u.Host == "" {
			return "", false
		}
		u.Host = strings.ToLower(u.Host)
		u.Scheme = strings.ToLower(u.Scheme)
		u.Fragment = ""
		return strings.TrimSuffix(u.String(), "/"), true

	case EntityPersonName, EntityOrgName:
		fields := strings.Fields(value)
		if len(fields) == 0 {
			return "", false
		}
		for i, f := range fields {
			fields[i] = strings.ToUpper(f[:1]) + strings.ToLower(f[1:])
		}
		return strings.Join(fields, " "), true

	default:
		return strings.ToLower(strings.Join(strings.Fields(value), " ")), true
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func dropSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return -1
	}
	return r
}
