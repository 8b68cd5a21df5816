package normalize

import (
	"regexp"
	"strings"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// Phone strips all non-digit characters except a leading '+'. When
// defaultCountryCode is set, bare 10-digit numbers get "+<code>" prefixed.
func Phone(raw, defaultCountryCode string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}

	plus := strings.HasPrefix(p, "+")
	digits := nonDigitRe.ReplaceAllString(p, "")
	if digits == "" {
		return raw // nothing recognizable; pass through
	}

	if plus {
		return "+" + digits
	}
	if defaultCountryCode != "" && len(digits) == 10 {
		return "+" + defaultCountryCode + digits
	}
	return digits
}

// PhoneDigits returns only the digits of a phone number, for exact-digit
// comparison between records.
func PhoneDigits(raw string) string {
	return nonDigitRe.ReplaceAllString(raw, "")
}

var nanpRe = regexp.MustCompile(`^\+?1?(\d{3})(\d{3})(\d{4})$`)

// FormatNANP renders a North American number as "(AAA) BBB-CCCC" for
// display. Numbers that do not match the NANP pattern are returned as-is.
func FormatNANP(phone string) string {
	m := nanpRe.FindStringSubmatch(PhoneDigits(phone))
	if m == nil {
		return phone
	}
	return "(" + m[1] + ") " + m[2] + "-" + m[3]
}
