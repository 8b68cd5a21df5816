package normalize

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(
	`^[a-z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?(?:\.[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?)+$`)

// Email canonicalizes an email address: trims whitespace, strips a mailto:
// prefix plus surrounding brackets and quotes, and lowercases. Returns an
// *InvalidEmailError if the result fails the address grammar.
func Email(raw string) (string, error) {
	e := strings.TrimSpace(raw)
	e = strings.Trim(e, `<>"'`)
	e = strings.ToLower(e)
	e = strings.TrimPrefix(e, "mailto:")
	e = strings.Trim(e, `<>"'`)

	if !emailRe.MatchString(e) {
		return "", &InvalidEmailError{Email: raw}
	}
	return e, nil
}

// EmailDomain returns the part after '@', or "" for a malformed address.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// EmailLocal returns the part before '@'.
func EmailLocal(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at]
}
