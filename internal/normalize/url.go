package normalize

import (
	"net/url"
	"strings"
)

// URL canonicalizes a web URL: forces https:// when no scheme is present,
// lowercases only the host, and strips a trailing slash. Values that fail
// to parse are passed through unchanged.
func URL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}

	if !strings.Contains(u, "://") {
		u = "https://" + u
	}

	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return raw
	}

	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	return parsed.String()
}

// Host returns the lowercased host of a URL with any "www." prefix removed,
// or "" if the value does not parse.
func Host(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}
