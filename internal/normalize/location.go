package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// postalRe probes for US ZIP (12345 or 12345-6789) and UK-style postcodes.
var postalRe = regexp.MustCompile(`^(\d{5}(-\d{4})?|[A-Za-z]{1,2}\d[A-Za-z\d]?\s*\d[A-Za-z]{2})$`)

// ParseLocation splits a free-text "City, Region, Country" string into
// structured parts using comma count as a heuristic:
//
//	1 part  -> city only
//	2 parts -> city + region-or-country, disambiguated by token length
//	3 parts -> city, region, country
//	4+      -> best effort, with a postal-code probe over the extra parts
func ParseLocation(raw string) *model.Location {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	loc := &model.Location{}
	switch len(parts) {
	case 1:
		loc.City = parts[0]
	case 2:
		loc.City = parts[0]
		// Short alphabetic tokens are region codes (CA, NY, TX);
		// longer tokens are country names.
		if isRegionCode(parts[1]) {
			loc.Region = parts[1]
		} else {
			loc.Country = parts[1]
		}
	case 3:
		loc.City = parts[0]
		loc.Region = parts[1]
		loc.Country = parts[2]
	default:
		loc.City = parts[0]
		rest := parts[1:]
		var remaining []string
		for _, p := range rest {
			if loc.PostalCode == "" && postalRe.MatchString(p) {
				loc.PostalCode = p
				continue
			}
			remaining = append(remaining, p)
		}
		if len(remaining) > 0 {
			loc.Region = remaining[0]
		}
		if len(remaining) > 1 {
			loc.Country = remaining[len(remaining)-1]
		}
	}
	return loc
}

func isRegionCode(s string) bool {
	if len(s) < 2 || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
