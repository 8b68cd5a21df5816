package normalize

import (
	"strings"
)

// honorifics lists prefixes and suffixes stripped from person names before
// capitalization. Lookup keys are lowercase with punctuation removed.
var honorifics = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "mx": true, "miss": true,
	"dr": true, "prof": true, "professor": true, "rev": true,
	"sir": true, "dame": true, "hon": true,
	"jr": true, "sr": true, "ii": true, "iii": true, "iv": true,
	"phd": true, "md": true, "esq": true, "mba": true, "cpa": true,
	"dds": true, "jd": true,
}

// PersonName strips honorific prefixes and suffixes, then capitalizes each
// word, re-capitalizing the letter after Mc/Mac/O' prefixes (McDonald,
// MacArthur, O'Brien).
func PersonName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	words := strings.Fields(name)
	kept := words[:0]
	for _, w := range words {
		key := strings.ToLower(strings.Trim(w, ".,"))
		if honorifics[key] {
			continue
		}
		// "Ann Lee, PhD" leaves the comma attached to the preceding word.
		w = strings.TrimRight(w, ",")
		if w == "" {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == 0 {
		// Name consisted only of honorifics; pass through unchanged.
		return name
	}

	for i, w := range kept {
		kept[i] = capitalizeNameWord(w)
	}
	return strings.Join(kept, " ")
}

func capitalizeNameWord(w string) string {
	lower := strings.ToLower(w)

	switch {
	case strings.HasPrefix(lower, "mac") && len(lower) > 3:
		return "Mac" + upperFirst(lower[3:])
	case strings.HasPrefix(lower, "mc") && len(lower) > 2:
		return "Mc" + upperFirst(lower[2:])
	case strings.HasPrefix(lower, "o'") && len(lower) > 2:
		return "O'" + upperFirst(lower[2:])
	}

	// Hyphenated names capitalize each segment.
	if strings.Contains(lower, "-") {
		parts := strings.Split(lower, "-")
		for i, p := range parts {
			parts[i] = upperFirst(p)
		}
		return strings.Join(parts, "-")
	}

	return upperFirst(lower)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
