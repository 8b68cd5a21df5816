// Package match implements fuzzy string similarity and pairwise duplicate
// detection between contact records.
package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EditDistance returns the minimum number of single-character insertions,
// deletions, and substitutions needed to transform a into b. Classic
// dynamic programming, O(len(a)*len(b)).
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity scores two strings in [0, 1]: 1 for an exact match (checked
// before computing any distance), 0 when either string is empty, otherwise
// 1 - editDistance/maxLen.
func Similarity(a, b string, caseInsensitive bool) float64 {
	if caseInsensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}

	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	return 1 - float64(EditDistance(a, b))/float64(maxLen)
}

var diacriticFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldDiacritics strips combining diacritical marks ("José" -> "Jose").
// Returns the input unchanged if the transform fails.
func FoldDiacritics(s string) string {
	out, _, err := transform.String(diacriticFold, s)
	if err != nil {
		return s
	}
	return out
}
