package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// legalSuffixForms maps long-form legal entity suffixes to their canonical
// short forms. Applied case-insensitively at word boundaries.
var legalSuffixForms = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\blimited liability company\b\.?`), "LLC"},
	{regexp.MustCompile(`(?i)\blimited liability partnership\b\.?`), "LLP"},
	{regexp.MustCompile(`(?i)\bincorporated\b\.?`), "Inc."},
	{regexp.MustCompile(`(?i)\bcorporation\b\.?`), "Corp."},
	{regexp.MustCompile(`(?i)\blimited\b\.?`), "Ltd."},
	{regexp.MustCompile(`(?i)\bcompany\b\.?`), "Co."},
}

// trailingShortForms canonicalizes an already-short trailing suffix so that
// "Acme Inc" and "Acme Inc." normalize identically.
var trailingShortForms = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(?i)\binc\.?$`), "Inc."},
	{regexp.MustCompile(`(?i)\bcorp\.?$`), "Corp."},
	{regexp.MustCompile(`(?i)\bltd\.?$`), "Ltd."},
	{regexp.MustCompile(`(?i)\bco\.?$`), "Co."},
	{regexp.MustCompile(`(?i)\bllc\.?$`), "LLC"},
	{regexp.MustCompile(`(?i)\bllp\.?$`), "LLP"},
	{regexp.MustCompile(`(?i)\bplc\.?$`), "PLC"},
}

var companyMultiSpace = regexp.MustCompile(`\s{2,}`)

// CompanyName canonicalizes a company name: long-form legal suffixes are
// replaced with short forms (Incorporated -> Inc.), whitespace is collapsed,
// and words are capitalized. Short all-caps acronyms and brand names with
// interior capitals (eBay, McKinsey) are preserved as written rather than
// force-capitalized.
func CompanyName(raw string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		return ""
	}

	for _, sf := range legalSuffixForms {
		name = sf.re.ReplaceAllString(name, sf.repl)
	}
	for _, sf := range trailingShortForms {
		name = sf.re.ReplaceAllString(name, sf.repl)
	}
	name = companyMultiSpace.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	words := strings.Fields(name)
	for i, w := range words {
		words[i] = capitalizeCompanyWord(w)
	}
	return strings.Join(words, " ")
}

// acronymMaxLen bounds acronym preservation: IBM and SAP stay as written,
// but a fully shouted longer name (ACME) is title-cased.
const acronymMaxLen = 3

func capitalizeCompanyWord(w string) string {
	if isAllUpper(w) {
		if letterCount(w) <= acronymMaxLen {
			return w
		}
		return upperFirst(strings.ToLower(w))
	}
	if hasInteriorUpper(w) {
		return w // brand casing: eBay, iCloud, McKinsey
	}
	return upperFirst(w)
}

func isAllUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func hasInteriorUpper(w string) bool {
	for i, r := range w {
		if i > 0 && unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func letterCount(w string) int {
	n := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// StripLegalSuffix removes a trailing legal suffix (Inc., LLC, Ltd., ...)
// for name comparison. Matching is case-insensitive.
func StripLegalSuffix(name string) string {
	return strings.TrimSpace(trailingSuffixRe.ReplaceAllString(strings.TrimSpace(name), ""))
}

var trailingSuffixRe = regexp.MustCompile(
	`(?i)\s*,?\s*(LLC|L\.?L\.?C\.?|INC\.?|INCORPORATED|CORP\.?|CORPORATION|` +
		`CO\.?|COMPANY|LTD\.?|LIMITED|L\.?P\.?|LLP|L\.?L\.?P\.?|` +
		`PLLC|P\.?L\.?L\.?C\.?|P\.?C\.?|GMBH|S\.?A\.?|B\.?V\.?|PLC)\s*\.?\s*$`)
