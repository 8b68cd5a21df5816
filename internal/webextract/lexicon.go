package webextract

import (
	"sort"
	"strings"

	"github.com/sells-group/prospect-ingest/internal/normalize"
)

// techKeywords maps lowercase page-text keywords to canonical technology
// names. Detection is lexicon matching, not NLP.
var techKeywords = map[string]string{
	"salesforce":          "Salesforce",
	"hubspot":             "HubSpot",
	"shopify":             "Shopify",
	"wordpress":           "WordPress",
	"kubernetes":          "Kubernetes",
	"aws":                 "AWS",
	"amazon web services": "AWS",
	"google cloud":        "Google Cloud",
	"azure":               "Azure",
	"react":               "React",
	"stripe":              "Stripe",
	"snowflake":           "Snowflake",
	"postgresql":          "PostgreSQL",
	"tableau":             "Tableau",
	"zendesk":             "Zendesk",
	"slack":               "Slack",
}

// industryKeywords maps page-text keywords to the normalizer's canonical
// industry vocabulary.
var industryKeywords = map[string]string{
	"saas":          normalize.IndustryTechnology,
	"software":      normalize.IndustryTechnology,
	"platform":      normalize.IndustryTechnology,
	"fintech":       normalize.IndustryFinance,
	"banking":       normalize.IndustryFinance,
	"investment":    normalize.IndustryFinance,
	"insurance":     normalize.IndustryFinance,
	"healthcare":    normalize.IndustryHealthcare,
	"patients":      normalize.IndustryHealthcare,
	"clinical":      normalize.IndustryHealthcare,
	"ecommerce":     normalize.IndustryRetail,
	"e-commerce":    normalize.IndustryRetail,
	"retailers":     normalize.IndustryRetail,
	"manufacturing": normalize.IndustryManufacturing,
	"factory":       normalize.IndustryManufacturing,
	"students":      normalize.IndustryEducation,
	"learning":      normalize.IndustryEducation,
	"consulting":    normalize.IndustryProfessional,
	"advisory":      normalize.IndustryProfessional,
	"real estate":   normalize.IndustryRealEstate,
	"properties":    normalize.IndustryRealEstate,
	"streaming":     normalize.IndustryMedia,
	"publishing":    normalize.IndustryMedia,
	"renewable":     normalize.IndustryEnergy,
	"solar":         normalize.IndustryEnergy,
}

// sizeKeywords maps self-descriptions to size buckets.
var sizeKeywords = map[string]string{
	"startup":       normalize.SizeSmall,
	"small team":    normalize.SizeSmall,
	"family-owned":  normalize.SizeSmall,
	"growing team":  normalize.SizeMedium,
	"mid-sized":     normalize.SizeMedium,
	"enterprise":    normalize.SizeLarge,
	"global leader": normalize.SizeLarge,
	"fortune 500":   normalize.SizeLarge,
	"multinational": normalize.SizeLarge,
}

// DetectTechnologies returns the canonical names of technologies mentioned
// in the page text, sorted for determinism.
func DetectTechnologies(text string) []string {
	found := make(map[string]bool)
	for keyword, name := range techKeywords {
		if strings.Contains(text, keyword) {
			found[name] = true
		}
	}
	if len(found) == 0 {
		return nil
	}
	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// GuessIndustry picks the industry whose keywords appear most often in the
// page text, or "" when nothing matches.
func GuessIndustry(text string) string {
	counts := make(map[string]int)
	for keyword, industry := range industryKeywords {
		if n := strings.Count(text, keyword); n > 0 {
			counts[industry] += n
		}
	}

	best := ""
	bestCount := 0
	for industry, n := range counts {
		if n > bestCount || (n == bestCount && industry < best) {
			best = industry
			bestCount = n
		}
	}
	return best
}

// GuessSize returns a size bucket when the page self-describes one.
func GuessSize(text string) string {
	for keyword, size := range sizeKeywords {
		if strings.Contains(text, keyword) {
			return size
		}
	}
	return ""
}
