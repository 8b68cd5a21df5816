package normalize

import "strings"

// Canonical industry tokens. Unrecognized values pass through unchanged.
const (
	IndustryTechnology    = "Technology"
	IndustryFinance       = "Financial Services"
	IndustryHealthcare    = "Healthcare"
	IndustryRetail        = "Retail"
	IndustryManufacturing = "Manufacturing"
	IndustryEducation     = "Education"
	IndustryProfessional  = "Professional Services"
	IndustryRealEstate    = "Real Estate"
	IndustryMedia         = "Media & Entertainment"
	IndustryEnergy        = "Energy"
)

var industrySynonyms = map[string]string{
	"saas":                   IndustryTechnology,
	"software":               IndustryTechnology,
	"tech":                   IndustryTechnology,
	"it":                     IndustryTechnology,
	"information technology": IndustryTechnology,
	"technology":             IndustryTechnology,
	"fintech":                IndustryFinance,
	"finance":                IndustryFinance,
	"financial":              IndustryFinance,
	"financial services":     IndustryFinance,
	"banking":                IndustryFinance,
	"insurance":              IndustryFinance,
	"healthcare":             IndustryHealthcare,
	"health":                 IndustryHealthcare,
	"medical":                IndustryHealthcare,
	"biotech":                IndustryHealthcare,
	"pharma":                 IndustryHealthcare,
	"retail":                 IndustryRetail,
	"ecommerce":              IndustryRetail,
	"e-commerce":             IndustryRetail,
	"manufacturing":          IndustryManufacturing,
	"industrial":             IndustryManufacturing,
	"education":              IndustryEducation,
	"edtech":                 IndustryEducation,
	"consulting":             IndustryProfessional,
	"professional services":  IndustryProfessional,
	"legal":                  IndustryProfessional,
	"accounting":             IndustryProfessional,
	"real estate":            IndustryRealEstate,
	"proptech":               IndustryRealEstate,
	"media":                  IndustryMedia,
	"entertainment":          IndustryMedia,
	"energy":                 IndustryEnergy,
	"oil and gas":            IndustryEnergy,
	"utilities":              IndustryEnergy,
}

// Industry maps common industry synonyms onto a closed canonical vocabulary.
func Industry(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := industrySynonyms[key]; ok {
		return canonical
	}
	return raw
}

// Canonical company-size buckets.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

var sizeSynonyms = map[string]string{
	"small":          SizeSmall,
	"smb":            SizeSmall,
	"small business": SizeSmall,
	"startup":        SizeSmall,
	"1-10":           SizeSmall,
	"1-50":           SizeSmall,
	"11-50":          SizeSmall,
	"medium":         SizeMedium,
	"mid-market":     SizeMedium,
	"midmarket":      SizeMedium,
	"51-200":         SizeMedium,
	"201-500":        SizeMedium,
	"51-500":         SizeMedium,
	"large":          SizeLarge,
	"enterprise":     SizeLarge,
	"500+":           SizeLarge,
	"501-1000":       SizeLarge,
	"1000+":          SizeLarge,
	"1001+":          SizeLarge,
}

// CompanySize maps size descriptions onto small/medium/large buckets.
func CompanySize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := sizeSynonyms[key]; ok {
		return canonical
	}
	return raw
}

// Canonical revenue bucket IDs.
const (
	RevenueUnder1M  = "0-1m"
	Revenue1To10M   = "1m-10m"
	Revenue10To50M  = "10m-50m"
	Revenue50To100M = "50m-100m"
	RevenueOver100M = "100m+"
)

var revenueSynonyms = map[string]string{
	"<$1m":       RevenueUnder1M,
	"under $1m":  RevenueUnder1M,
	"under 1m":   RevenueUnder1M,
	"0-1m":       RevenueUnder1M,
	"$1-10m":     Revenue1To10M,
	"1-10m":      Revenue1To10M,
	"$1m-$10m":   Revenue1To10M,
	"1m-10m":     Revenue1To10M,
	"$10-50m":    Revenue10To50M,
	"10-50m":     Revenue10To50M,
	"$10m-$50m":  Revenue10To50M,
	"10m-50m":    Revenue10To50M,
	"$50-100m":   Revenue50To100M,
	"50-100m":    Revenue50To100M,
	"$50m-$100m": Revenue50To100M,
	"50m-100m":   Revenue50To100M,
	"$100m+":     RevenueOver100M,
	"100m+":      RevenueOver100M,
	"over $100m": RevenueOver100M,
}

// RevenueBucket maps revenue range descriptions onto fixed bucket IDs.
func RevenueBucket(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := revenueSynonyms[key]; ok {
		return canonical
	}
	return raw
}
