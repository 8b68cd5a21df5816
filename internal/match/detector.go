package match

import (
	"strings"

	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
)

// Strategy selects which comparison rule Detect applies. Callers pick one
// strategy per run; strategies are never combined automatically.
type Strategy int

const (
	// StrategyExact matches on identical normalized emails only.
	StrategyExact Strategy = iota
	// StrategyDomain matches on identical email domains plus similar names.
	StrategyDomain
	// StrategyCompany matches on similar company names plus similar person names.
	StrategyCompany
	// StrategyFuzzy accumulates a weighted score across up to six signals.
	StrategyFuzzy
	// StrategyStrict requires at least 3 of 5 identity fields to match exactly.
	StrategyStrict
)

// String returns the config token for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyDomain:
		return "domain"
	case StrategyCompany:
		return "company"
	case StrategyFuzzy:
		return "fuzzy"
	case StrategyStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config token to a Strategy. Unknown tokens fall back
// to exact, the safest default.
func ParseStrategy(s string) Strategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "domain":
		return StrategyDomain
	case "company":
		return StrategyCompany
	case "fuzzy":
		return StrategyFuzzy
	case "strict":
		return StrategyStrict
	default:
		return StrategyExact
	}
}

// Default similarity thresholds per strategy.
const (
	defaultNameThreshold  = 0.8
	defaultFuzzyThreshold = 0.7
	personNameThreshold   = 0.7
	titleThreshold        = 0.7
	localPartThreshold    = 0.8
)

// Options configures one pairwise comparison.
type Options struct {
	Strategy  Strategy
	Threshold float64 // 0 means the strategy default

	// CaseSensitiveFields lists fields compared case-sensitively by the
	// strict strategy. All fields are case-insensitive by default.
	CaseSensitiveFields []string

	// IgnoreDiacritics folds combining marks before comparing names.
	IgnoreDiacritics bool
}

func (o Options) threshold(def float64) float64 {
	if o.Threshold > 0 {
		return o.Threshold
	}
	return def
}

func (o Options) caseSensitive(field string) bool {
	for _, f := range o.CaseSensitiveFields {
		if f == field {
			return true
		}
	}
	return false
}

// Detect compares two normalized records under the selected strategy and
// returns a verdict with confidence and match-type provenance. Pure
// function: no I/O, never errors.
func Detect(a, b *model.Record, opts Options) model.Verdict {
	switch opts.Strategy {
	case StrategyExact:
		return detectExact(a, b)
	case StrategyDomain:
		return detectDomain(a, b, opts)
	case StrategyCompany:
		return detectCompany(a, b, opts)
	case StrategyFuzzy:
		return detectFuzzy(a, b, opts)
	case StrategyStrict:
		return detectStrict(a, b, opts)
	default:
		return detectExact(a, b)
	}
}

func detectExact(a, b *model.Record) model.Verdict {
	if a.Email != "" && strings.EqualFold(a.Email, b.Email) {
		return model.Verdict{
			IsDuplicate: true,
			Confidence:  1.0,
			MatchedWith: b,
			MatchType:   model.MatchEmail,
		}
	}
	return model.Verdict{}
}

func detectDomain(a, b *model.Record, opts Options) model.Verdict {
	domA := normalize.EmailDomain(a.Email)
	domB := normalize.EmailDomain(b.Email)
	if domA == "" || domA != domB {
		return model.Verdict{}
	}

	threshold := opts.threshold(defaultNameThreshold)
	first := opts.nameSimilarity(a.FirstName, b.FirstName)
	last := opts.nameSimilarity(a.LastName, b.LastName)
	if first > threshold && last > threshold {
		return model.Verdict{
			IsDuplicate: true,
			Confidence:  0.85,
			MatchedWith: b,
			MatchType:   model.MatchDomainName,
		}
	}
	return model.Verdict{}
}

func detectCompany(a, b *model.Record, opts Options) model.Verdict {
	compA := normalize.StripLegalSuffix(a.Company.Name)
	compB := normalize.StripLegalSuffix(b.Company.Name)
	if opts.nameSimilarity(compA, compB) <= opts.threshold(defaultNameThreshold) {
		return model.Verdict{}
	}

	nameSim := opts.nameSimilarity(fullName(a), fullName(b))
	if nameSim <= personNameThreshold {
		return model.Verdict{}
	}

	confidence := 0.75
	if opts.nameSimilarity(a.JobTitle, b.JobTitle) > titleThreshold {
		confidence = 0.9
	}
	return model.Verdict{
		IsDuplicate: true,
		Confidence:  confidence,
		MatchedWith: b,
		MatchType:   model.MatchCompanyRole,
	}
}

// detectFuzzy accumulates a weighted score across the signals both records
// carry; confidence is the sum divided by the number of applicable signals.
func detectFuzzy(a, b *model.Record, opts Options) model.Verdict {
	var sum float64
	applicable := 0

	if a.Email != "" && b.Email != "" {
		applicable++
		if emailsSimilar(a.Email, b.Email) {
			sum += 1.0
		}
	}

	if fullName(a) != "" && fullName(b) != "" {
		applicable++
		sum += opts.nameSimilarity(fullName(a), fullName(b)) * 0.8
	}

	if a.Company.Name != "" && b.Company.Name != "" {
		applicable++
		compA := normalize.StripLegalSuffix(a.Company.Name)
		compB := normalize.StripLegalSuffix(b.Company.Name)
		sum += opts.nameSimilarity(compA, compB) * 0.7
	}

	if a.JobTitle != "" && b.JobTitle != "" {
		applicable++
		sum += opts.nameSimilarity(a.JobTitle, b.JobTitle) * 0.5
	}

	if a.LinkedInURL != "" && b.LinkedInURL != "" {
		applicable++
		if strings.EqualFold(a.LinkedInURL, b.LinkedInURL) {
			sum += 1.0
		}
	}

	if a.Phone != "" && b.Phone != "" {
		applicable++
		if normalize.PhoneDigits(a.Phone) == normalize.PhoneDigits(b.Phone) {
			sum += 0.8
		}
	}

	if applicable == 0 {
		return model.Verdict{}
	}

	confidence := sum / float64(applicable)
	if confidence >= opts.threshold(defaultFuzzyThreshold) {
		return model.Verdict{
			IsDuplicate: true,
			Confidence:  confidence,
			MatchedWith: b,
			MatchType:   model.MatchFuzzy,
		}
	}
	return model.Verdict{Confidence: confidence}
}

// detectStrict requires at least 3 of the 5 identity fields to match
// exactly; confidence is matches/5.
func detectStrict(a, b *model.Record, opts Options) model.Verdict {
	fields := []struct {
		name string
		a, b string
	}{
		{"email", a.Email, b.Email},
		{"first_name", a.FirstName, b.FirstName},
		{"last_name", a.LastName, b.LastName},
		{"company", a.Company.Name, b.Company.Name},
		{"job_title", a.JobTitle, b.JobTitle},
	}

	matches := 0
	for _, f := range fields {
		if f.a == "" || f.b == "" {
			continue
		}
		va, vb := f.a, f.b
		if opts.IgnoreDiacritics {
			va = FoldDiacritics(va)
			vb = FoldDiacritics(vb)
		}
		if opts.caseSensitive(f.name) {
			if va == vb {
				matches++
			}
		} else if strings.EqualFold(va, vb) {
			matches++
		}
	}

	confidence := float64(matches) / 5.0
	if matches >= 3 {
		return model.Verdict{
			IsDuplicate: true,
			Confidence:  confidence,
			MatchedWith: b,
			MatchType:   model.MatchStrict,
		}
	}
	return model.Verdict{Confidence: confidence}
}

// emailsSimilar applies the domain-aware email comparison: an identical
// local part on a different domain reads as a job change; the same domain
// with a near-identical local part reads as a typo or alias.
func emailsSimilar(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}

	localA := strings.ToLower(normalize.EmailLocal(a))
	localB := strings.ToLower(normalize.EmailLocal(b))
	domA := normalize.EmailDomain(a)
	domB := normalize.EmailDomain(b)

	if localA == localB && domA != domB {
		return true
	}
	if domA == domB && Similarity(localA, localB, true) >= localPartThreshold {
		return true
	}
	return false
}

func (o Options) nameSimilarity(a, b string) float64 {
	if o.IgnoreDiacritics {
		a = FoldDiacritics(a)
		b = FoldDiacritics(b)
	}
	return Similarity(a, b, true)
}

func fullName(r *model.Record) string {
	return strings.TrimSpace(strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName))
}
