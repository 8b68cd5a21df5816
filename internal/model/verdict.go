package model

// MatchType identifies which comparison rule produced a duplicate verdict.
type MatchType string

const (
	MatchEmail       MatchType = "email"
	MatchDomainName  MatchType = "domain_name"
	MatchCompanyRole MatchType = "company_name_role"
	MatchFuzzy       MatchType = "fuzzy_composite"
	MatchStrict      MatchType = "strict_multi_field"
)

// Verdict is the outcome of one pairwise duplicate comparison.
type Verdict struct {
	IsDuplicate bool      `json:"is_duplicate"`
	Confidence  float64   `json:"confidence"`
	MatchedWith *Record   `json:"matched_with,omitempty"`
	MatchType   MatchType `json:"match_type,omitempty"`
}

// DuplicateEntry records one rejected duplicate and the representative it
// matched against.
type DuplicateEntry struct {
	Record      *Record   `json:"record"`
	MatchedWith *Record   `json:"matched_with"`
	Confidence  float64   `json:"confidence"`
	MatchType   MatchType `json:"match_type"`
}

// DedupeStats summarizes one batch deduplication pass.
type DedupeStats struct {
	Total          int     `json:"total"`
	UniqueCount    int     `json:"unique_count"`
	DuplicateCount int     `json:"duplicate_count"`
	DuplicateRate  float64 `json:"duplicate_rate"`
}

// DedupeResult partitions a batch into unique representatives and duplicates.
// Invariant: len(Unique) + len(Duplicates) == Stats.Total, and every
// DuplicateEntry.MatchedWith is an element of Unique.
type DedupeResult struct {
	Unique     []*Record        `json:"unique"`
	Duplicates []DuplicateEntry `json:"duplicates"`
	Stats      DedupeStats      `json:"stats"`
}
