package dedupe

import (
	"sort"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Merge consolidates a duplicate cluster into one record. Members are
// ranked most-complete-first (count of populated top-level and company
// fields); ties keep input order (stable sort). The most complete member
// seeds the result and every later member fills only fields still empty —
// a present value is never overwritten.
func Merge(cluster []*model.Record) *model.Record {
	if len(cluster) == 0 {
		return nil
	}

	ranked := make([]*model.Record, len(cluster))
	copy(ranked, cluster)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FieldCount() > ranked[j].FieldCount()
	})

	merged := ranked[0].Clone()
	for _, rec := range ranked[1:] {
		fillRecord(merged, rec)
	}
	return merged
}

func fillRecord(dst, src *model.Record) {
	fillString(&dst.Email, src.Email)
	fillString(&dst.FirstName, src.FirstName)
	fillString(&dst.LastName, src.LastName)
	fillString(&dst.JobTitle, src.JobTitle)
	fillString(&dst.Phone, src.Phone)
	fillString(&dst.LinkedInURL, src.LinkedInURL)
	fillString(&dst.WebsiteURL, src.WebsiteURL)
	fillString(&dst.Notes, src.Notes)

	fillString(&dst.Company.Name, src.Company.Name)
	fillString(&dst.Company.Domain, src.Company.Domain)
	fillString(&dst.Company.Industry, src.Company.Industry)
	fillString(&dst.Company.Size, src.Company.Size)
	fillString(&dst.Company.Revenue, src.Company.Revenue)
	fillString(&dst.Company.Location, src.Company.Location)
	if dst.Company.Parsed == nil && src.Company.Parsed != nil {
		loc := *src.Company.Parsed
		dst.Company.Parsed = &loc
	}
	if dst.Company.EmployeeCount == 0 {
		dst.Company.EmployeeCount = src.Company.EmployeeCount
	}
	if dst.Company.FoundedYear == 0 {
		dst.Company.FoundedYear = src.Company.FoundedYear
	}

	for k, v := range src.Custom {
		if dst.Custom == nil {
			dst.Custom = make(map[string]string)
		}
		if _, ok := dst.Custom[k]; !ok {
			dst.Custom[k] = v
		}
	}
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}
