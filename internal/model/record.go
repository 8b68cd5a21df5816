// Package model defines the record types shared across the ingestion pipeline.
package model

import "strings"

// Record is a single business-contact record moving through the pipeline.
// Parsers produce it loosely populated; the normalizer canonicalizes every
// present field; unmapped source columns are preserved in Custom.
type Record struct {
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	JobTitle    string            `json:"job_title,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	LinkedInURL string            `json:"linkedin_url,omitempty"`
	WebsiteURL  string            `json:"website_url,omitempty"`
	Notes       string            `json:"notes,omitempty"`
	Company     CompanyInfo       `json:"company,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// CompanyInfo holds the firmographic sub-object of a record.
type CompanyInfo struct {
	Name          string    `json:"name,omitempty"`
	Domain        string    `json:"domain,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Size          string    `json:"size,omitempty"`
	Revenue       string    `json:"revenue,omitempty"`
	Location      string    `json:"location,omitempty"`
	Parsed        *Location `json:"parsed_location,omitempty"`
	EmployeeCount int       `json:"employee_count,omitempty"`
	FoundedYear   int       `json:"founded_year,omitempty"`
}

// Location is the structured form of a free-text "City, Region, Country" string.
type Location struct {
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.Company.Parsed != nil {
		loc := *r.Company.Parsed
		out.Company.Parsed = &loc
	}
	if r.Custom != nil {
		out.Custom = make(map[string]string, len(r.Custom))
		for k, v := range r.Custom {
			out.Custom[k] = v
		}
	}
	return &out
}

// FieldCount returns the number of populated top-level and company fields.
// Used by merge to rank cluster members by completeness.
func (r *Record) FieldCount() int {
	n := 0
	for _, s := range []string{
		r.Email, r.FirstName, r.LastName, r.JobTitle, r.Phone,
		r.LinkedInURL, r.WebsiteURL, r.Notes,
		r.Company.Name, r.Company.Domain, r.Company.Industry,
		r.Company.Size, r.Company.Revenue, r.Company.Location,
	} {
		if s != "" {
			n++
		}
	}
	if r.Company.EmployeeCount > 0 {
		n++
	}
	if r.Company.FoundedYear > 0 {
		n++
	}
	return n
}

// ScrapedCompany is the structured payload returned by the web-page extractor.
type ScrapedCompany struct {
	URL          string   `json:"url"`
	Name         string   `json:"name,omitempty"`
	Domain       string   `json:"domain,omitempty"`
	Description  string   `json:"description,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	Size         string   `json:"size,omitempty"`
	FoundedYear  int      `json:"founded_year,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	SocialLinks  []string `json:"social_links,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
}

// Record converts a scraped payload into a contact record suitable for the
// normalize and dedupe stages. The first contact email, if any, becomes the
// record email.
func (s *ScrapedCompany) Record() *Record {
	r := &Record{
		WebsiteURL: s.URL,
		Company: CompanyInfo{
			Name:        s.Name,
			Domain:      s.Domain,
			Industry:    s.Industry,
			Size:        s.Size,
			FoundedYear: s.FoundedYear,
		},
	}
	if len(s.Emails) > 0 {
		r.Email = s.Emails[0]
	}
	if len(s.Phones) > 0 {
		r.Phone = s.Phones[0]
	}
	for _, link := range s.SocialLinks {
		if r.LinkedInURL == "" && strings.Contains(link, "linkedin.com") {
			r.LinkedInURL = link
		}
	}
	return r
}
