// Package normalize canonicalizes contact-record fields before deduplication.
// Every rule is idempotent and non-destructive: a value that cannot be
// confidently normalized passes through unchanged. The one exception is the
// email field, which must be syntactically valid or the record is rejected.
package normalize

import (
	"fmt"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Options toggles individual normalization rules. All rules default to on.
type Options struct {
	Email       bool `yaml:"email" mapstructure:"email"`
	PersonName  bool `yaml:"person_name" mapstructure:"person_name"`
	CompanyName bool `yaml:"company_name" mapstructure:"company_name"`
	Phone       bool `yaml:"phone" mapstructure:"phone"`
	URL         bool `yaml:"url" mapstructure:"url"`
	Vocab       bool `yaml:"vocab" mapstructure:"vocab"`
	Location    bool `yaml:"location" mapstructure:"location"`
	InferDomain bool `yaml:"infer_domain" mapstructure:"infer_domain"`

	// DefaultCountryCode, when set, is prefixed to bare 10-digit phone
	// numbers (e.g. "1" for NANP).
	DefaultCountryCode string `yaml:"default_country_code" mapstructure:"default_country_code"`
}

// DefaultOptions returns Options with every rule enabled.
func DefaultOptions() Options {
	return Options{
		Email:       true,
		PersonName:  true,
		CompanyName: true,
		Phone:       true,
		URL:         true,
		Vocab:       true,
		Location:    true,
		InferDomain: true,
	}
}

// InvalidEmailError reports a structurally invalid email. It rejects the
// single record, never the batch.
type InvalidEmailError struct {
	Email string
}

func (e *InvalidEmailError) Error() string {
	return fmt.Sprintf("normalize: invalid email %q", e.Email)
}

// Record applies every enabled rule to a copy of raw and returns the
// canonicalized record. The input is never mutated.
func Record(raw *model.Record, opts Options) (*model.Record, error) {
	r := raw.Clone()

	if opts.Email && r.Email != "" {
		email, err := Email(r.Email)
		if err != nil {
			return nil, err
		}
		r.Email = email
	}

	if opts.PersonName {
		r.FirstName = PersonName(r.FirstName)
		r.LastName = PersonName(r.LastName)
	}

	if opts.CompanyName {
		r.Company.Name = CompanyName(r.Company.Name)
	}

	if opts.Phone {
		r.Phone = Phone(r.Phone, opts.DefaultCountryCode)
	}

	if opts.URL {
		r.WebsiteURL = URL(r.WebsiteURL)
		r.LinkedInURL = URL(r.LinkedInURL)
	}

	if opts.Vocab {
		r.Company.Industry = Industry(r.Company.Industry)
		r.Company.Size = CompanySize(r.Company.Size)
		r.Company.Revenue = RevenueBucket(r.Company.Revenue)
	}

	if opts.Location && r.Company.Location != "" {
		r.Company.Parsed = ParseLocation(r.Company.Location)
	}

	if opts.InferDomain {
		InferCompanyDomain(r)
	}

	return r, nil
}
