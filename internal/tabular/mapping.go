package tabular

import (
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Field keys a column can map onto.
const (
	FieldEmail         = "email"
	FieldFirstName     = "first_name"
	FieldLastName      = "last_name"
	FieldFullName      = "full_name"
	FieldJobTitle      = "job_title"
	FieldPhone         = "phone"
	FieldLinkedIn      = "linkedin_url"
	FieldWebsite       = "website_url"
	FieldCompanyName   = "company_name"
	FieldCompanyDomain = "company_domain"
	FieldIndustry      = "industry"
	FieldSize          = "company_size"
	FieldRevenue       = "revenue"
	FieldLocation      = "location"
	FieldEmployees     = "employee_count"
	FieldFoundedYear   = "founded_year"
	FieldNotes         = "notes"
)

// Mapping assigns column headers to record field keys. Columns absent from
// the mapping land in Record.Custom.
type Mapping map[string]string

// LoadMapping reads a column-mapping preset from a yaml file of
// header: field pairs.
func LoadMapping(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "mapping: read file")
	}
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "mapping: parse yaml")
	}
	return m, nil
}

// headerSynonyms maps normalized header names to field keys, grouped by
// priority tier: email > company > name > title > phone > social/links >
// firmographics. When two headers compete for the same field, the higher
// tier wins.
var headerSynonyms = []struct {
	field   string
	headers []string
}{
	{FieldEmail, []string{"email", "email address", "e-mail", "work email", "contact email"}},
	{FieldCompanyName, []string{"company", "company name", "organization", "organisation", "account", "employer"}},
	{FieldCompanyDomain, []string{"domain", "company domain", "email domain"}},
	{FieldFirstName, []string{"first name", "firstname", "first", "given name"}},
	{FieldLastName, []string{"last name", "lastname", "last", "surname", "family name"}},
	{FieldFullName, []string{"name", "full name", "contact name", "contact"}},
	{FieldJobTitle, []string{"title", "job title", "position", "role"}},
	{FieldPhone, []string{"phone", "phone number", "mobile", "telephone", "work phone", "cell"}},
	{FieldLinkedIn, []string{"linkedin", "linkedin url", "linkedin profile"}},
	{FieldWebsite, []string{"website", "web site", "url", "company website", "site"}},
	{FieldIndustry, []string{"industry", "sector", "vertical"}},
	{FieldSize, []string{"size", "company size", "employees range", "headcount"}},
	{FieldRevenue, []string{"revenue", "annual revenue", "revenue range"}},
	{FieldLocation, []string{"location", "city", "address", "headquarters", "hq"}},
	{FieldEmployees, []string{"employee count", "employees", "number of employees"}},
	{FieldFoundedYear, []string{"founded", "founded year", "year founded"}},
	{FieldNotes, []string{"notes", "comments", "description"}},
}

// AutoMap proposes a best-effort mapping from column headers to record
// fields, ranked by the fixed priority order. Each field is claimed at
// most once; unmatched headers stay unmapped.
func AutoMap(header []string) Mapping {
	m := make(Mapping)
	claimed := make(map[string]bool)

	for _, syn := range headerSynonyms {
		for _, want := range syn.headers {
			for _, col := range header {
				if claimed[syn.field] {
					break
				}
				if _, taken := m[col]; taken {
					continue
				}
				if normalizeHeader(col) == want {
					m[col] = syn.field
					claimed[syn.field] = true
				}
			}
		}
	}
	return m
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", " ")
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), " ")
}

// ToRecord builds a candidate record from a row using the mapping.
// Unmapped columns with non-empty values are preserved under Custom.
func ToRecord(row Row, m Mapping) *model.Record {
	rec := &model.Record{}
	for col, value := range row {
		if value == "" {
			continue
		}
		field, ok := m[col]
		if !ok {
			if rec.Custom == nil {
				rec.Custom = make(map[string]string)
			}
			rec.Custom[col] = value
			continue
		}
		applyField(rec, field, value)
	}
	return rec
}

func applyField(rec *model.Record, field, value string) {
	switch field {
	case FieldEmail:
		rec.Email = value
	case FieldFirstName:
		rec.FirstName = value
	case FieldLastName:
		rec.LastName = value
	case FieldFullName:
		first, last := splitFullName(value)
		if rec.FirstName == "" {
			rec.FirstName = first
		}
		if rec.LastName == "" {
			rec.LastName = last
		}
	case FieldJobTitle:
		rec.JobTitle = value
	case FieldPhone:
		rec.Phone = value
	case FieldLinkedIn:
		rec.LinkedInURL = value
	case FieldWebsite:
		rec.WebsiteURL = value
	case FieldCompanyName:
		rec.Company.Name = value
	case FieldCompanyDomain:
		rec.Company.Domain = value
	case FieldIndustry:
		rec.Company.Industry = value
	case FieldSize:
		rec.Company.Size = value
	case FieldRevenue:
		rec.Company.Revenue = value
	case FieldLocation:
		rec.Company.Location = value
	case FieldEmployees:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			rec.Company.EmployeeCount = n
		}
	case FieldFoundedYear:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			rec.Company.FoundedYear = n
		}
	case FieldNotes:
		rec.Notes = value
	}
}

func splitFullName(name string) (first, last string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
