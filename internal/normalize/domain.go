package normalize

import "github.com/sells-group/prospect-ingest/internal/model"

// personalMailProviders are well-known consumer email domains that never
// identify a company.
var personalMailProviders = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
	"icloud.com":  true,
	"aol.com":     true,
	"proton.me":   true,
}

// InferCompanyDomain fills Company.Domain when absent: first from the
// website URL host, then from the email domain unless it belongs to a
// personal-mail provider.
func InferCompanyDomain(r *model.Record) {
	if r.Company.Domain != "" {
		return
	}

	if host := Host(r.WebsiteURL); host != "" {
		r.Company.Domain = host
		return
	}

	if d := EmailDomain(r.Email); d != "" && !personalMailProviders[d] {
		r.Company.Domain = d
	}
}
