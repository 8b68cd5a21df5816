// Package webextract turns a company web page into a structured payload
// for the ingestion pipeline. Extraction is shallow by design: visible
// text, meta tags, and link hrefs only.
package webextract

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
	"github.com/sells-group/prospect-ingest/internal/resilience"
)

// Extractor fetches a single URL and returns its company payload.
type Extractor interface {
	Extract(ctx context.Context, url string) (*model.ScrapedCompany, error)
	Close() error
}

// HTTPOptions configures the HTTP extractor.
type HTTPOptions struct {
	// Timeout is the hard per-request deadline. Default 30s.
	Timeout time.Duration

	// UserAgent identifies the crawler. Default "prospect-ingest/1.0".
	UserAgent string
}

// HTTPExtractor implements Extractor over plain HTTP. It owns its client
// and must be closed by the caller; there is no shared global instance.
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTP creates an HTTPExtractor with an explicitly owned client.
func NewHTTP(opts HTTPOptions) *HTTPExtractor {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "prospect-ingest/1.0"
	}
	return &HTTPExtractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// Close releases idle connections.
func (e *HTTPExtractor) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// Extract fetches the page and derives the company payload. Server-side
// failure statuses are wrapped as transient so the batch engine retries
// them.
func (e *HTTPExtractor) Extract(ctx context.Context, url string) (*model.ScrapedCompany, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalize.URL(url), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "webextract: build request %s", url)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrapf(err, "webextract: fetch %s", url), 0)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("webextract: fetch %s: status %d", url, resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "webextract: parse %s", url)
	}

	company := e.fromDocument(url, doc)
	zap.L().Debug("webextract: page extracted",
		zap.String("url", url),
		zap.String("name", company.Name),
		zap.Int("technologies", len(company.Technologies)),
	)
	return company, nil
}

var foundedRe = regexp.MustCompile(`(?i)(?:founded|established|since)\s+(?:in\s+)?((?:18|19|20)\d{2})`)

func (e *HTTPExtractor) fromDocument(url string, doc *goquery.Document) *model.ScrapedCompany {
	company := &model.ScrapedCompany{
		URL:    url,
		Domain: normalize.Host(url),
	}

	company.Name = firstNonEmpty(
		metaContent(doc, `meta[property="og:site_name"]`),
		metaContent(doc, `meta[property="og:title"]`),
		strings.TrimSpace(doc.Find("title").First().Text()),
	)
	company.Description = firstNonEmpty(
		metaContent(doc, `meta[name="description"]`),
		metaContent(doc, `meta[property="og:description"]`),
	)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch {
		case strings.HasPrefix(href, "mailto:"):
			if email, err := normalize.Email(href); err == nil && !contains(company.Emails, email) {
				company.Emails = append(company.Emails, email)
			}
		case strings.HasPrefix(href, "tel:"):
			if phone := normalize.Phone(strings.TrimPrefix(href, "tel:"), ""); phone != "" && !contains(company.Phones, phone) {
				company.Phones = append(company.Phones, phone)
			}
		case isSocialLink(href):
			if !contains(company.SocialLinks, href) {
				company.SocialLinks = append(company.SocialLinks, href)
			}
		}
	})

	text := strings.ToLower(doc.Find("body").Text() + " " + company.Description)
	company.Technologies = DetectTechnologies(text)
	company.Industry = GuessIndustry(text)
	company.Size = GuessSize(text)

	if m := foundedRe.FindStringSubmatch(text); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			company.FoundedYear = year
		}
	}

	return company
}

var socialHosts = []string{"linkedin.com", "twitter.com", "x.com", "facebook.com", "instagram.com", "youtube.com"}

func isSocialLink(href string) bool {
	for _, host := range socialHosts {
		if strings.Contains(href, host) {
			return true
		}
	}
	return false
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
