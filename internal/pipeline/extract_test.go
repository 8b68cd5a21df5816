package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/model"
)

func TestExtractPages(t *testing.T) {
	ex := &fakeExtractor{pages: map[string]*model.ScrapedCompany{
		"https://acme.com":       {URL: "https://acme.com", Name: "Acme Inc.", Domain: "acme.com", Emails: []string{"sales@acme.com"}},
		"https://acme.com/about": {URL: "https://acme.com/about", Name: "Acme Inc.", Domain: "acme.com", Emails: []string{"sales@acme.com"}},
		"https://globex.com":     {URL: "https://globex.com", Name: "Globex", Domain: "globex.com", Emails: []string{"info@globex.com"}},
	}}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	outcome, err := ExtractPages(context.Background(),
		[]string{"https://acme.com", "https://acme.com/about", "https://globex.com"},
		p, ExtractOptions{ChunkDelay: time.Millisecond})

	require.NoError(t, err)
	assert.True(t, outcome.Result.Success)
	require.Len(t, outcome.Result.Data, 2)
	assert.Equal(t, 1, outcome.Dedupe.Stats.DuplicateCount)
	assert.Equal(t, 3, outcome.Result.Stats.Total)
	assert.Equal(t, 2, outcome.Result.Stats.Successful)
	assert.Equal(t, 1, outcome.Result.Stats.Skipped)
	assert.Len(t, ex.calls, 3)
}

func TestExtractPages_SkipErrors(t *testing.T) {
	ex := &fakeExtractor{
		pages: map[string]*model.ScrapedCompany{
			"https://acme.com": {URL: "https://acme.com", Name: "Acme Inc.", Domain: "acme.com"},
		},
		errs: map[string]error{
			"https://down.example": eris.New("status 404"),
		},
	}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	outcome, err := ExtractPages(context.Background(),
		[]string{"https://acme.com", "https://down.example"},
		p, ExtractOptions{ChunkDelay: time.Millisecond, RetryAttempts: 1, SkipErrors: true})

	require.NoError(t, err)
	assert.False(t, outcome.Result.Success)
	require.Len(t, outcome.Result.Errors, 1)
	assert.Equal(t, 1, outcome.Result.Errors[0].Index)
	assert.Len(t, outcome.Result.Data, 1)
}

func TestExtractPages_AbortOnFailure(t *testing.T) {
	ex := &fakeExtractor{errs: map[string]error{
		"https://down.example": eris.New("unreachable"),
	}}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	outcome, err := ExtractPages(context.Background(),
		[]string{"https://down.example"},
		p, ExtractOptions{ChunkDelay: time.Millisecond, RetryAttempts: 1})

	require.Error(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, 1, outcome.Result.Stats.Failed)
}

func TestExtractPages_NoExtractor(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = ExtractPages(context.Background(), []string{"https://acme.com"}, p, ExtractOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "configured extractor")
}

func TestExtractPages_RetriesTransientFailures(t *testing.T) {
	ex := &flakyExtractor{failures: 2, page: &model.ScrapedCompany{
		URL: "https://acme.com", Name: "Acme Inc.", Domain: "acme.com",
	}}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	outcome, err := ExtractPages(context.Background(), []string{"https://acme.com"}, p,
		ExtractOptions{ChunkDelay: time.Millisecond, RetryAttempts: 3, RetryDelay: time.Millisecond})

	require.NoError(t, err)
	assert.Len(t, outcome.Result.Data, 1)
	assert.Equal(t, 3, ex.calls)
}

type flakyExtractor struct {
	failures int
	calls    int
	page     *model.ScrapedCompany
}

func (f *flakyExtractor) Extract(context.Context, string) (*model.ScrapedCompany, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, eris.New("connection reset by peer")
	}
	return f.page, nil
}

func (f *flakyExtractor) Close() error { return nil }
