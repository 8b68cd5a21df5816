package pipeline

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/batch"
	"github.com/sells-group/prospect-ingest/internal/model"
)

type fakeExtractor struct {
	pages map[string]*model.ScrapedCompany
	errs  map[string]error
	calls []string
}

func (f *fakeExtractor) Extract(_ context.Context, url string) (*model.ScrapedCompany, error) {
	f.calls = append(f.calls, url)
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return nil, eris.Errorf("no page for %s", url)
}

func (f *fakeExtractor) Close() error { return nil }

type fakeSaver struct {
	saved []*model.Record
	err   error
}

func (f *fakeSaver) SaveRecords(_ context.Context, records []*model.Record) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, records...)
	return nil
}

func TestStages_NormalizeDedupeSave(t *testing.T) {
	saver := &fakeSaver{}
	p, err := New(WithSaver(saver))
	require.NoError(t, err)

	records := []*model.Record{
		{Email: "J.Doe@ACME.com", FirstName: "jane", LastName: "doe", Company: model.CompanyInfo{Name: "ACME Incorporated"}},
		{Email: "j.doe@acme.com", FirstName: "Jane", LastName: "Doe", Company: model.CompanyInfo{Name: "Acme Inc."}},
	}

	res, err := p.Stages().Run(context.Background(), records,
		[]batch.Stage{batch.StageNormalize, batch.StageValidate, batch.StageDedupe, batch.StageSave})

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "j.doe@acme.com", res.Data[0].Email)
	assert.Equal(t, "Jane", res.Data[0].FirstName)
	require.Len(t, saver.saved, 1)
	assert.Same(t, res.Data[0], saver.saved[0])
}

func TestStages_FullVocabularyRuns(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	records := []*model.Record{{Email: "jane@acme.com", FirstName: "Jane"}}
	res, err := p.Stages().Run(context.Background(), records,
		[]batch.Stage{batch.StageParse, batch.StageNormalize, batch.StageValidate, batch.StageDedupe, batch.StageTransform})

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "jane@acme.com", res.Data[0].Email)
}

func TestStages_NormalizeRejectsBadEmail(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	res, err := p.Stages().Run(context.Background(), []*model.Record{
		{Email: "not an email"},
		{Email: "jane@acme.com"},
	}, []batch.Stage{batch.StageNormalize})

	require.NoError(t, err)
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Index)
	assert.Len(t, res.Data, 1)
}

func TestStages_ValidateRejectsMissingEmail(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	res, err := p.Stages().Run(context.Background(), []*model.Record{
		{FirstName: "Jane"},
	}, []batch.Stage{batch.StageValidate})

	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Err, "email")
	assert.Empty(t, res.Data)
}

func TestStages_SaveWithoutStore(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	_, err = p.Stages().Run(context.Background(), []*model.Record{{Email: "jane@acme.com"}},
		[]batch.Stage{batch.StageSave})

	require.Error(t, err)
	assert.ErrorContains(t, err, "configured store")
}

func TestStages_SaveErrorAborts(t *testing.T) {
	p, err := New(WithSaver(&fakeSaver{err: eris.New("disk full")}))
	require.NoError(t, err)

	_, err = p.Stages().Run(context.Background(), []*model.Record{{Email: "jane@acme.com"}},
		[]batch.Stage{batch.StageSave})

	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
}

func TestStages_EnrichFillsMissingFirmographics(t *testing.T) {
	ex := &fakeExtractor{pages: map[string]*model.ScrapedCompany{
		"https://acme.com": {
			URL:         "https://acme.com",
			Name:        "Acme Inc.",
			Domain:      "acme.com",
			Industry:    "Technology",
			Size:        "large",
			FoundedYear: 1998,
		},
	}}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	records := []*model.Record{
		{Email: "jane@acme.com", WebsiteURL: "https://acme.com"},
		{Email: "hubert@globex.com"}, // no website, passes through
	}

	res, err := p.Stages().Run(context.Background(), records, []batch.Stage{batch.StageEnrich})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://acme.com"}, ex.calls)
	assert.Equal(t, "Acme Inc.", res.Data[0].Company.Name)
	assert.Equal(t, "acme.com", res.Data[0].Company.Domain)
	assert.Equal(t, 1998, res.Data[0].Company.FoundedYear)
	assert.Empty(t, res.Data[1].Company.Name)
}

func TestStages_EnrichSkipsCompleteRecords(t *testing.T) {
	ex := &fakeExtractor{}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	_, err = p.Stages().Run(context.Background(), []*model.Record{
		{Email: "jane@acme.com", WebsiteURL: "https://acme.com",
			Company: model.CompanyInfo{Name: "Acme Inc.", Industry: "Technology"}},
	}, []batch.Stage{batch.StageEnrich})

	require.NoError(t, err)
	assert.Empty(t, ex.calls)
}

func TestStages_EnrichFetchFailurePassesThrough(t *testing.T) {
	ex := &fakeExtractor{errs: map[string]error{"https://acme.com": eris.New("timeout")}}
	p, err := New(WithExtractor(ex))
	require.NoError(t, err)

	res, err := p.Stages().Run(context.Background(), []*model.Record{
		{Email: "jane@acme.com", WebsiteURL: "https://acme.com"},
	}, []batch.Stage{batch.StageEnrich})

	require.NoError(t, err)
	assert.Len(t, res.Data, 1)
	assert.Empty(t, res.Errors)
}

func TestStages_TransformFormatsNANP(t *testing.T) {
	p, err := New()
	require.NoError(t, err)

	res, err := p.Stages().Run(context.Background(), []*model.Record{
		{Email: "jane@acme.com", Phone: "+15551234567"},
		{Email: "sven@example.se", Phone: "+46701234567"},
	}, []batch.Stage{batch.StageTransform})

	require.NoError(t, err)
	assert.Equal(t, "(555) 123-4567", res.Data[0].Phone)
	assert.Equal(t, "+46701234567", res.Data[1].Phone)
}
