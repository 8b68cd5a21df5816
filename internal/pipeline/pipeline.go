// Package pipeline composes the source parsers, normalizer, deduplicator,
// and validator into full ingestion runs.
package pipeline

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/batch"
	"github.com/sells-group/prospect-ingest/internal/dedupe"
	"github.com/sells-group/prospect-ingest/internal/match"
	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
	"github.com/sells-group/prospect-ingest/internal/store"
	"github.com/sells-group/prospect-ingest/internal/validate"
	"github.com/sells-group/prospect-ingest/internal/webextract"
)

// Pipeline holds the collaborators shared by the composed runs.
type Pipeline struct {
	normOpts  normalize.Options
	matchOpts match.Options
	validator *validate.Validator
	extractor webextract.Extractor
	saver     store.Saver
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNormalizeOptions overrides the default normalization rules.
func WithNormalizeOptions(opts normalize.Options) Option {
	return func(p *Pipeline) { p.normOpts = opts }
}

// WithMatchOptions overrides the default duplicate-detection options.
func WithMatchOptions(opts match.Options) Option {
	return func(p *Pipeline) { p.matchOpts = opts }
}

// WithValidator replaces the default schema validator.
func WithValidator(v *validate.Validator) Option {
	return func(p *Pipeline) { p.validator = v }
}

// WithExtractor injects the web-page extractor used by the extraction run
// and the enrich stage.
func WithExtractor(e webextract.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithSaver injects the store used by the save stage.
func WithSaver(s store.Saver) Option {
	return func(p *Pipeline) { p.saver = s }
}

// New creates a Pipeline with a compiled default schema validator.
func New(opts ...Option) (*Pipeline, error) {
	v, err := validate.New()
	if err != nil {
		return nil, err
	}
	p := &Pipeline{
		normOpts:  normalize.DefaultOptions(),
		matchOpts: match.Options{Strategy: match.StrategyExact},
		validator: v,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Stages builds a configurable stage pipeline over this Pipeline's
// collaborators. Callers execute any ordered subset of the registered
// stages, skipping the ones their data does not need.
func (p *Pipeline) Stages() *batch.StagePipeline {
	return batch.NewStagePipeline().
		Register(batch.StageParse, p.parseStage).
		Register(batch.StageNormalize, p.normalizeStage).
		Register(batch.StageValidate, p.validateStage).
		Register(batch.StageDedupe, p.dedupeStage).
		Register(batch.StageEnrich, p.enrichStage).
		Register(batch.StageTransform, p.transformStage).
		Register(batch.StageSave, p.saveStage)
}

// parseStage is a pass-through. File parsing happens in the tabular readers
// before records exist, so by the time stages run there is nothing to parse;
// registering it keeps the full stage vocabulary runnable.
func (p *Pipeline) parseStage(_ context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	return records, nil, nil
}

func (p *Pipeline) normalizeStage(_ context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	out := make([]*model.Record, 0, len(records))
	var errs []model.ItemError
	for i, rec := range records {
		normalized, err := normalize.Record(rec, p.normOpts)
		if err != nil {
			errs = append(errs, model.ItemError{Index: i, Data: rec, Err: err.Error()})
			continue
		}
		out = append(out, normalized)
	}
	return out, errs, nil
}

func (p *Pipeline) validateStage(_ context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	out := make([]*model.Record, 0, len(records))
	var errs []model.ItemError
	for i, rec := range records {
		msgs, err := p.validator.Record(rec)
		if err != nil {
			return nil, errs, err
		}
		if len(msgs) > 0 {
			errs = append(errs, model.ItemError{Index: i, Data: rec, Err: joinMessages(msgs)})
			continue
		}
		out = append(out, rec)
	}
	return out, errs, nil
}

func (p *Pipeline) dedupeStage(_ context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	result := dedupe.Batch(records, p.matchOpts)
	return result.Unique, nil, nil
}

// enrichStage fills missing firmographics from each record's website.
// Records without a website, or pages that fail to fetch, pass through
// untouched.
func (p *Pipeline) enrichStage(ctx context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	if p.extractor == nil {
		return records, nil, nil
	}
	for _, rec := range records {
		if rec.WebsiteURL == "" || (rec.Company.Industry != "" && rec.Company.Name != "") {
			continue
		}
		scraped, err := p.extractor.Extract(ctx, rec.WebsiteURL)
		if err != nil {
			zap.L().Debug("pipeline: enrich fetch failed",
				zap.String("url", rec.WebsiteURL),
				zap.Error(err),
			)
			continue
		}
		fillFromScrape(rec, scraped)
	}
	return records, nil, nil
}

// transformStage applies display formatting that should not affect
// matching, currently NANP phone formatting.
func (p *Pipeline) transformStage(_ context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	for _, rec := range records {
		if rec.Phone != "" {
			rec.Phone = normalize.FormatNANP(rec.Phone)
		}
	}
	return records, nil, nil
}

func (p *Pipeline) saveStage(ctx context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error) {
	if p.saver == nil {
		return nil, nil, eris.New("pipeline: save stage requires a configured store")
	}
	if err := p.saver.SaveRecords(ctx, records); err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: save records")
	}
	return records, nil, nil
}

func fillFromScrape(rec *model.Record, scraped *model.ScrapedCompany) {
	if rec.Company.Name == "" {
		rec.Company.Name = scraped.Name
	}
	if rec.Company.Domain == "" {
		rec.Company.Domain = scraped.Domain
	}
	if rec.Company.Industry == "" {
		rec.Company.Industry = scraped.Industry
	}
	if rec.Company.Size == "" {
		rec.Company.Size = scraped.Size
	}
	if rec.Company.FoundedYear == 0 {
		rec.Company.FoundedYear = scraped.FoundedYear
	}
}

func joinMessages(msgs []string) string {
	return strings.Join(msgs, "; ")
}
