package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/batch"
	"github.com/sells-group/prospect-ingest/internal/dedupe"
	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
)

// ExtractOptions configures one page-extraction run.
type ExtractOptions struct {
	// ChunkSize groups URLs into chunks. Default 10.
	ChunkSize int

	// ChunkDelay is the pause between chunks, to respect third-party rate
	// limits. Default 1s.
	ChunkDelay time.Duration

	// Concurrency bounds in-flight fetches. Default 3.
	Concurrency int

	// RetryAttempts is the per-URL try count. Default 3.
	RetryAttempts int

	// RetryDelay seeds the per-URL backoff. Default 1s.
	RetryDelay time.Duration

	// SkipErrors swallows per-URL extraction failures into the result's
	// error list instead of aborting the batch.
	SkipErrors bool

	// Progress optionally receives a snapshot after every URL.
	Progress func(model.Progress)
}

// ExtractOutcome is the terminal artifact of one page-extraction run.
type ExtractOutcome struct {
	Result *model.Result[*model.Record]
	Dedupe *model.DedupeResult
}

// ExtractPages runs chunked, retried extraction over urls, then normalizes
// and deduplicates the scraped companies.
func ExtractPages(ctx context.Context, urls []string, p *Pipeline, opts ExtractOptions) (*ExtractOutcome, error) {
	if p.extractor == nil {
		return nil, eris.New("pipeline: extraction requires a configured extractor")
	}
	start := time.Now()
	log := zap.L().With(zap.String("pipeline", "page_extract"))

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = batch.DefaultChunkSize
	}
	totalChunks := (len(urls) + chunkSize - 1) / chunkSize

	trackerOpts := []batch.TrackerOption{batch.WithChunks(totalChunks)}
	if opts.Progress != nil {
		trackerOpts = append(trackerOpts, batch.WithCallback(opts.Progress))
	}
	tracker := batch.NewTracker(len(urls), trackerOpts...)
	defer tracker.Close()

	extractRes, err := batch.ProcessChunked(ctx, urls, func(ctx context.Context, url string) (*model.ScrapedCompany, error) {
		return p.extractor.Extract(ctx, url)
	}, batch.ChunkOptions{
		Options: batch.Options{
			Concurrency:   opts.Concurrency,
			RetryAttempts: opts.RetryAttempts,
			RetryDelay:    opts.RetryDelay,
			SkipErrors:    opts.SkipErrors,
			Progress:      tracker,
		},
		ChunkSize:  opts.ChunkSize,
		ChunkDelay: opts.ChunkDelay,
	})

	outcome := &ExtractOutcome{
		Result: &model.Result[*model.Record]{Errors: extractRes.Errors},
	}
	if err != nil {
		outcome.Result.Stats = extractRes.Stats
		return outcome, err
	}

	// Normalize scraped payloads; extraction rarely yields emails, so a
	// missing email is not an error here.
	var records []*model.Record
	for i, scraped := range extractRes.Data {
		rec, err := normalize.Record(scraped.Record(), p.normOpts)
		if err != nil {
			outcome.Result.Errors = append(outcome.Result.Errors, model.ItemError{
				Index: i,
				Data:  scraped,
				Err:   err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}

	outcome.Dedupe = dedupe.Batch(records, p.matchOpts)
	outcome.Result.Data = outcome.Dedupe.Unique
	outcome.Result.Stats = model.RunStats{
		Total:          len(urls),
		Successful:     len(outcome.Result.Data),
		Failed:         len(outcome.Result.Errors),
		Skipped:        len(outcome.Dedupe.Duplicates),
		ProcessingTime: time.Since(start),
	}
	outcome.Result.Success = len(outcome.Result.Errors) == 0

	log.Info("extraction complete",
		zap.Int("urls", len(urls)),
		zap.Int("companies", len(outcome.Result.Data)),
		zap.Int("duplicates", len(outcome.Dedupe.Duplicates)),
		zap.Int("errors", len(outcome.Result.Errors)),
		zap.Duration("elapsed", outcome.Result.Stats.ProcessingTime),
	)
	return outcome, nil
}
