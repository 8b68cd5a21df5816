package pipeline

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/batch"
	"github.com/sells-group/prospect-ingest/internal/dedupe"
	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
	"github.com/sells-group/prospect-ingest/internal/tabular"
)

// Stage shares of overall file-import progress. Parsing and normalizing
// each take a fifth; deduplication is a synchronous pass at 40%; schema
// validation fills the rest.
const (
	importParseEnd     = 20.0
	importNormalizeEnd = 40.0
)

// ImportOptions configures one file-import run.
type ImportOptions struct {
	// Mapping assigns columns to fields. Nil triggers auto-mapping from
	// the header row.
	Mapping tabular.Mapping

	// CSV configures the reader for CSV input.
	CSV tabular.CSVOptions

	// Sheet configures worksheet selection for XLSX input.
	Sheet tabular.XLSXOptions

	// Concurrency bounds the normalize/validate workers. Default 5.
	Concurrency int

	// Progress optionally receives a snapshot after every item.
	Progress func(model.Progress)
}

// ImportOutcome is the terminal artifact of one file-import run.
type ImportOutcome struct {
	Result      *model.Result[*model.Record]
	Dedupe      *model.DedupeResult
	Mapping     tabular.Mapping
	ColumnTypes map[string]tabular.ColumnType
}

// indexed pairs a record with its source-row index so errors always point
// at the original row.
type indexed struct {
	idx int
	rec *model.Record
}

// ImportFile runs parse -> normalize -> deduplicate -> validate over CSV
// content. Per-record failures (bad row, invalid email, schema violation)
// accumulate in the result's error list without aborting; only a failure
// to read the file at all fails the run.
func ImportFile(ctx context.Context, r io.Reader, p *Pipeline, opts ImportOptions) (*ImportOutcome, error) {
	start := time.Now()

	// Parse.
	header, rows, parseErrs, err := tabular.ReadCSV(ctx, r, opts.CSV)
	if err != nil {
		// Systemic: the file is unreadable. Empty result, one synthetic error.
		return &ImportOutcome{
			Result: &model.Result[*model.Record]{
				Errors: []model.ItemError{{Index: -1, Err: err.Error()}},
				Stats:  model.RunStats{ProcessingTime: time.Since(start)},
			},
		}, err
	}

	return importRows(ctx, start, header, rows, parseErrs, p, opts)
}

// ImportXLSX is ImportFile for a worksheet. Sheet selection rides on
// opts.Sheet.
func ImportXLSX(ctx context.Context, path string, p *Pipeline, opts ImportOptions) (*ImportOutcome, error) {
	start := time.Now()

	header, rows, err := tabular.ReadXLSX(path, opts.Sheet)
	if err != nil {
		return &ImportOutcome{
			Result: &model.Result[*model.Record]{
				Errors: []model.ItemError{{Index: -1, Err: err.Error()}},
				Stats:  model.RunStats{ProcessingTime: time.Since(start)},
			},
		}, err
	}

	return importRows(ctx, start, header, rows, nil, p, opts)
}

func importRows(ctx context.Context, start time.Time, header []string, rows []tabular.Row, parseErrs []model.ItemError, p *Pipeline, opts ImportOptions) (*ImportOutcome, error) {
	log := zap.L().With(zap.String("pipeline", "file_import"))

	mapping := opts.Mapping
	if mapping == nil {
		mapping = tabular.AutoMap(header)
	}
	columnTypes := tabular.InferColumnTypes(header, rows)

	tracker := newImportTracker(len(rows), opts.Progress)
	defer tracker.Close()
	tracker.SetWindow(0, importParseEnd)

	candidates := make([]indexed, 0, len(rows))
	for i, row := range rows {
		candidates = append(candidates, indexed{idx: i, rec: tabular.ToRecord(row, mapping)})
		tracker.ItemDone(true)
	}

	outcome := &ImportOutcome{
		Result:      &model.Result[*model.Record]{},
		Mapping:     mapping,
		ColumnTypes: columnTypes,
	}
	outcome.Result.Errors = append(outcome.Result.Errors, parseErrs...)

	// Normalize, bounded by the engine; a bad email rejects the one record.
	tracker.SetWindow(importParseEnd, importNormalizeEnd)
	tracker.Reset(len(candidates))

	normRes, err := batch.Process(ctx, candidates, func(_ context.Context, item indexed) (indexed, error) {
		rec, err := normalize.Record(item.rec, p.normOpts)
		if err != nil {
			return indexed{}, err
		}
		return indexed{idx: item.idx, rec: rec}, nil
	}, batch.Options{
		Concurrency:   opts.Concurrency,
		RetryAttempts: 1, // normalization is deterministic; retrying cannot help
		SkipErrors:    true,
		Progress:      tracker,
	})
	if err != nil {
		return outcome, err
	}
	for _, ie := range normRes.Errors {
		outcome.Result.Errors = append(outcome.Result.Errors, model.ItemError{
			Index: candidates[ie.Index].idx,
			Data:  candidates[ie.Index].rec,
			Err:   ie.Err,
		})
	}

	// Deduplicate: a synchronous ordered pass. sourceIdx keeps each
	// survivor tied to its original row for error reporting.
	records := make([]*model.Record, len(normRes.Data))
	sourceIdx := make(map[*model.Record]int, len(normRes.Data))
	for i, item := range normRes.Data {
		records[i] = item.rec
		sourceIdx[item.rec] = item.idx
	}
	outcome.Dedupe = dedupe.Batch(records, p.matchOpts)

	// Validate survivors against the target schema.
	tracker.SetWindow(importNormalizeEnd, 100)
	tracker.Reset(len(outcome.Dedupe.Unique))

	for _, rec := range outcome.Dedupe.Unique {
		msgs, err := p.validator.Record(rec)
		if err != nil {
			return outcome, err
		}
		if len(msgs) > 0 {
			outcome.Result.Errors = append(outcome.Result.Errors, model.ItemError{
				Index: sourceIdx[rec],
				Data:  rec,
				Err:   joinMessages(msgs),
			})
			tracker.ItemDone(false)
			continue
		}
		outcome.Result.Data = append(outcome.Result.Data, rec)
		tracker.ItemDone(true)
	}

	outcome.Result.Stats = model.RunStats{
		Total:          len(rows),
		Successful:     len(outcome.Result.Data),
		Failed:         len(outcome.Result.Errors),
		Skipped:        len(outcome.Dedupe.Duplicates),
		ProcessingTime: time.Since(start),
	}
	outcome.Result.Success = len(outcome.Result.Errors) == 0

	log.Info("import complete",
		zap.Int("rows", len(rows)),
		zap.Int("valid", len(outcome.Result.Data)),
		zap.Int("duplicates", len(outcome.Dedupe.Duplicates)),
		zap.Int("errors", len(outcome.Result.Errors)),
		zap.Duration("elapsed", outcome.Result.Stats.ProcessingTime),
	)
	return outcome, nil
}

func newImportTracker(total int, progress func(model.Progress)) *batch.Tracker {
	if progress == nil {
		return batch.NewTracker(total)
	}
	return batch.NewTracker(total, batch.WithCallback(progress))
}
