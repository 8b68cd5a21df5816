package batch

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/resilience"
)

// Default engine tuning. Extraction call sites lower concurrency to 3 to
// respect third-party rate limits.
const (
	DefaultConcurrency   = 5
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
)

// Options configures one Process run.
type Options struct {
	// Concurrency bounds the number of workers in flight. Default 5.
	Concurrency int

	// RetryAttempts is the total tries per item, including the first.
	// Default 3.
	RetryAttempts int

	// RetryDelay seeds the exponential backoff schedule
	// (delay, delay*2, delay*4, ...). Default 1s.
	RetryDelay time.Duration

	// SkipErrors records per-item failures and continues. When false, the
	// first unrecoverable failure aborts the whole batch.
	SkipErrors bool

	// ShouldRetry optionally restricts which errors are retried. Nil
	// retries every error until attempts run out.
	ShouldRetry func(err error) bool

	// Progress, when set, receives an update after every item completes.
	Progress *Tracker
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = DefaultRetryAttempts
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

// Process runs worker over items with bounded concurrency and per-item
// retry. Each item's outcome is tagged by its original index, never by
// completion order. With SkipErrors false the first unrecoverable failure
// cancels outstanding work and is returned alongside the partial result;
// with SkipErrors true all failures land in Result.Errors.
func Process[T, R any](ctx context.Context, items []T, worker func(ctx context.Context, item T) (R, error), opts Options) (*model.Result[R], error) {
	opts = opts.withDefaults()
	start := time.Now()

	results := make([]R, len(items))
	succeeded := make([]bool, len(items))

	var mu sync.Mutex
	var itemErrors []model.ItemError
	var failedCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, item := range items {
		g.Go(func() error {
			// The batch already aborted; don't start more work.
			if gctx.Err() != nil {
				if opts.Progress != nil {
					opts.Progress.ItemSkipped()
				}
				return nil
			}

			val, err := resilience.Do(gctx, resilience.RetryConfig{
				MaxAttempts:    opts.RetryAttempts,
				InitialBackoff: opts.RetryDelay,
				ShouldRetry:    opts.ShouldRetry,
			}, func(ctx context.Context) (R, error) {
				return worker(ctx, item)
			})

			if err != nil {
				failedCount.Add(1)
				if opts.Progress != nil {
					opts.Progress.ItemDone(false)
				}
				if !opts.SkipErrors {
					return eris.Wrapf(err, "batch: item %d", i)
				}
				mu.Lock()
				itemErrors = append(itemErrors, model.ItemError{Index: i, Data: item, Err: err.Error()})
				mu.Unlock()
				return nil
			}

			results[i] = val
			succeeded[i] = true
			if opts.Progress != nil {
				opts.Progress.ItemDone(true)
			}
			return nil
		})
	}

	runErr := g.Wait()

	sort.Slice(itemErrors, func(a, b int) bool { return itemErrors[a].Index < itemErrors[b].Index })

	result := &model.Result[R]{
		Errors: itemErrors,
	}
	for i, ok := range succeeded {
		if ok {
			result.Data = append(result.Data, results[i])
		}
	}
	result.Stats = model.RunStats{
		Total:          len(items),
		Successful:     len(result.Data),
		Failed:         int(failedCount.Load()),
		ProcessingTime: time.Since(start),
	}
	if runErr != nil {
		// Items never attempted because the batch aborted.
		result.Stats.Skipped = len(items) - result.Stats.Successful - result.Stats.Failed
		if result.Stats.Skipped < 0 {
			result.Stats.Skipped = 0
		}
	}
	result.Success = runErr == nil && len(itemErrors) == 0

	zap.L().Debug("batch: run complete",
		zap.Int("total", result.Stats.Total),
		zap.Int("successful", result.Stats.Successful),
		zap.Int("failed", result.Stats.Failed),
		zap.Duration("elapsed", result.Stats.ProcessingTime),
		zap.Bool("aborted", runErr != nil),
	)

	return result, runErr
}
