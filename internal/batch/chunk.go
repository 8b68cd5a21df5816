package batch

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Chunked engine defaults: extraction batches run 3 wide with a 1s pause
// between chunks purely to stay under third-party rate limits.
const (
	DefaultChunkSize        = 10
	DefaultChunkDelay       = time.Second
	DefaultChunkConcurrency = 3
)

// ChunkOptions configures ProcessChunked. Embedded Options cover retry and
// failure policy; chunk fields add the pacing layer.
type ChunkOptions struct {
	Options

	// ChunkSize is the number of items processed per chunk. Default 10.
	ChunkSize int

	// ChunkDelay is the pause between consecutive chunks. Default 1s.
	ChunkDelay time.Duration
}

func (o ChunkOptions) withDefaults() ChunkOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkDelay <= 0 {
		o.ChunkDelay = DefaultChunkDelay
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultChunkConcurrency
	}
	o.Options = o.Options.withDefaults()
	return o
}

// ProcessChunked splits items into fixed-size chunks, processes each
// chunk's items concurrently, and paces chunk starts with a rate limiter so
// consecutive chunks are at least ChunkDelay apart. Outcomes keep their
// original item indexes. Remaining time is estimated from running
// throughput via the shared Tracker.
func ProcessChunked[T, R any](ctx context.Context, items []T, worker func(ctx context.Context, item T) (R, error), opts ChunkOptions) (*model.Result[R], error) {
	opts = opts.withDefaults()
	start := time.Now()

	chunks := chunkItems(items, opts.ChunkSize)
	limiter := rate.NewLimiter(rate.Every(opts.ChunkDelay), 1)

	combined := &model.Result[R]{}
	combined.Stats.Total = len(items)

	zap.L().Info("batch: chunked run starting",
		zap.Int("items", len(items)),
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", opts.ChunkSize),
		zap.Duration("chunk_delay", opts.ChunkDelay),
		zap.Int("concurrency", opts.Concurrency),
	)

	offset := 0
	for _, chunk := range chunks {
		if err := limiter.Wait(ctx); err != nil {
			combined.Stats.ProcessingTime = time.Since(start)
			return combined, err
		}
		if opts.Progress != nil {
			opts.Progress.ChunkStarted()
		}

		chunkOpts := opts.Options
		res, err := Process(ctx, chunk, worker, chunkOpts)

		// Re-index chunk-local error indexes into batch coordinates.
		for _, ie := range res.Errors {
			ie.Index += offset
			combined.Errors = append(combined.Errors, ie)
		}
		combined.Data = append(combined.Data, res.Data...)
		combined.Stats.Successful += res.Stats.Successful
		combined.Stats.Failed += res.Stats.Failed
		combined.Stats.Skipped += res.Stats.Skipped

		if err != nil {
			combined.Stats.Skipped += len(items) - offset - len(chunk)
			combined.Stats.ProcessingTime = time.Since(start)
			return combined, err
		}

		offset += len(chunk)
	}

	combined.Stats.ProcessingTime = time.Since(start)
	combined.Success = len(combined.Errors) == 0
	return combined, nil
}

func chunkItems[T any](items []T, size int) [][]T {
	var chunks [][]T
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
