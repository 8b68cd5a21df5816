// Package batch is the concurrent execution engine driving pipeline stages
// with bounded concurrency, chunking, retry, and progress reporting.
package batch

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Tracker owns the progress counters for one batch run. Counters are
// updated atomically by worker goroutines; consumers receive immutable
// snapshots on the Updates channel and, optionally, through a callback.
type Tracker struct {
	total      int64
	processed  atomic.Int64
	successful atomic.Int64
	failed     atomic.Int64
	skipped    atomic.Int64

	currentChunk atomic.Int64
	totalChunks  int64

	// Stage window maps item progress onto a slice of overall percentage
	// when the run composes multiple stages.
	windowMu           sync.Mutex
	windowLo, windowHi float64

	start    time.Time
	updates  chan model.Progress
	callback func(model.Progress)
	closed   atomic.Bool
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithCallback registers a callback invoked with every snapshot, for
// callers that prefer callbacks over the channel.
func WithCallback(fn func(model.Progress)) TrackerOption {
	return func(t *Tracker) { t.callback = fn }
}

// WithChunks sets the chunk total for chunked runs.
func WithChunks(total int) TrackerOption {
	return func(t *Tracker) { t.totalChunks = int64(total) }
}

// NewTracker creates a Tracker for a run of total items.
func NewTracker(total int, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		total:    int64(total),
		windowHi: 100,
		start:    time.Now(),
		updates:  make(chan model.Progress, 64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Updates returns the snapshot channel. It is closed by Close after the
// final snapshot is published.
func (t *Tracker) Updates() <-chan model.Progress {
	return t.updates
}

// SetWindow maps this tracker's item progress onto the [lo, hi] slice of
// the overall run percentage.
func (t *Tracker) SetWindow(lo, hi float64) {
	t.windowMu.Lock()
	t.windowLo, t.windowHi = lo, hi
	t.windowMu.Unlock()
}

// Reset rearms the tracker for the next stage of a composed run.
func (t *Tracker) Reset(total int) {
	t.total = int64(total)
	t.processed.Store(0)
	t.successful.Store(0)
	t.failed.Store(0)
	t.skipped.Store(0)
	t.start = time.Now()
}

// ItemDone records one item completion and publishes a snapshot.
func (t *Tracker) ItemDone(success bool) {
	t.processed.Add(1)
	if success {
		t.successful.Add(1)
	} else {
		t.failed.Add(1)
	}
	t.publish()
}

// ItemSkipped records one item skipped without processing.
func (t *Tracker) ItemSkipped() {
	t.processed.Add(1)
	t.skipped.Add(1)
	t.publish()
}

// ChunkStarted advances the current chunk counter.
func (t *Tracker) ChunkStarted() {
	t.currentChunk.Add(1)
	t.publish()
}

// Close publishes a final snapshot and closes the updates channel.
func (t *Tracker) Close() {
	if t.closed.Swap(true) {
		return
	}
	snap := t.Snapshot()
	select {
	case t.updates <- snap:
	default:
	}
	close(t.updates)
}

// Snapshot returns the current progress as an immutable value.
func (t *Tracker) Snapshot() model.Progress {
	processed := t.processed.Load()

	t.windowMu.Lock()
	lo, hi := t.windowLo, t.windowHi
	t.windowMu.Unlock()

	var fraction float64
	if t.total > 0 {
		fraction = float64(processed) / float64(t.total)
	}

	var eta time.Duration
	if processed > 0 && processed < t.total {
		perItem := time.Since(t.start) / time.Duration(processed)
		eta = perItem * time.Duration(t.total-processed)
	}

	return model.Progress{
		Total:        int(t.total),
		Processed:    int(processed),
		Successful:   int(t.successful.Load()),
		Failed:       int(t.failed.Load()),
		Skipped:      int(t.skipped.Load()),
		Percentage:   lo + (hi-lo)*fraction,
		CurrentChunk: int(t.currentChunk.Load()),
		TotalChunks:  int(t.totalChunks),
		ETA:          eta,
	}
}

func (t *Tracker) publish() {
	if t.closed.Load() {
		return
	}
	snap := t.Snapshot()
	if t.callback != nil {
		t.callback(snap)
	}
	// Never block a worker on a slow consumer.
	select {
	case t.updates <- snap:
	default:
	}
}
