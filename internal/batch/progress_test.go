package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-ingest/internal/model"
)

func TestTracker_Snapshot(t *testing.T) {
	tracker := NewTracker(4)
	tracker.ItemDone(true)
	tracker.ItemDone(false)

	snap := tracker.Snapshot()
	assert.Equal(t, 4, snap.Total)
	assert.Equal(t, 2, snap.Processed)
	assert.Equal(t, 1, snap.Successful)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 50.0, snap.Percentage)
}

func TestTracker_Window(t *testing.T) {
	tracker := NewTracker(4)
	tracker.SetWindow(0, 50)
	tracker.ItemDone(true)
	tracker.ItemDone(true)

	assert.Equal(t, 25.0, tracker.Snapshot().Percentage)

	tracker.SetWindow(50, 100)
	tracker.Reset(2)
	tracker.ItemDone(true)
	assert.Equal(t, 75.0, tracker.Snapshot().Percentage)
}

func TestTracker_Skipped(t *testing.T) {
	tracker := NewTracker(3)
	tracker.ItemDone(true)
	tracker.ItemSkipped()
	tracker.ItemSkipped()

	snap := tracker.Snapshot()
	assert.Equal(t, 3, snap.Processed)
	assert.Equal(t, 2, snap.Skipped)
	assert.Equal(t, 100.0, snap.Percentage)
}

func TestTracker_ETAZeroWhenComplete(t *testing.T) {
	tracker := NewTracker(2)
	tracker.ItemDone(true)
	tracker.ItemDone(true)

	assert.Zero(t, tracker.Snapshot().ETA)
}

func TestTracker_Callback(t *testing.T) {
	var seen []model.Progress
	tracker := NewTracker(2, WithCallback(func(p model.Progress) {
		seen = append(seen, p)
	}))

	tracker.ItemDone(true)
	tracker.ItemDone(true)

	require.Len(t, seen, 2)
	assert.Equal(t, 1, seen[0].Processed)
	assert.Equal(t, 2, seen[1].Processed)
}

func TestTracker_UpdatesChannel(t *testing.T) {
	tracker := NewTracker(1)
	tracker.ItemDone(true)
	tracker.Close()

	var last model.Progress
	for snap := range tracker.Updates() {
		last = snap
	}
	assert.Equal(t, 1, last.Processed)
}

func TestTracker_CloseIdempotent(t *testing.T) {
	tracker := NewTracker(1)
	tracker.Close()
	assert.NotPanics(t, func() { tracker.Close() })
	// Publishing after close is a no-op.
	assert.NotPanics(t, func() { tracker.ItemDone(true) })
}

func TestTracker_ChunkCounter(t *testing.T) {
	tracker := NewTracker(10, WithChunks(4))
	tracker.ChunkStarted()
	tracker.ChunkStarted()

	snap := tracker.Snapshot()
	assert.Equal(t, 2, snap.CurrentChunk)
	assert.Equal(t, 4, snap.TotalChunks)
}

func TestTracker_ZeroTotal(t *testing.T) {
	tracker := NewTracker(0)
	assert.Zero(t, tracker.Snapshot().Percentage)
}
