package model

import "time"

// ItemError captures a per-item failure with enough context to reprocess it.
type ItemError struct {
	Index int    `json:"index"`
	Data  any    `json:"data,omitempty"`
	Err   string `json:"error"`
}

// RunStats summarizes one batch run.
type RunStats struct {
	Total          int           `json:"total"`
	Successful     int           `json:"successful"`
	Failed         int           `json:"failed"`
	Skipped        int           `json:"skipped"`
	ProcessingTime time.Duration `json:"processing_time"`
}

// Result is the terminal artifact of one batch run. Success is false
// whenever any per-item error exists, even if some items succeeded, so
// callers must inspect Data, Errors, and Stats together.
type Result[T any] struct {
	Success bool        `json:"success"`
	Data    []T         `json:"data"`
	Errors  []ItemError `json:"errors,omitempty"`
	Stats   RunStats    `json:"stats"`
}

// Progress is an immutable snapshot of a running batch, published after
// every item completion. ETA is estimated from running throughput and is
// zero until at least one item has completed.
type Progress struct {
	Total        int           `json:"total"`
	Processed    int           `json:"processed"`
	Successful   int           `json:"successful"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	Percentage   float64       `json:"percentage"`
	CurrentChunk int           `json:"current_chunk,omitempty"`
	TotalChunks  int           `json:"total_chunks,omitempty"`
	ETA          time.Duration `json:"eta,omitempty"`
}
