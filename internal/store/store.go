package store

import (
	"context"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// RecordFilter specifies criteria for listing stored prospects.
type RecordFilter struct {
	Domain  string `json:"domain,omitempty"`
	Company string `json:"company,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// Saver is the minimal surface the pipeline's save stage needs.
type Saver interface {
	SaveRecords(ctx context.Context, records []*model.Record) error
}

// BulkLoader is implemented by stores with a fast initial-load path. Unlike
// Saver, conflicting rows are overwritten wholesale: the incoming batch is
// treated as authoritative.
type BulkLoader interface {
	BulkLoad(ctx context.Context, records []*model.Record) (int64, error)
}

// Store defines the persistence interface for ingested prospects.
// Saving upserts on email: conflicting rows are filled field by field, an
// existing non-empty value is never overwritten with an empty one.
type Store interface {
	Saver

	GetByEmail(ctx context.Context, email string) (*model.Record, error)
	List(ctx context.Context, filter RecordFilter) ([]model.Record, error)
	Count(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
