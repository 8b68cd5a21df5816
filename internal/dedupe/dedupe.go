// Package dedupe clusters contact records into unique representatives and
// duplicates using pairwise detection.
package dedupe

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/match"
	"github.com/sells-group/prospect-ingest/internal/model"
)

// Batch partitions records into unique representatives and duplicates.
// Records are scanned in input order: each candidate is compared against
// every accepted representative, and the first match wins. The first-seen
// record of a cluster is always its representative, so duplicates never
// match other duplicates. The scan is sequential by design: cluster
// assignment depends on the representative set built so far.
func Batch(records []*model.Record, opts match.Options) *model.DedupeResult {
	result := &model.DedupeResult{
		Unique: make([]*model.Record, 0, len(records)),
	}

	for _, rec := range records {
		verdict := firstMatch(rec, result.Unique, opts)
		if verdict.IsDuplicate {
			result.Duplicates = append(result.Duplicates, model.DuplicateEntry{
				Record:      rec,
				MatchedWith: verdict.MatchedWith,
				Confidence:  verdict.Confidence,
				MatchType:   verdict.MatchType,
			})
			continue
		}
		result.Unique = append(result.Unique, rec)
	}

	total := len(records)
	result.Stats = model.DedupeStats{
		Total:          total,
		UniqueCount:    len(result.Unique),
		DuplicateCount: len(result.Duplicates),
	}
	if total > 0 {
		result.Stats.DuplicateRate = float64(len(result.Duplicates)) / float64(total)
	}

	zap.L().Debug("dedupe: batch complete",
		zap.Int("total", total),
		zap.Int("unique", result.Stats.UniqueCount),
		zap.Int("duplicates", result.Stats.DuplicateCount),
		zap.String("strategy", opts.Strategy.String()),
	)
	return result
}

// Groups runs the same clustering but retains full clusters for audit.
// Returns only groups with at least two members, keyed by a generated
// group ID. The first member of each group is its representative.
func Groups(records []*model.Record, opts match.Options) map[string][]*model.Record {
	var reps []*model.Record
	members := make(map[*model.Record][]*model.Record)

	for _, rec := range records {
		verdict := firstMatch(rec, reps, opts)
		if verdict.IsDuplicate {
			members[verdict.MatchedWith] = append(members[verdict.MatchedWith], rec)
			continue
		}
		reps = append(reps, rec)
		members[rec] = []*model.Record{rec}
	}

	groups := make(map[string][]*model.Record)
	for _, rep := range reps {
		if cluster := members[rep]; len(cluster) >= 2 {
			groups[uuid.New().String()] = cluster
		}
	}
	return groups
}

func firstMatch(rec *model.Record, reps []*model.Record, opts match.Options) model.Verdict {
	for _, rep := range reps {
		if v := match.Detect(rec, rep, opts); v.IsDuplicate {
			return v
		}
	}
	return model.Verdict{}
}
