package batch

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/model"
)

// Stage identifies one step of a configurable record pipeline.
type Stage string

const (
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageValidate  Stage = "validate"
	StageDedupe    Stage = "deduplicate"
	StageEnrich    Stage = "enrich"
	StageTransform Stage = "transform"
	StageSave      Stage = "save"
)

// StageFunc transforms a record set. Per-record failures are returned as
// item errors without failing the stage; a non-nil error is systemic and
// aborts the run.
type StageFunc func(ctx context.Context, records []*model.Record) ([]*model.Record, []model.ItemError, error)

// StagePipeline executes a caller-selected ordered subset of registered
// stages, so already-clean data can skip deduplication or validation.
type StagePipeline struct {
	stages map[Stage]StageFunc
}

// NewStagePipeline creates an empty stage pipeline.
func NewStagePipeline() *StagePipeline {
	return &StagePipeline{stages: make(map[Stage]StageFunc)}
}

// Register binds a stage identifier to its implementation.
func (p *StagePipeline) Register(stage Stage, fn StageFunc) *StagePipeline {
	p.stages[stage] = fn
	return p
}

// Run executes only the requested stages, in the order given. Item errors
// from all stages accumulate into the final result; a systemic stage error
// aborts immediately with the partial result.
func (p *StagePipeline) Run(ctx context.Context, records []*model.Record, order []Stage) (*model.Result[*model.Record], error) {
	start := time.Now()
	result := &model.Result[*model.Record]{}
	total := len(records)

	for _, stage := range order {
		fn, ok := p.stages[stage]
		if !ok {
			return result, eris.Errorf("pipeline: stage %q not registered", stage)
		}

		stageStart := time.Now()
		out, itemErrs, err := fn(ctx, records)
		result.Errors = append(result.Errors, itemErrs...)
		if err != nil {
			zap.L().Error("pipeline: stage failed",
				zap.String("stage", string(stage)),
				zap.Error(err),
			)
			result.Stats = model.RunStats{
				Total:          total,
				Failed:         total,
				ProcessingTime: time.Since(start),
			}
			return result, eris.Wrapf(err, "pipeline: stage %s", stage)
		}

		zap.L().Info("pipeline: stage complete",
			zap.String("stage", string(stage)),
			zap.Int("in", len(records)),
			zap.Int("out", len(out)),
			zap.Int("item_errors", len(itemErrs)),
			zap.Duration("elapsed", time.Since(stageStart)),
		)
		records = out
	}

	result.Data = records
	result.Stats = model.RunStats{
		Total:          total,
		Successful:     len(records),
		Failed:         len(result.Errors),
		ProcessingTime: time.Since(start),
	}
	result.Success = len(result.Errors) == 0
	return result, nil
}
