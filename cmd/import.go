package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/pipeline"
	"github.com/sells-group/prospect-ingest/internal/store"
	"github.com/sells-group/prospect-ingest/internal/tabular"
	"github.com/sells-group/prospect-ingest/internal/validate"
)

var (
	importMappingPath string
	importSheetName   string
	importStrategy    string
	importThreshold   float64
	importOutPath     string
	importSave        bool
	importBulk        bool
	importQuiet       bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import contact records from a CSV or XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		p, err := buildImportPipeline(cmd)
		if err != nil {
			return err
		}

		opts := pipeline.ImportOptions{
			Concurrency: cfg.Batch.Concurrency,
			CSV:         tabular.CSVOptions{TrimSpace: true},
			Sheet:       tabular.XLSXOptions{SheetName: importSheetName},
		}
		if importMappingPath != "" {
			m, err := tabular.LoadMapping(importMappingPath)
			if err != nil {
				return err
			}
			opts.Mapping = m
		}
		if d := cfg.Import.Delimiter; d != "" {
			opts.CSV.Delimiter = rune(d[0])
		}
		if !importQuiet {
			opts.Progress = printProgress(cmd)
		}

		var outcome *pipeline.ImportOutcome
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			outcome, err = pipeline.ImportXLSX(ctx, path, p, opts)
		} else {
			f, openErr := os.Open(path)
			if openErr != nil {
				return eris.Wrapf(openErr, "open %s", path)
			}
			defer f.Close()
			outcome, err = pipeline.ImportFile(ctx, f, p, opts)
		}
		if err != nil {
			return eris.Wrap(err, "import")
		}

		if importSave && len(outcome.Result.Data) > 0 {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			if importBulk {
				bl, ok := st.(store.BulkLoader)
				if !ok {
					return eris.Errorf("store driver %q does not support bulk loading", cfg.Store.Driver)
				}
				n, err := bl.BulkLoad(ctx, outcome.Result.Data)
				if err != nil {
					return eris.Wrap(err, "bulk load records")
				}
				zap.L().Info("bulk load finished", zap.Int64("rows", n))
			} else if err := st.SaveRecords(ctx, outcome.Result.Data); err != nil {
				return eris.Wrap(err, "save records")
			}
		}

		if importOutPath != "" {
			if err := writeRecords(importOutPath, outcome.Result.Data); err != nil {
				return err
			}
		}

		zap.L().Info("import finished",
			zap.String("file", path),
			zap.Int("rows", outcome.Result.Stats.Total),
			zap.Int("unique", len(outcome.Result.Data)),
			zap.Int("duplicates", outcome.Dedupe.Stats.DuplicateCount),
			zap.Int("errors", len(outcome.Result.Errors)),
		)
		printImportSummary(cmd, outcome)
		return nil
	},
}

func printImportSummary(cmd *cobra.Command, outcome *pipeline.ImportOutcome) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rows:       %d\n", outcome.Result.Stats.Total)
	fmt.Fprintf(out, "unique:     %d\n", len(outcome.Result.Data))
	fmt.Fprintf(out, "duplicates: %d (rate %.1f%%)\n",
		outcome.Dedupe.Stats.DuplicateCount, outcome.Dedupe.Stats.DuplicateRate*100)
	fmt.Fprintf(out, "errors:     %d\n", len(outcome.Result.Errors))
	for _, ie := range outcome.Result.Errors {
		fmt.Fprintf(out, "  row %d: %s\n", ie.Index, ie.Err)
	}
}

// printProgress re-renders one status line per snapshot.
func printProgress(cmd *cobra.Command) func(model.Progress) {
	return func(p model.Progress) {
		eta := ""
		if p.ETA > 0 {
			eta = fmt.Sprintf(" eta %s", p.ETA.Round(time.Second))
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "\r%5.1f%% (%d/%d)%s", p.Percentage, p.Processed, p.Total, eta)
	}
}

func writeRecords(path string, records []*model.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return eris.Wrap(err, "marshal records")
	}
	return eris.Wrapf(os.WriteFile(path, data, 0o644), "write %s", path)
}

func buildImportPipeline(cmd *cobra.Command) (*pipeline.Pipeline, error) {
	opts := []pipeline.Option{
		pipeline.WithNormalizeOptions(cfg.Normalize),
		pipeline.WithMatchOptions(resolveMatchOptions(cmd, importStrategy, importThreshold)),
	}
	if cfg.Validate.SchemaPath != "" {
		v, err := validate.NewFromFile(cfg.Validate.SchemaPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithValidator(v))
	}
	return pipeline.New(opts...)
}

func init() {
	importCmd.Flags().StringVar(&importMappingPath, "mapping", "", "YAML column mapping file (default: auto-map from header)")
	importCmd.Flags().StringVar(&importSheetName, "sheet", "", "worksheet name for XLSX input")
	importCmd.Flags().StringVar(&importStrategy, "strategy", "", "dedupe strategy: exact, domain, company, fuzzy, strict")
	importCmd.Flags().Float64Var(&importThreshold, "threshold", 0, "similarity threshold override")
	importCmd.Flags().StringVarP(&importOutPath, "out", "o", "", "write unique records to a JSON file")
	importCmd.Flags().BoolVar(&importSave, "save", false, "persist unique records to the store")
	importCmd.Flags().BoolVar(&importBulk, "bulk", false, "with --save, load via COPY and overwrite conflicting rows (postgres only)")
	importCmd.Flags().BoolVarP(&importQuiet, "quiet", "q", false, "suppress the progress line")
	rootCmd.AddCommand(importCmd)
}
