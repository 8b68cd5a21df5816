package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/dedupe"
	"github.com/sells-group/prospect-ingest/internal/model"
	"github.com/sells-group/prospect-ingest/internal/normalize"
	"github.com/sells-group/prospect-ingest/internal/tabular"
)

var (
	dedupeStrategy  string
	dedupeThreshold float64
	dedupeMerge     bool
	dedupeOutPath   string
)

var dedupeCmd = &cobra.Command{
	Use:   "dedupe <file>",
	Short: "Report duplicate contacts in a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		f, err := os.Open(path)
		if err != nil {
			return eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()

		header, rows, parseErrs, err := tabular.ReadCSV(ctx, f, tabular.CSVOptions{TrimSpace: true})
		if err != nil {
			return eris.Wrap(err, "read csv")
		}
		mapping := tabular.AutoMap(header)

		var records []*model.Record
		for _, row := range rows {
			rec, err := normalize.Record(tabular.ToRecord(row, mapping), cfg.Normalize)
			if err != nil {
				// A bad email shouldn't hide real duplicates in the rest of
				// the file.
				zap.L().Warn("record skipped", zap.Error(err))
				continue
			}
			records = append(records, rec)
		}

		matchOpts := resolveMatchOptions(cmd, dedupeStrategy, dedupeThreshold)
		res := dedupe.Batch(records, matchOpts)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "records:    %d\n", res.Stats.Total)
		fmt.Fprintf(out, "unique:     %d\n", res.Stats.UniqueCount)
		fmt.Fprintf(out, "duplicates: %d (rate %.1f%%)\n", res.Stats.DuplicateCount, res.Stats.DuplicateRate*100)
		if len(parseErrs) > 0 {
			fmt.Fprintf(out, "bad rows:   %d\n", len(parseErrs))
		}
		for _, d := range res.Duplicates {
			fmt.Fprintf(out, "  %s ~ %s  [%s %.2f]\n",
				describeRecord(d.Record), describeRecord(d.MatchedWith),
				d.MatchType, d.Confidence)
		}

		if dedupeMerge {
			groups := dedupe.Groups(records, matchOpts)
			merged := res.Unique
			if len(groups) > 0 {
				merged = nil
				seen := make(map[*model.Record]bool)
				for _, group := range groups {
					m := dedupe.Merge(group)
					merged = append(merged, m)
					for _, rec := range group {
						seen[rec] = true
					}
				}
				for _, rec := range records {
					if !seen[rec] {
						merged = append(merged, rec)
					}
				}
			}
			if dedupeOutPath != "" {
				if err := writeRecords(dedupeOutPath, merged); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "merged:     %d\n", len(merged))
		} else if dedupeOutPath != "" {
			if err := writeRecords(dedupeOutPath, res.Unique); err != nil {
				return err
			}
		}

		return nil
	},
}

func describeRecord(rec *model.Record) string {
	if rec.Email != "" {
		return rec.Email
	}
	if rec.Company.Name != "" {
		return rec.Company.Name
	}
	return rec.FirstName + " " + rec.LastName
}

func init() {
	dedupeCmd.Flags().StringVar(&dedupeStrategy, "strategy", "", "dedupe strategy: exact, domain, company, fuzzy, strict")
	dedupeCmd.Flags().Float64Var(&dedupeThreshold, "threshold", 0, "similarity threshold override")
	dedupeCmd.Flags().BoolVar(&dedupeMerge, "merge", false, "merge each duplicate cluster into its most complete record")
	dedupeCmd.Flags().StringVarP(&dedupeOutPath, "out", "o", "", "write surviving records to a JSON file")
	rootCmd.AddCommand(dedupeCmd)
}
