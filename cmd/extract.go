package main

import (
	"bufio"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/pipeline"
	"github.com/sells-group/prospect-ingest/internal/webextract"
)

var (
	extractURLsFile  string
	extractStrategy  string
	extractThreshold float64
	extractOutPath   string
	extractSave      bool
	extractQuiet     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [url]...",
	Short: "Extract company details from websites",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		urls := args
		if extractURLsFile != "" {
			fromFile, err := readURLs(extractURLsFile)
			if err != nil {
				return err
			}
			urls = append(urls, fromFile...)
		}
		if len(urls) == 0 {
			return eris.New("no urls given (pass as arguments or --urls-file)")
		}

		extractor := webextract.NewHTTP(webextract.HTTPOptions{
			Timeout:   time.Duration(cfg.Extract.TimeoutSecs) * time.Second,
			UserAgent: cfg.Extract.UserAgent,
		})
		defer extractor.Close()

		p, err := pipeline.New(
			pipeline.WithNormalizeOptions(cfg.Normalize),
			pipeline.WithMatchOptions(resolveMatchOptions(cmd, extractStrategy, extractThreshold)),
			pipeline.WithExtractor(extractor),
		)
		if err != nil {
			return err
		}

		opts := pipeline.ExtractOptions{
			ChunkSize:     cfg.Batch.ChunkSize,
			ChunkDelay:    time.Duration(cfg.Batch.ChunkDelaySecs) * time.Second,
			Concurrency:   cfg.Extract.Concurrency,
			RetryAttempts: cfg.Batch.RetryAttempts,
			RetryDelay:    time.Duration(cfg.Batch.RetryDelaySecs) * time.Second,
			SkipErrors:    true,
		}
		if !extractQuiet {
			opts.Progress = printProgress(cmd)
		}

		outcome, err := pipeline.ExtractPages(ctx, urls, p, opts)
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		if extractSave && len(outcome.Result.Data) > 0 {
			st, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			if err := st.SaveRecords(ctx, outcome.Result.Data); err != nil {
				return eris.Wrap(err, "save records")
			}
		}

		if extractOutPath != "" {
			if err := writeRecords(extractOutPath, outcome.Result.Data); err != nil {
				return err
			}
		}

		zap.L().Info("extract finished",
			zap.Int("urls", len(urls)),
			zap.Int("companies", len(outcome.Result.Data)),
			zap.Int("errors", len(outcome.Result.Errors)),
		)
		return nil
	},
}

// readURLs loads one URL per line, skipping blanks and # comments.
func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, eris.Wrapf(sc.Err(), "read %s", path)
}

func init() {
	extractCmd.Flags().StringVar(&extractURLsFile, "urls-file", "", "file with one URL per line")
	extractCmd.Flags().StringVar(&extractStrategy, "strategy", "", "dedupe strategy: exact, domain, company, fuzzy, strict")
	extractCmd.Flags().Float64Var(&extractThreshold, "threshold", 0, "similarity threshold override")
	extractCmd.Flags().StringVarP(&extractOutPath, "out", "o", "", "write extracted records to a JSON file")
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "persist extracted records to the store")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress the progress line")
	rootCmd.AddCommand(extractCmd)
}
