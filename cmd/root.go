package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-ingest/internal/config"
	"github.com/sells-group/prospect-ingest/internal/match"
	"github.com/sells-group/prospect-ingest/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "prospect-ingest",
	Short: "Business-contact ingestion pipeline",
	Long:  "Imports contact records from CSV/XLSX and company pages, normalizes fields, detects duplicates, and writes clean prospects to the store.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// resolveMatchOptions layers per-command flag overrides on top of the
// configured matching defaults.
func resolveMatchOptions(cmd *cobra.Command, strategyFlag string, thresholdFlag float64) match.Options {
	strategy := cfg.Match.Strategy
	if strategyFlag != "" {
		strategy = strategyFlag
	}
	threshold := cfg.Match.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = thresholdFlag
	}
	return match.Options{
		Strategy:         match.ParseStrategy(strategy),
		Threshold:        threshold,
		IgnoreDiacritics: cfg.Match.IgnoreDiacritics,
	}
}

// openStore picks the backend from config. Callers own Close.
func openStore(cmd *cobra.Command) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(cmd.Context(), cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return store.NewSQLite(cfg.Store.DatabaseURL)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
