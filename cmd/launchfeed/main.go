package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groblegark/launchfeed/internal/aggregate"
	"github.com/groblegark/launchfeed/internal/config"
	"github.com/groblegark/launchfeed/internal/pipeline"
	"github.com/groblegark/launchfeed/internal/source"
	"github.com/groblegark/launchfeed/internal/store/postgres"
	"github.com/groblegark/launchfeed/internal/ui"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "launchfeed",
	Short: "Incremental launch ingestion and aggregation pipeline",
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(rebuildCmd)
}

// app bundles the wired pipeline components behind a single Close.
type app struct {
	cfg   *config.Config
	store *postgres.PostgresStore
	agg   *aggregate.Service
	pipe  *pipeline.Pipeline
}

func buildApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	st, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	src := source.NewHTTPSource(cfg.SourceURL,
		source.WithPageSize(cfg.PageSize),
		source.WithMaxPages(cfg.MaxPages),
		source.WithTimeout(cfg.SourceTimeout),
	)

	agg := aggregate.NewService(st, slog.Default())
	pipe := pipeline.New(src, st, agg, slog.Default())

	return &app{cfg: cfg, store: st, agg: agg, pipe: pipe}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}

func setupLogging() {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LAUNCHFEED_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func main() {
	setupLogging()
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
