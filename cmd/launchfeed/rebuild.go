package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/launchfeed/internal/idgen"
	"github.com/groblegark/launchfeed/internal/model"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Recompute aggregates from stored launches and append a snapshot",
	Long: `Rebuild scans the full launch table and appends a fresh snapshot.
Use it to recover from aggregation failures or to verify incremental
snapshots against a from-scratch computation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		runID, err := idgen.Generate()
		if err != nil {
			return err
		}

		snap, err := a.agg.Rebuild(context.Background(), runID, model.SnapshotManual)
		if err != nil {
			return fmt.Errorf("rebuild aggregates: %w", err)
		}

		if jsonOutput {
			printJSON(snap)
		} else {
			printSnapshot(snap)
		}
		return nil
	},
}
