package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the snapshot time series, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snaps, err := a.agg.History(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("load snapshot history: %w", err)
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots yet. Run `launchfeed ingest` first.")
			return nil
		}

		if jsonOutput {
			printJSON(snaps)
		} else {
			printSnapshotHistory(snaps)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum snapshots to show")
}
