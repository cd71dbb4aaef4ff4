package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the latest aggregate snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.agg.Latest(context.Background())
		if err != nil {
			return fmt.Errorf("load latest snapshot: %w", err)
		}
		if snap == nil {
			fmt.Println("No snapshots yet. Run `launchfeed ingest` first.")
			return nil
		}

		if jsonOutput {
			printJSON(snap)
		} else {
			printSnapshot(snap)
		}
		return nil
	},
}
