package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printRunResult(res *model.RunResult) {
	if res.Status == model.RunError {
		fmt.Printf("Status:            %s\n", ui.RenderErr(string(res.Status)))
		fmt.Printf("Error:             %s\n", res.Err)
		fmt.Printf("Duration:          %.2fs\n", res.DurationSeconds)
		return
	}

	fmt.Printf("Status:            %s\n", ui.RenderOK(string(res.Status)))
	fmt.Printf("New launches:      %d\n", res.NewFound)
	fmt.Printf("Inserted:          %d\n", res.Inserted)
	if res.ValidationErrors > 0 {
		fmt.Printf("Validation errors: %s\n", ui.RenderWarn(fmt.Sprintf("%d", res.ValidationErrors)))
	}
	fmt.Printf("Source calls:      %d\n", res.SourceCalls)
	if res.PayloadLookups > 0 {
		fmt.Printf("Payload lookups:   %d\n", res.PayloadLookups)
	}
	fmt.Printf("Duration:          %.2fs\n", res.DurationSeconds)
	if res.EarlyExit {
		fmt.Printf("Early exit:        %s\n", ui.RenderMuted("yes (no new data)"))
	}
	if res.Optimization != "" {
		fmt.Printf("Strategy:          %s\n", ui.RenderMuted(string(res.Optimization)))
	}

	switch res.Aggregate.Status {
	case model.AggregateSuccess:
		fmt.Printf("Snapshot:          #%d (%d launches", res.Aggregate.SnapshotID, res.Aggregate.TotalLaunches)
		if res.Aggregate.SuccessRate != nil {
			fmt.Printf(", %.2f%% success", *res.Aggregate.SuccessRate)
		}
		fmt.Println(")")
	case model.AggregateSkipped:
		fmt.Printf("Snapshot:          %s\n", ui.RenderMuted("skipped ("+res.Aggregate.Reason+")"))
	case model.AggregateError:
		fmt.Printf("Snapshot:          %s\n", ui.RenderErr("failed: "+res.Aggregate.Err))
	}
}

func printSnapshot(s *model.Snapshot) {
	fmt.Printf("Snapshot:          #%d (%s)\n", s.ID, s.Kind)
	fmt.Printf("Created:           %s\n", s.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Total launches:    %d\n", s.TotalLaunches)
	fmt.Printf("Successful:        %d\n", s.SuccessfulLaunches)
	fmt.Printf("Failed:            %d\n", s.FailedLaunches)
	if s.SuccessRate != nil {
		fmt.Printf("Success rate:      %.2f%%\n", *s.SuccessRate)
	}
	fmt.Printf("Launch sites:      %d\n", s.SiteCount)
	if s.AvgPayloadMassKg != nil {
		fmt.Printf("Avg payload mass:  %.1f kg\n", *s.AvgPayloadMassKg)
	}
	if s.AvgLeadTimeHours != nil {
		fmt.Printf("Avg lead time:     %.1f h\n", *s.AvgLeadTimeHours)
	}
	if s.EarliestLaunch != nil && s.LatestLaunch != nil {
		fmt.Printf("Launch range:      %s to %s\n",
			s.EarliestLaunch.Format("2006-01-02"), s.LatestLaunch.Format("2006-01-02"))
	}
	if s.RunID != "" {
		fmt.Printf("Run:               %s\n", ui.RenderMuted(s.RunID))
	}
}

func printSnapshotHistory(snaps []*model.Snapshot) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tKIND\tTOTAL\tRATE\tSITES\tBATCH\tRUN")
	for _, s := range snaps {
		rate := "-"
		if s.SuccessRate != nil {
			rate = fmt.Sprintf("%.2f%%", *s.SuccessRate)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%d\t%d\t%s\n",
			s.ID,
			s.CreatedAt.Format(time.DateTime),
			s.Kind,
			s.TotalLaunches,
			rate,
			s.SiteCount,
			s.BatchSize,
			s.RunID,
		)
	}
	w.Flush()
}
