package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/groblegark/launchfeed/internal/archive"
	"github.com/groblegark/launchfeed/internal/events"
	"github.com/groblegark/launchfeed/internal/model"
	"github.com/groblegark/launchfeed/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the pipeline continuously on an interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		pub := buildPublisher(a.cfg.NATSURL)
		defer pub.Close()

		var destinations []archive.Destination
		if a.cfg.ArchiveS3Bucket != "" {
			dest, err := archive.NewS3Destination(ctx,
				a.cfg.ArchiveS3Bucket, a.cfg.ArchiveS3Key,
				a.cfg.ArchiveS3Region, a.cfg.ArchiveS3Endpoint)
			if err != nil {
				return fmt.Errorf("configure S3 archive: %w", err)
			}
			destinations = append(destinations, dest)
		}
		archiver := archive.New(a.store, destinations, slog.Default())

		onResult := func(ctx context.Context, res *model.RunResult) {
			if err := events.PublishRunResult(ctx, pub, res); err != nil {
				slog.Warn("publishing run events", "error", err)
			}
			// Export only when the snapshot series actually grew.
			if res.Aggregate.Status == model.AggregateSuccess {
				if err := archiver.Export(ctx); err != nil {
					slog.Warn("archiving snapshots", "error", err)
				}
			}
		}

		sched := pipeline.NewScheduler(a.pipe, a.cfg.Interval, slog.Default(), onResult)
		sched.Start(ctx)

		fmt.Printf("Watching for new launches every %s (ctrl-c to stop)\n", a.cfg.Interval)
		<-ctx.Done()
		sched.Stop()
		return nil
	},
}
