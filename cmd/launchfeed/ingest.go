package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/groblegark/launchfeed/internal/events"
	"github.com/groblegark/launchfeed/internal/model"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run one ingestion pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res := a.pipe.Run(ctx)

		pub := buildPublisher(a.cfg.NATSURL)
		defer pub.Close()
		if err := events.PublishRunResult(ctx, pub, res); err != nil {
			slog.Warn("publishing run events", "error", err)
		}

		if jsonOutput {
			printJSON(res)
		} else {
			printRunResult(res)
		}

		if res.Status == model.RunError {
			os.Exit(1)
		}
		return nil
	},
}

// buildPublisher returns a NATS publisher when a URL is configured and a
// noop otherwise. Connection failures degrade to noop with a warning;
// ingestion never depends on the event bus.
func buildPublisher(url string) events.Publisher {
	if url == "" {
		return &events.NoopPublisher{}
	}
	pub, err := events.NewNATSPublisher(url)
	if err != nil {
		slog.Warn("NATS unavailable, events disabled", "url", url, "error", err)
		return &events.NoopPublisher{}
	}
	return pub
}
