package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nestbook/pkg/client"
	"nestbook/pkg/config"
	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/retry"
)

const ServiceName = "sweeper"

// retryBudget bounds how long a single sweep round may keep retrying
// before we give up and wait for the next tick.
const retryBudget = 2 * time.Minute

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetServiceClients()

	cfg.Log.Info("Starting sweeper", "interval", cfg.SweepInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	// One sweep on startup so a crashed sweeper catches up immediately
	// instead of waiting a full interval.
	runSweep(ctx, cfg)

	for {
		select {
		case <-ticker.C:
			runSweep(ctx, cfg)
		case <-sigChan:
			cfg.Log.Info("Shutting down sweeper")
			return
		}
	}
}

func runSweep(ctx context.Context, cfg *config.Config) {
	asOf := time.Now().UTC()

	if err := retry.DoVoid(ctx, retryBudget, func() error {
		return callSweep(cfg.Client.BookingClient.CompleteSweep, asOf)
	}); err != nil {
		cfg.Log.Error("Completion sweep failed", "as_of", asOf, "error", err)
	}

	if err := retry.DoVoid(ctx, retryBudget, func() error {
		return callSweep(cfg.Client.PropertyClient.ExpireArchives, asOf)
	}); err != nil {
		cfg.Log.Error("Archive expiry sweep failed", "as_of", asOf, "error", err)
	}
}

// callSweep treats transport failures as retryable and lets the
// response's own error code decide otherwise.
func callSweep(call func(time.Time) (*client.Response, error), asOf time.Time) error {
	resp, err := call(asOf)
	if err != nil {
		return apperrors.TransientStore("sweep request failed", err)
	}
	return resp.AsError()
}
