package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"fraud-alert-agent/handler"
	"fraud-alert-agent/internal/bootstrap"
	"fraud-alert-agent/internal/config"
	"fraud-alert-agent/internal/logging"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// ---- Stores ----
	rt, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to wire stores", "err", err)
		os.Exit(1)
	}

	// A failed seed leaves the desk running; unknown callers get NOT_FOUND.
	if _, err := rt.Seed(ctx, nil); err != nil {
		logger.Error("seeding failed", "event", "seed_unavailable", "err", err)
	}

	// ---- Handler ----
	callService, err := rt.CallService()
	if err != nil {
		logger.Error("failed to create call service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(callService)
	if err != nil {
		logger.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
