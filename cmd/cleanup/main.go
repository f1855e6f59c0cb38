// Command cleanup runs the data-quality analysis across every resource
// type and reports the number of pending change proposals per type. It is
// intended to be invoked by an external cron job, not as an in-process
// goroutine; applying changes stays an explicit API action.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/tastemap/tastemap-backend/internal/adapter/postgres"
	"github.com/tastemap/tastemap-backend/internal/adapter/postgres/resource"
	"github.com/tastemap/tastemap-backend/internal/app"
	"github.com/tastemap/tastemap-backend/internal/config"
	"github.com/tastemap/tastemap-backend/internal/registry"
	"github.com/tastemap/tastemap-backend/internal/service/cleanup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := cleanup.NewService(logger, resource.New(pool), postgres.NewTxManager(pool))

	total := 0
	for _, sch := range registry.All() {
		proposals, err := svc.Analyze(ctx, sch.Type.String())
		if err != nil {
			logger.Error("analyze failed",
				slog.String("type", sch.Type.String()),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}

		if len(proposals) > 0 {
			logger.Info("pending data-quality changes",
				slog.String("type", sch.Type.String()),
				slog.Int("proposals", len(proposals)),
			)
		}
		total += len(proposals)
	}

	logger.Info("analysis completed", slog.Int("total_proposals", total))
}
