// Command server runs the administration API: generic resource CRUD,
// bulk add and the data-quality workflow.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/tastemap/tastemap-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
