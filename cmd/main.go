package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/roadmap-backend/internal/app"
	"github.com/yungbote/roadmap-backend/internal/platform/envutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

func main() {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	if err := run(log); err != nil {
		log.Error("Server stopped with error", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Info("Server stopped")
	log.Sync()
}

func run(log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Loading environment variables...")
	cfg := app.LoadConfig(log)

	a, err := app.New(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Run(ctx)
}
