package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/roadmap-backend/internal/app"
	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/platform/envutil"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

var logMode string

var rootCmd = &cobra.Command{
	Use:           "roadmapctl",
	Short:         "Roadmap maintenance commands",
	Long:          "Schema migration, data repair, user bootstrap and spreadsheet import/export against the configured database.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// env bundles what every subcommand needs.
type env struct {
	log *logger.Logger
	cfg app.Config
}

func loadEnv() (*env, error) {
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &env{log: log, cfg: app.LoadConfig(log)}, nil
}

// openApp connects, migrates, and wires the same services the API server uses.
func (e *env) openApp(ctx context.Context) (*app.App, error) {
	theDB, err := db.Open(e.cfg.DB, e.log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(theDB, e.log); err != nil {
		return nil, err
	}
	return app.NewWithDB(ctx, e.log, e.cfg, theDB)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envutil.String("LOG_MODE", "production", nil), "logger mode (development|production)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(repairCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
