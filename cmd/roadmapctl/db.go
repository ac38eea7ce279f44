package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/roadmap-backend/internal/data/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Long:  "Runs AutoMigrate and every versioned migration not yet recorded in schema_migrations.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()
		theDB, err := db.Open(e.cfg.DB, e.log)
		if err != nil {
			return err
		}
		if err := db.Migrate(theDB, e.log); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Deduplicate phases and grid cells, backfill missing phase rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		defer e.log.Sync()
		theDB, err := db.Open(e.cfg.DB, e.log)
		if err != nil {
			return err
		}
		report, err := db.Repair(theDB.WithContext(cmd.Context()))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}
