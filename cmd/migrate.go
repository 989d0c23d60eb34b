package cmd

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"helpdesk-system/internal/database"
	"helpdesk-system/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE:  runMigrateDown,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg := config.New()
	if err := database.MigrateUp(cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	log.Println("migrate up: ok")
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	cfg := config.New()
	if err := database.MigrateDown(cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	log.Println("migrate down: ok")
	return nil
}
