package cmd

import (
	"database/sql"

	"github.com/goalpulse/goalpulse/internal/config"
	"github.com/goalpulse/goalpulse/internal/db"
	"github.com/goalpulse/goalpulse/internal/logger"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
	}

	cmd.AddCommand(migrateUpCmd())
	cmd.AddCommand(migrateDownCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.RunMigrations)
		},
	}
}

func migrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(db.MigrateDown)
		},
	}
}

func withDB(fn func(*sql.DB, string) error) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), logger.Options{AppName: cfg.AppName, Env: cfg.AppEnv})

	conn, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(conn)

	return fn(conn.DB, cfg.DBDriver)
}
