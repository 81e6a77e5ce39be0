package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"alfredoptarigan/interview-agent/internal/config"
	"alfredoptarigan/interview-agent/internal/repositories"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create tables or indexes for the configured database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if cfg.Database.Driver == config.DriverMongo {
			client, db, err := config.InitMongo(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
				return err
			}
			log.Info("✅ MongoDB indexes ensured")
			return nil
		}

		// InitDatabase migrates on open
		if _, err := config.InitDatabase(cfg, log); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
