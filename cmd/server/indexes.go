package main

import (
	"context"
	"fmt"
	"time"

	"vitaltrack/fitness-app/internal/logger"
	"vitaltrack/fitness-app/internal/repository/mongo"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer func() { _ = mongo.DisconnectDB(client) }()

		if err := mongo.EnsureIndexes(ctx, client.Database(cfg.Database.Name)); err != nil {
			return err
		}
		log := logger.WithComponent("database")
		log.Info().Str("database", cfg.Database.Name).Msg("Indexes are up to date")
		return nil
	},
}

func init() {
	indexesCmd.Flags().Duration("timeout", time.Minute, "Deadline for connecting and building indexes")
}
