package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onboard/internal/platform/config"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/postgres"
)

func migrateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return errors.New("migrate requires --database-url or ONBOARD_DATABASE_URL")
			}
			log := logger.New(cfg.Server.LogLevel)

			ctx := cmd.Context()
			db, err := postgres.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(ctx, db)
			if err != nil {
				return err
			}
			log.InfoContext(ctx, "migrations applied", "count", applied)
			return nil
		},
	}
}
