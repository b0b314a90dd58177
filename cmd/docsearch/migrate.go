package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/willianpinho/document-management-system-sub001/internal/db/postgres"
)

func migrateCmd(env *string) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the embedded database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(postgres.Up), string(postgres.Down)},
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(*env)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			dir := postgres.Direction(args[0])
			if err := postgres.Migrate(cfg.Database.DSN, dir, steps); err != nil {
				return fmt.Errorf("migrate %s: %w", dir, err)
			}
			logger.Info("Migrations applied", zap.String("direction", string(dir)), zap.Int("steps", steps))
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "number of steps (0 = all)")
	return cmd
}
