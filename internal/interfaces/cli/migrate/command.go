// Package migrate provides database migration commands.
package migrate

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vendo-inc/vendo/internal/infrastructure/config"
	"github.com/vendo-inc/vendo/internal/infrastructure/database"
	"github.com/vendo-inc/vendo/internal/infrastructure/migration"
	"github.com/vendo-inc/vendo/internal/shared/logger"
)

const defaultScriptsPath = "internal/infrastructure/migration/scripts"

// NewCommand creates the migrate command with its subcommands.
func NewCommand() *cobra.Command {
	var env string
	var scriptsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, production)")
	cmd.PersistentFlags().StringVar(&scriptsPath, "scripts", defaultScriptsPath, "Path to migration scripts")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(env, scriptsPath, func(mg *migration.Migrator) error {
					return mg.Up()
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("invalid step count: %s", args[0])
					}
					steps = n
				}
				return withMigrator(env, scriptsPath, func(mg *migration.Migrator) error {
					return mg.Down(steps)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(env, scriptsPath, func(mg *migration.Migrator) error {
					version, dirty, err := mg.Version()
					if err != nil {
						return err
					}
					logger.Info("migration status", "version", version, "dirty", dirty)
					return nil
				})
			},
		},
	)

	return cmd
}

func withMigrator(env, scriptsPath string, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	mg, err := migration.NewMigrator(database.Get(), scriptsPath, logger.NewLogger())
	if err != nil {
		return err
	}

	return fn(mg)
}
