package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/config"
	"github.com/mmc102/partner-finder/internal/repository/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}

		db, err := connectPostgres(context.Background(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return err
		}

		version, err := migrations.LatestVersion()
		if err != nil {
			return err
		}
		fmt.Printf("Database migrated to version %d\n", version)
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the schema is up to date",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadPostgresConfig()
		if err != nil {
			return err
		}

		db, err := connectPostgres(context.Background(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		latest, err := migrations.LatestVersion()
		if err != nil {
			return err
		}

		err = migrations.CheckStatus(db)
		switch {
		case err == nil:
			fmt.Printf("Database is up to date (version %d)\n", latest)
			return nil
		case errors.Is(err, migrations.ErrNeedsMigration):
			fmt.Printf("Database has no schema yet, latest version is %d\n", latest)
			return nil
		default:
			return err
		}
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func loadPostgresConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, fmt.Errorf("migrations need the %q driver, config uses %q", config.DriverPostgres, cfg.Database.Driver)
	}
	return cfg, nil
}
