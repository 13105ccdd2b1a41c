package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalpace/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(run migration) error {
				if err := run.up(); err != nil {
					return err
				}
				return run.status(cmd)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(run migration) error {
				if err := run.down(); err != nil {
					return err
				}
				return run.status(cmd)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(run migration) error {
				return run.status(cmd)
			})
		},
	})

	return cmd
}

type migration struct {
	up     func() error
	down   func() error
	status func(cmd *cobra.Command) error
}

// withDB opens the database without migrating it, so status and down see
// the schema as it is.
func withDB(fn func(run migration) error) error {
	cfg := loadConfig()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer db.Close(database)

	return fn(migration{
		up: func() error {
			return db.RunMigrations(database.DB, cfg.DBDriver)
		},
		down: func() error {
			return db.MigrateDown(database.DB, cfg.DBDriver)
		},
		status: func(cmd *cobra.Command) error {
			version, err := db.MigrationVersion(database.DB, cfg.DBDriver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
			return nil
		},
	})
}
