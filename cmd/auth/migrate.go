package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/tenantauth/internal/auth/app"
	"github.com/aussiebroadwan/tenantauth/internal/auth/store"
)

type migrationDowner interface {
	MigrateDown() error
}

type migrationVersioner interface {
	MigrationVersion() (uint, bool, error)
}

func newMigrateCmd(flags *configFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, flags, func(db store.Store) error {
				if err := db.ApplyMigrations(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Revert every applied migration (sqlite only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, flags, func(db store.Store) error {
				d, ok := db.(migrationDowner)
				if !ok {
					return errors.New("migrate down is not supported by this driver")
				}
				if err := d.MigrateDown(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations reverted")
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version (sqlite only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd, flags, func(db store.Store) error {
				v, ok := db.(migrationVersioner)
				if !ok {
					return errors.New("migrate version is not supported by this driver")
				}
				version, dirty, err := v.MigrationVersion()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

// withDatabase opens the configured database without migrating it.
func withDatabase(cmd *cobra.Command, flags *configFlags, fn func(store.Store) error) error {
	cfg := flags.load(cmd.Flags())
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := app.OpenDatabase(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(db)
}
