package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lnr/internal/config"
	"lnr/internal/store"
)

func newMigrateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var inspect bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run or inspect database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inspect {
				if cfg.DBDriver != config.DriverSQLite {
					return fmt.Errorf("--inspect is only supported for the %s driver", config.DriverSQLite)
				}
				return inspectMigrations(cfg.DBPath, *jsonOutput)
			}

			// Opening a store applies pending migrations.
			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer st.Close()

			info, err := st.StoreInfo(cmd.Context())
			if err != nil {
				return err
			}
			if *jsonOutput {
				return writeJSON(info)
			}
			return writePlain("Schema at version %d.\n", info.SchemaVersion)
		},
	}

	cmd.Flags().BoolVar(&inspect, "inspect", false, "show migration status without applying")
	return cmd
}

func inspectMigrations(path string, jsonOutput bool) error {
	db, err := store.OpenRaw(path)
	if err != nil {
		return err
	}
	defer db.Close()

	plan, err := store.MigrationPlan(db)
	if err != nil {
		return fmt.Errorf("inspect migrations: %w", err)
	}
	if jsonOutput {
		return writeJSON(plan)
	}

	_ = writePlain("Current version: %d\n", plan.CurrentVersion)
	_ = writePlain("Available version: %d\n", plan.AvailableVersion)
	if len(plan.Pending) == 0 {
		return writePlain("No pending migrations.\n")
	}
	_ = writePlain("Pending migrations: %d\n", len(plan.Pending))
	for _, m := range plan.Pending {
		_ = writePlain("  %d: %s\n", m.Version, m.Description)
	}
	return nil
}
