package main

import (
	"context"
	"fmt"
	"log/slog"

	"lnr/internal/config"
	"lnr/internal/roster"
	"lnr/internal/store"
	"lnr/internal/store/postgres"
)

// openStore opens and migrates the configured backend.
func openStore(ctx context.Context, cfg *config.Config) (store.TaskStore, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		if cfg.DBPath == "" {
			return nil, fmt.Errorf("db path is required")
		}
		return store.Open(cfg.DBPath)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unsupported db driver %q (want %s or %s)", cfg.DBDriver, config.DriverSQLite, config.DriverPostgres)
}

// seedIfEmpty loads the configured roster into a store that has no members.
func seedIfEmpty(ctx context.Context, st store.TaskStore, cfg *config.Config, logger *slog.Logger) error {
	info, err := st.StoreInfo(ctx)
	if err != nil {
		return err
	}
	if info.MemberCount > 0 {
		return nil
	}
	r, err := roster.Load(cfg.RosterPath)
	if err != nil {
		return err
	}
	members, err := roster.Seed(ctx, st, r)
	if err != nil {
		return err
	}
	logger.Info("seeded team roster", "members", len(members))
	return nil
}
