package main

import (
	"context"
	"fmt"

	"go-admin-console/internal/data"

	"github.com/jmoiron/sqlx"
)

// openDB connects to the configured database, applies the embedded
// migrations and, when enabled, seeds the sample records.
func openDB(ctx context.Context) (*sqlx.DB, error) {
	log.Info("Connecting to the database...")
	db, err := data.NewDB(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("Applying database migrations...")
	if err := data.ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.DB.Seed {
		if err := data.Seed(ctx, data.NewSQLUserRepository(db), data.NewSQLPostRepository(db)); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	log.Info("Database ready.")
	return db, nil
}
