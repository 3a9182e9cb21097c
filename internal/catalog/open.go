package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"masterplan/pkg/database"
	"masterplan/pkg/utils"
)

// OpenBackend builds the backend selected by cfg.Store. A fresh SQLite store
// is seeded from the JSON document at cfg.DataPath when that file exists.
func OpenBackend(ctx context.Context, cfg utils.Config) (Backend, func() error, error) {
	if cfg.Store != utils.StoreSQLite {
		return NewFileBackend(cfg.DataPath), func() error { return nil }, nil
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	backend := NewSQLiteBackend(db)
	seed, err := NewFileBackend(cfg.DataPath).Read(ctx)
	switch {
	case err == nil:
		wrote, err := backend.Seed(ctx, seed)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		if wrote {
			log.Printf("[catalog] seeded %s from %s (%d plots)", cfg.DBPath, cfg.DataPath, len(seed.Plots))
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		log.Printf("[catalog] seed file %s ignored: %v", cfg.DataPath, err)
	}

	return backend, db.Close, nil
}
