package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"masterplan/pkg/models"
)

// SQLiteBackend stores the same JSON document in a single row. It is the
// durable option for deployments whose filesystem is not writable at runtime.
type SQLiteBackend struct {
	DB *sql.DB
}

func NewSQLiteBackend(db *sql.DB) *SQLiteBackend {
	return &SQLiteBackend{DB: db}
}

func (s *SQLiteBackend) Read(ctx context.Context) (models.Catalog, error) {
	var body string
	err := s.DB.QueryRowContext(ctx, `SELECT body FROM catalog_document WHERE id = 1`).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Catalog{}, fmt.Errorf("%w: catalog has not been seeded", ErrStorageUnavailable)
		}
		return models.Catalog{}, fmt.Errorf("%w: select catalog: %v", ErrStorageUnavailable, err)
	}

	c, err := decodeCatalog([]byte(body))
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%w: decode catalog: %v", ErrStorageUnavailable, err)
	}
	return c, nil
}

func (s *SQLiteBackend) Write(ctx context.Context, c models.Catalog) error {
	b, err := encodeCatalog(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrPersistence, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO catalog_document (id, body, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, string(b), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("%w: upsert catalog: %v", ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrPersistence, err)
	}
	return nil
}

// Seed copies c into the table when no document has been stored yet.
// It reports whether a row was written.
func (s *SQLiteBackend) Seed(ctx context.Context, c models.Catalog) (bool, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalog_document`).Scan(&n); err != nil {
		return false, fmt.Errorf("count catalog: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if err := s.Write(ctx, c); err != nil {
		return false, err
	}
	return true, nil
}
