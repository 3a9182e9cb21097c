package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"masterplan/pkg/models"
)

// Backend persists the whole catalog document. There is no partial write path.
type Backend interface {
	Read(ctx context.Context) (models.Catalog, error)
	Write(ctx context.Context, c models.Catalog) error
}

func encodeCatalog(c models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeCatalog(b []byte) (models.Catalog, error) {
	var c models.Catalog
	if err := json.Unmarshal(b, &c); err != nil {
		return models.Catalog{}, err
	}
	if c.Plots == nil {
		c.Plots = []models.Plot{}
	}
	return c, nil
}

// FileBackend keeps the catalog in a hand-editable JSON file.
type FileBackend struct {
	Path string
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (f *FileBackend) Read(ctx context.Context) (models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return models.Catalog{}, err
	}

	b, err := os.ReadFile(f.Path)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, f.Path, err)
	}
	c, err := decodeCatalog(b)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("%w: decode %s: %v", ErrStorageUnavailable, f.Path, err)
	}
	return c, nil
}

// Write replaces the file atomically: the document is written to a sibling
// temp file and renamed over the original, so a failed write never leaves a
// truncated catalog behind.
func (f *FileBackend) Write(ctx context.Context, c models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := encodeCatalog(c)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", ErrPersistence, dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("%w: sync %s: %v", ErrPersistence, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: close %s: %v", ErrPersistence, tmpPath, err)
	}

	if info, err := os.Stat(f.Path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpPath, 0o644)
	}

	if err := os.Rename(tmpPath, f.Path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, f.Path, err)
	}
	return nil
}
