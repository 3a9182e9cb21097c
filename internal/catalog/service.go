package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"masterplan/pkg/models"
)

// Notifier is told about every catalog that was successfully persisted.
type Notifier interface {
	PlotsUpdated(revision string, ids []string)
}

// Service owns the authoritative catalog. Each edit is a single
// read-modify-write under mu, so edits from one process never interleave.
// Without a base revision the later of two saves wins.
type Service struct {
	mu       sync.Mutex
	Backend  Backend
	Notifier Notifier
}

func NewService(backend Backend, notifier Notifier) *Service {
	return &Service{Backend: backend, Notifier: notifier}
}

// Revision fingerprints a catalog document. It changes whenever any byte of
// the persisted form would change.
func Revision(c models.Catalog) string {
	b, err := encodeCatalog(c)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:16])
}

func (s *Service) Load(ctx context.Context) (models.Catalog, error) {
	return s.Backend.Read(ctx)
}

// ApplyBulkEdit merges partial plots into the catalog (see MergeEdits),
// persists the whole document and returns it. baseRevision is optional.
func (s *Service) ApplyBulkEdit(ctx context.Context, edits []json.RawMessage, baseRevision string) (models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readAt(ctx, baseRevision)
	if err != nil {
		return models.Catalog{}, err
	}

	next := current.Clone()
	var changed []string
	next.Plots, changed = MergeEdits(current.Plots, edits)

	if err := s.Backend.Write(ctx, next); err != nil {
		log.Printf("[catalog] bulk edit not persisted: %v", err)
		return models.Catalog{}, err
	}
	log.Printf("[catalog] bulk edit saved: %d of %d entries applied", len(changed), len(edits))

	s.notify(next, changed)
	return next, nil
}

// ApplySingleEdit moves one plot. Coordinates are clamped to [0,1].
func (s *Service) ApplySingleEdit(ctx context.Context, id string, x, y float64, baseRevision string) (models.Catalog, error) {
	if !isFinite(x) || !isFinite(y) {
		return models.Catalog{}, fmt.Errorf("%w: x/y must be finite numbers", ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.readAt(ctx, baseRevision)
	if err != nil {
		return models.Catalog{}, err
	}

	i, ok := current.Find(id)
	if !ok {
		return models.Catalog{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	next := current.Clone()
	next.Plots[i].X = Clamp01(x)
	next.Plots[i].Y = Clamp01(y)

	if err := s.Backend.Write(ctx, next); err != nil {
		log.Printf("[catalog] move %s not persisted: %v", id, err)
		return models.Catalog{}, err
	}

	s.notify(next, []string{id})
	return next, nil
}

func (s *Service) readAt(ctx context.Context, baseRevision string) (models.Catalog, error) {
	current, err := s.Backend.Read(ctx)
	if err != nil {
		return models.Catalog{}, err
	}
	if baseRevision != "" && baseRevision != Revision(current) {
		return models.Catalog{}, fmt.Errorf("%w: base %s", ErrConflict, baseRevision)
	}
	return current, nil
}

func (s *Service) notify(c models.Catalog, ids []string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.PlotsUpdated(Revision(c), ids)
}
