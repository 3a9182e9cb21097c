package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable means the backing store could not be read or held a malformed document.
	ErrStorageUnavailable = errors.New("catalog storage unavailable")
	// ErrInvalidArgument means the edit payload was malformed. Nothing was written.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is an ErrInvalidArgument naming a plot id that does not exist.
	ErrNotFound = fmt.Errorf("%w: plot not found", ErrInvalidArgument)
	// ErrPersistence means the store is readable but the write failed. The
	// previously persisted document is still intact.
	ErrPersistence = errors.New("catalog could not be persisted")
	// ErrConflict means the caller's base revision is stale.
	ErrConflict = errors.New("catalog changed since it was loaded")
)
