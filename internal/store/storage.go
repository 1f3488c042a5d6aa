package store

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by CompareAndSwap when the stored version
// no longer matches the expected one.
var ErrVersionConflict = errors.New("document version conflict")

// Snapshot is the raw stored document and its version.
// A nil Body means nothing is stored; its Version is 0.
type Snapshot struct {
	Body    []byte
	Version uint64
}

// Storage is the port the document is persisted through.
type Storage interface {
	// Load returns the current snapshot.
	Load(ctx context.Context) (Snapshot, error)

	// CompareAndSwap replaces the document if the stored version equals expected
	// and returns the new version. Returns ErrVersionConflict otherwise.
	CompareAndSwap(ctx context.Context, expected uint64, body []byte) (uint64, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error

	// Name identifies the backend in logs and status output.
	Name() string
}
