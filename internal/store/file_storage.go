package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// FileStorage keeps the document in a single JSON file.
// The version is the xxhash of the file content, so edits made by another
// process between load and write are detected. Writes go through a temp file
// and rename, so readers never see a partial document.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage creates a file storage at path. The parent directory is created if needed.
func NewFileStorage(path string) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FileStorage{path: path}, nil
}

// Load reads the file. A missing file is an empty snapshot.
func (f *FileStorage) Load(_ context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileStorage) read() (Snapshot, error) {
	body, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading %s: %w", f.path, err)
	}
	return Snapshot{Body: body, Version: contentVersion(body)}, nil
}

// CompareAndSwap rewrites the file when its content hash equals expected.
func (f *FileStorage) CompareAndSwap(_ context.Context, expected uint64, body []byte) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		return 0, err
	}
	if current.Version != expected {
		return 0, ErrVersionConflict
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return contentVersion(body), nil
}

// Ping checks the data directory is accessible.
func (f *FileStorage) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(f.path))
	return err
}

// Close is a no-op.
func (f *FileStorage) Close() error { return nil }

// Name returns "file".
func (f *FileStorage) Name() string { return "file" }

// contentVersion never returns 0, which is reserved for "nothing stored".
func contentVersion(body []byte) uint64 {
	if v := xxhash.Sum64(body); v != 0 {
		return v
	}
	return 1
}
