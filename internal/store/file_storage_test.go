package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gymmate/gymmate/internal/store"
)

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "gymmate_data.json")
	fs, err := store.NewFileStorage(path)
	require.NoError(t, err)
	ctx := context.Background()

	snap, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap.Body)
	assert.Zero(t, snap.Version)

	v1, err := fs.CompareAndSwap(ctx, 0, []byte(`{"users":[]}`))
	require.NoError(t, err)
	assert.NotZero(t, v1)

	snap, err = fs.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[]}`, string(snap.Body))
	assert.Equal(t, v1, snap.Version)

	_, err = fs.CompareAndSwap(ctx, 0, []byte(`{}`))
	assert.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestFileStorage_DetectsExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymmate_data.json")
	fs, err := store.NewFileStorage(path)
	require.NoError(t, err)
	ctx := context.Background()

	v1, err := fs.CompareAndSwap(ctx, 0, []byte(`{"users":[]}`))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"users":[{"email":"x@example.com"}]}`), 0o600))

	_, err = fs.CompareAndSwap(ctx, v1, []byte(`{}`))
	assert.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestStore_FileBackendPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymmate_data.json")
	ctx := context.Background()

	fs, err := store.NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, newTestStore(fs).Update(ctx, func(d *store.Document) error {
		d.Users = append(d.Users, store.User{Email: "a@example.com"})
		return nil
	}))

	reopened, err := store.NewFileStorage(path)
	require.NoError(t, err)
	doc := newTestStore(reopened).Load(ctx)
	require.Len(t, doc.Users, 1)
	assert.Equal(t, "a@example.com", doc.Users[0].Email)
}
