package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Lifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Open(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "models/item_embeddings.bin", []byte("vectors")))
	require.NoError(t, store.Put(ctx, "models/manifest.json", []byte("{}")))

	blob, err := store.Open(ctx, "models/item_embeddings.bin")
	require.NoError(t, err)
	require.Equal(t, int64(7), blob.Size())

	rc, err := blob.ReadRange(ctx, 0, 3)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "vec", string(got))
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "models/")
	require.NoError(t, err)
	require.Equal(t, []string{"models/item_embeddings.bin", "models/manifest.json"}, names)

	require.NoError(t, store.Delete(ctx, "models/manifest.json"))
	names, err = store.List(ctx, "models/")
	require.NoError(t, err)
	require.Equal(t, []string{"models/item_embeddings.bin"}, names)
}

func TestMemoryStore_OpenIsSnapshot(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a", []byte("old")))

	blob, err := store.Open(ctx, "a")
	require.NoError(t, err)
	defer blob.Close()

	require.NoError(t, store.Put(ctx, "a", []byte("new")))

	buf := make([]byte, 3)
	_, err = blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, "old", string(buf))
}
