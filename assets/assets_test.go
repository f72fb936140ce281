package assets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/bookbridge/blobstore"
	"github.com/stretchr/testify/require"
)

// countingStore tracks remote operations so tests can assert idempotency.
type countingStore struct {
	blobstore.BlobStore
	opens atomic.Int64
	lists atomic.Int64
}

func (c *countingStore) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	c.opens.Add(1)
	return c.BlobStore.Open(ctx, name)
}

func (c *countingStore) List(ctx context.Context, prefix string) ([]string, error) {
	c.lists.Add(1)
	return c.BlobStore.List(ctx, prefix)
}

func (c *countingStore) remoteCalls() int64 {
	return c.opens.Load() + c.lists.Load()
}

func seedStore(t *testing.T) *countingStore {
	t.Helper()
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "indexes/title_to_id_index.json", []byte(`{"dune":"ID1"}`)))
	require.NoError(t, mem.Put(ctx, "models/item_embeddings.bin", []byte("vectors")))
	require.NoError(t, mem.Put(ctx, "filtered_metadata/shard-000.jsonl", []byte(`{"asin":"ID1"}`+"\n")))
	require.NoError(t, mem.Put(ctx, "filtered_metadata/nested/shard-001.jsonl", []byte(`{"asin":"ID2"}`+"\n")))
	return &countingStore{BlobStore: mem}
}

func TestEnsureAssets_DownloadsBundle(t *testing.T) {
	store := seedStore(t)
	m := NewManager(store, t.TempDir())
	ctx := context.Background()

	bundle, err := m.EnsureAssets(ctx, false, true)
	require.NoError(t, err)

	title, err := os.ReadFile(bundle.TitleIndexPath)
	require.NoError(t, err)
	require.JSONEq(t, `{"dune":"ID1"}`, string(title))

	sim, err := os.ReadFile(bundle.SimilarityIndexPath)
	require.NoError(t, err)
	require.Equal(t, "vectors", string(sim))

	// Prefix layout is mirrored under the metadata dir.
	_, err = os.Stat(filepath.Join(bundle.MetadataDir, "shard-000.jsonl"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(bundle.MetadataDir, "nested", "shard-001.jsonl"))
	require.NoError(t, err)
}

func TestEnsureAssets_IdempotentWarmCache(t *testing.T) {
	store := seedStore(t)
	m := NewManager(store, t.TempDir())
	ctx := context.Background()

	first, err := m.EnsureAssets(ctx, false, true)
	require.NoError(t, err)
	calls := store.remoteCalls()
	require.Positive(t, calls)

	second, err := m.EnsureAssets(ctx, false, true)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, calls, store.remoteCalls(), "warm cache must perform zero remote calls")
}

func TestEnsureAssets_SkipsMetadataWhenNotRequested(t *testing.T) {
	store := seedStore(t)
	m := NewManager(store, t.TempDir())
	ctx := context.Background()

	bundle, err := m.EnsureAssets(ctx, false, false)
	require.NoError(t, err)

	_, err = os.Stat(bundle.MetadataDir)
	require.True(t, os.IsNotExist(err))
	require.Equal(t, int64(0), store.lists.Load())
}

func TestEnsureAssets_MissingObject(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "models/item_embeddings.bin", []byte("vectors")))

	m := NewManager(mem, t.TempDir())
	_, err := m.EnsureAssets(ctx, false, false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAssets_EmptyMetadataPrefix(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "indexes/title_to_id_index.json", []byte(`{}`)))
	require.NoError(t, mem.Put(ctx, "models/item_embeddings.bin", []byte("vectors")))

	m := NewManager(mem, t.TempDir())
	_, err := m.EnsureAssets(ctx, false, true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureAssets_ForceRefetches(t *testing.T) {
	store := seedStore(t)
	m := NewManager(store, t.TempDir())
	ctx := context.Background()

	bundle, err := m.EnsureAssets(ctx, false, false)
	require.NoError(t, err)

	require.NoError(t, store.BlobStore.Put(ctx, "models/item_embeddings.bin", []byte("fresh vectors")))

	// Non-forced call keeps the stale copy.
	_, err = m.EnsureAssets(ctx, false, false)
	require.NoError(t, err)
	data, err := os.ReadFile(bundle.SimilarityIndexPath)
	require.NoError(t, err)
	require.Equal(t, "vectors", string(data))

	_, err = m.EnsureAssets(ctx, true, false)
	require.NoError(t, err)
	data, err = os.ReadFile(bundle.SimilarityIndexPath)
	require.NoError(t, err)
	require.Equal(t, "fresh vectors", string(data))
}

func TestEnsureAssets_CustomLocations(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, "alt/titles.json", []byte(`{}`)))
	require.NoError(t, mem.Put(ctx, "alt/vectors.bin", []byte("v")))

	m := NewManager(mem, t.TempDir(), func(o *Options) {
		o.Locations = Locations{
			TitleIndexObject:      "alt/titles.json",
			SimilarityIndexObject: "alt/vectors.bin",
			MetadataPrefix:        "alt/meta",
		}
	})

	bundle, err := m.EnsureAssets(ctx, false, false)
	require.NoError(t, err)
	require.Equal(t, "titles.json", filepath.Base(bundle.TitleIndexPath))
	require.Equal(t, "vectors.bin", filepath.Base(bundle.SimilarityIndexPath))
	require.Equal(t, "meta", filepath.Base(bundle.MetadataDir))
}

func TestEnsureAssets_RateLimitedDownloadCompletes(t *testing.T) {
	store := seedStore(t)
	m := NewManager(store, t.TempDir(), func(o *Options) {
		o.DownloadBytesPerSec = 1 << 20
	})

	_, err := m.EnsureAssets(context.Background(), false, true)
	require.NoError(t, err)
}

type failingStore struct {
	blobstore.BlobStore
}

func (f *failingStore) List(context.Context, string) ([]string, error) {
	return nil, errors.New("connection reset")
}

func TestEnsureAssets_ListFailureIsTransferFailed(t *testing.T) {
	store := &failingStore{BlobStore: seedStore(t).BlobStore}
	m := NewManager(store, t.TempDir())

	_, err := m.EnsureAssets(context.Background(), false, true)
	require.ErrorIs(t, err, ErrTransferFailed)
}
