package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/hupe1980/bookbridge/blobstore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var (
	// ErrNotFound indicates a required remote object or prefix has no
	// backing data. Not retryable without operator intervention.
	ErrNotFound = errors.New("assets: remote object not found")
	// ErrTransferFailed indicates a network or I/O failure during an
	// existence check or download. Callers may retry.
	ErrTransferFailed = errors.New("assets: transfer failed")
	// ErrMalformed indicates a local artifact exists but failed to
	// parse. Not retryable without a forced refresh.
	ErrMalformed = errors.New("assets: malformed artifact")
)

// Locations names the remote objects backing the three artifact classes.
type Locations struct {
	// TitleIndexObject is the title-to-identifier JSON object.
	TitleIndexObject string
	// SimilarityIndexObject is the serialized similarity index.
	SimilarityIndexObject string
	// MetadataPrefix is the prefix under which metadata shards live.
	MetadataPrefix string
}

// DefaultLocations match the batch job's output layout.
var DefaultLocations = Locations{
	TitleIndexObject:      "indexes/title_to_id_index.json",
	SimilarityIndexObject: "models/item_embeddings.bin",
	MetadataPrefix:        "filtered_metadata",
}

// Bundle holds the local paths of a fully materialized artifact set.
type Bundle struct {
	TitleIndexPath      string
	SimilarityIndexPath string
	MetadataDir         string
}

// Options configure a Manager.
type Options struct {
	// Locations override DefaultLocations.
	Locations Locations
	// Logger receives download progress; nil discards.
	Logger *slog.Logger
	// DownloadBytesPerSec caps download bandwidth. 0 means unlimited.
	DownloadBytesPerSec int
	// DownloadConcurrency bounds parallel shard downloads.
	DownloadConcurrency int
}

// Manager materializes the remote artifacts into a local cache directory.
// It is idempotent: once a bundle is present, non-forced calls perform no
// remote access.
type Manager struct {
	store       blobstore.BlobStore
	cacheDir    string
	loc         Locations
	logger      *slog.Logger
	limiter     *rate.Limiter
	concurrency int
}

// NewManager creates a Manager caching into cacheDir.
func NewManager(store blobstore.BlobStore, cacheDir string, optFns ...func(*Options)) *Manager {
	opts := Options{
		Locations:           DefaultLocations,
		DownloadConcurrency: 4,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var limiter *rate.Limiter
	if opts.DownloadBytesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.DownloadBytesPerSec), opts.DownloadBytesPerSec)
	}

	if opts.DownloadConcurrency <= 0 {
		opts.DownloadConcurrency = 4
	}

	return &Manager{
		store:       store,
		cacheDir:    cacheDir,
		loc:         opts.Locations,
		logger:      logger,
		limiter:     limiter,
		concurrency: opts.DownloadConcurrency,
	}
}

// Bundle returns the local paths the manager materializes into.
func (m *Manager) Bundle() Bundle {
	return Bundle{
		TitleIndexPath:      filepath.Join(m.cacheDir, path.Base(m.loc.TitleIndexObject)),
		SimilarityIndexPath: filepath.Join(m.cacheDir, path.Base(m.loc.SimilarityIndexObject)),
		MetadataDir:         filepath.Join(m.cacheDir, path.Base(strings.TrimSuffix(m.loc.MetadataPrefix, "/"))),
	}
}

// EnsureAssets makes the artifact bundle available locally, downloading
// whatever is missing (or everything, when force is set). It either
// returns a fully usable bundle or an error; the metadata directory is
// only required when includeMetadata is set.
//
// Cold-cache priming is serialized across processes with an advisory lock
// in the cache directory, so concurrent callers never race on the same
// artifact path.
func (m *Manager) EnsureAssets(ctx context.Context, force, includeMetadata bool) (Bundle, error) {
	bundle := m.Bundle()

	if !force && m.ready(bundle, includeMetadata) {
		m.logger.DebugContext(ctx, "using cached assets", "cache_dir", m.cacheDir)
		return bundle, nil
	}

	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return Bundle{}, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	lock := flock.New(filepath.Join(m.cacheDir, ".bookbridge.lock"))
	if err := lock.Lock(); err != nil {
		return Bundle{}, fmt.Errorf("%w: cache lock: %v", ErrTransferFailed, err)
	}
	defer lock.Unlock()

	// Another process may have primed the cache while we waited.
	if !force && m.ready(bundle, includeMetadata) {
		return bundle, nil
	}

	if err := m.downloadObject(ctx, m.loc.TitleIndexObject, bundle.TitleIndexPath, force); err != nil {
		return Bundle{}, err
	}
	if err := m.downloadObject(ctx, m.loc.SimilarityIndexObject, bundle.SimilarityIndexPath, force); err != nil {
		return Bundle{}, err
	}
	if includeMetadata {
		if err := m.downloadPrefix(ctx, m.loc.MetadataPrefix, bundle.MetadataDir, force); err != nil {
			return Bundle{}, err
		}
	}

	return bundle, nil
}

func (m *Manager) ready(b Bundle, includeMetadata bool) bool {
	if !fileNonEmpty(b.TitleIndexPath) || !fileNonEmpty(b.SimilarityIndexPath) {
		return false
	}
	return !includeMetadata || dirHasFiles(b.MetadataDir)
}

func (m *Manager) downloadObject(ctx context.Context, name, dest string, force bool) error {
	if !force && fileNonEmpty(dest) {
		m.logger.DebugContext(ctx, "using cached asset", "path", dest)
		return nil
	}

	blob, err := m.store.Open(ctx, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("%w: stat %s: %v", ErrTransferFailed, name, err)
	}
	defer blob.Close()

	m.logger.InfoContext(ctx, "downloading asset", "object", name, "path", dest, "size", blob.Size())

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrTransferFailed, name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if m.limiter != nil {
		r = &throttledReader{r: rc, limiter: m.limiter, ctx: ctx}
	}

	if err := writeFileAtomic(dest, r); err != nil {
		return fmt.Errorf("%w: download %s: %v", ErrTransferFailed, name, err)
	}
	return nil
}

func (m *Manager) downloadPrefix(ctx context.Context, prefix, destDir string, force bool) error {
	if !force && dirHasFiles(destDir) {
		m.logger.DebugContext(ctx, "using cached metadata", "dir", destDir)
		return nil
	}

	normalized := strings.TrimSuffix(prefix, "/") + "/"

	names, err := m.store.List(ctx, normalized)
	if err != nil {
		return fmt.Errorf("%w: list %s: %v", ErrTransferFailed, normalized, err)
	}
	if len(names) == 0 {
		return fmt.Errorf("%w: no objects under prefix %s", ErrNotFound, normalized)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)

	for _, name := range names {
		name := name
		if strings.HasSuffix(name, "/") {
			continue
		}
		rel := strings.TrimPrefix(name, normalized)
		dest := filepath.Join(destDir, filepath.FromSlash(rel))
		g.Go(func() error {
			return m.downloadObject(ctx, name, dest, force)
		})
	}

	return g.Wait()
}

func writeFileAtomic(dest string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

func fileNonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir() && fi.Size() > 0
}

func dirHasFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
