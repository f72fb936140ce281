package bookbridge

import (
	"context"
	"fmt"

	"github.com/hupe1980/bookbridge/assets"
	"github.com/hupe1980/bookbridge/blobstore"
	"github.com/hupe1980/bookbridge/bookmeta"
	"github.com/hupe1980/bookbridge/catalog"
	"github.com/hupe1980/bookbridge/internal/cache"
	"github.com/hupe1980/bookbridge/similarity"
)

// Engine resolves free-text title candidates into ranked catalog
// identifiers and enriched display records.
//
// All artifact indices are built lazily on first need and cached for the
// engine's lifetime in single-slot, path-keyed caches; an Engine is safe
// for concurrent use once constructed. Create independent engines for
// independent cache directories.
type Engine struct {
	opts   options
	assets *assets.Manager

	titles cache.Slot[*catalog.TitleIndex]
	sims   cache.Slot[*similarity.Index]
	meta   cache.Slot[*bookmeta.Index]
}

// New creates an Engine reading artifacts from the given blob store.
func New(store blobstore.BlobStore, optFns ...Option) *Engine {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	mgr := assets.NewManager(store, opts.cacheDir, func(o *assets.Options) {
		o.Locations = opts.locations
		o.Logger = opts.logger.Logger
		o.DownloadBytesPerSec = opts.downloadBytesPerSec
		if opts.downloadConcurrency > 0 {
			o.DownloadConcurrency = opts.downloadConcurrency
		}
	})

	return &Engine{opts: opts, assets: mgr}
}

// FinalIdentifiers runs the matching half of the pipeline: candidates are
// matched against the title index and the resulting seeds are expanded and
// reranked through the similarity index.
//
// An empty result means "no recommendation available" and is not an
// error; in that case the similarity index is never touched.
func (e *Engine) FinalIdentifiers(ctx context.Context, candidates []catalog.Candidate) ([]string, error) {
	bundle, err := e.assets.EnsureAssets(ctx, false, false)
	if err != nil {
		return nil, err
	}

	titleIndex, err := e.titles.Get(bundle.TitleIndexPath, func() (*catalog.TitleIndex, error) {
		idx, err := catalog.LoadTitleIndex(bundle.TitleIndexPath)
		if err != nil {
			return nil, fmt.Errorf("%w: title index: %v", ErrMalformedArtifact, err)
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	seeds := catalog.Match(candidates, titleIndex)
	e.opts.logger.LogMatch(ctx, len(candidates), len(seeds))
	if len(seeds) == 0 {
		return []string{}, nil
	}

	simIndex, err := e.sims.Get(bundle.SimilarityIndexPath, func() (*similarity.Index, error) {
		idx, err := similarity.Open(bundle.SimilarityIndexPath)
		if err != nil {
			return nil, fmt.Errorf("%w: similarity index: %v", ErrMalformedArtifact, err)
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	unknown := 0
	for _, seed := range seeds {
		if !simIndex.Contains(seed) {
			unknown++
		}
	}
	if unknown > 0 {
		e.opts.logger.DebugContext(ctx, "seeds without similarity vectors",
			"seeds", len(seeds),
			"unknown", unknown,
		)
	}

	ids := similarity.Rerank(seeds, simIndex, e.opts.rerank)
	e.opts.logger.LogRerank(ctx, len(seeds), len(ids))
	return ids, nil
}

// Records resolves catalog identifiers into display records, substituting
// defaults for identifiers missing from the metadata index. The result is
// order-preserving and 1:1 with the input.
func (e *Engine) Records(ctx context.Context, ids []string) ([]bookmeta.EnrichedRecord, error) {
	bundle, err := e.assets.EnsureAssets(ctx, false, true)
	if err != nil {
		return nil, err
	}

	metaIndex, err := e.meta.Get(bundle.MetadataDir, func() (*bookmeta.Index, error) {
		idx, err := bookmeta.LoadIndex(bundle.MetadataDir, e.opts.codec)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata index: %v", ErrMalformedArtifact, err)
		}
		return idx, nil
	})
	if err != nil {
		return nil, err
	}

	records := bookmeta.Resolve(ids, metaIndex)

	missing := 0
	for _, id := range ids {
		if _, ok := metaIndex.Get(id); !ok {
			missing++
		}
	}
	e.opts.logger.LogResolve(ctx, len(ids), missing)

	return records, nil
}

// Recommend composes the full pipeline: match, rerank, then resolve.
func (e *Engine) Recommend(ctx context.Context, candidates []catalog.Candidate) ([]bookmeta.EnrichedRecord, error) {
	ids, err := e.FinalIdentifiers(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []bookmeta.EnrichedRecord{}, nil
	}
	return e.Records(ctx, ids)
}

// RefreshAssets forces a wholesale re-download of every artifact and
// evicts the in-memory indices so the next call rebuilds from the fresh
// files.
func (e *Engine) RefreshAssets(ctx context.Context) error {
	_, err := e.assets.EnsureAssets(ctx, true, true)
	e.opts.logger.LogRefresh(ctx, err)
	if err != nil {
		return err
	}

	e.titles.Evict()
	e.sims.Evict()
	e.meta.Evict()
	return nil
}

// Close releases the resources held by cached indices, including the
// similarity index mapping. The engine must not be used afterwards.
func (e *Engine) Close() error {
	e.titles.Evict()
	e.sims.Evict()
	e.meta.Evict()
	return nil
}
