// Package bookbridge resolves free-text book title candidates into a
// ranked, deduplicated list of catalog identifiers and enriched display
// records.
//
// The pipeline has three stages, each backed by a read-only artifact
// pulled from remote object storage and cached locally:
//
//	candidates --(title index)--> seed identifiers
//	seeds      --(similarity index)--> reranked top-K identifiers
//	ids        --(metadata shards)--> enriched records
//
// Construct an Engine over any blobstore.BlobStore backend:
//
//	store := s3.NewStore(client, "book-bridge", "")
//	engine := bookbridge.New(store,
//	    bookbridge.WithCacheDir("/var/cache/bookbridge"),
//	)
//	defer engine.Close()
//
//	records, err := engine.Recommend(ctx, candidates)
//
// Candidate generation (the language model) and the HTTP surface are
// external collaborators; this module covers matching, reranking and
// enrichment only.
package bookbridge
