// Package similarity provides the memory-mapped item-similarity index and
// the multi-seed rerank merge built on top of it.
//
// The artifact is produced offline: L2-normalized item vectors plus an
// identifier table behind a small versioned header. Open maps it
// read-only; queries are cosine top-n scans. Rerank folds the per-seed
// neighbor lists into one deterministic top-K.
package similarity
