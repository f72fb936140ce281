// Package assets manages the lifecycle of the three read-only catalog
// artifacts: the title index object, the similarity index object, and the
// metadata shard collection.
//
// Artifacts live in remote object storage (any blobstore.BlobStore) and
// are cached on the local filesystem. EnsureAssets is idempotent and
// cache-aware: with a warm cache and force unset it performs zero remote
// calls. Downloads are atomic (temp file + rename) and cold-cache priming
// is serialized with an advisory file lock, so concurrent processes never
// write the same artifact path.
package assets
