// Package blobstore provides storage abstraction for BookBridge's
// read-only catalog artifacts.
//
// The asset manager consumes this interface to verify, list and download
// artifacts; it never writes back to the remote store.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with mmap-backed reads
//   - MemoryStore: in-memory store for tests
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible object stores
//
// Implement BlobStore to support a different backend (e.g. GCS):
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
