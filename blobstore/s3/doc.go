// Package s3 implements blobstore.BlobStore for Amazon S3.
//
// Reads use ranged GETs so the asset manager can stream large artifacts
// without buffering them in memory; writes go through the S3 transfer
// manager for multipart uploads.
package s3
