// Package bookmeta loads the metadata shard artifact and resolves catalog
// identifiers into frontend-friendly display records.
package bookmeta
