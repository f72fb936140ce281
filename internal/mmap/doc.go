// Package mmap provides read-only memory-mapped file access.
//
// The similarity artifact can be hundreds of megabytes; mapping it keeps
// startup cost sub-linear in artifact size and lets concurrent requests
// share one copy of the pages.
//
//	m, err := mmap.Open("item_embeddings.bin")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// Unix uses mmap(2) with madvise(2) hints; Windows uses
// CreateFileMapping/MapViewOfFile and ignores hints. Mappings are safe for
// concurrent reads; callers must not touch Bytes() after Close.
package mmap
