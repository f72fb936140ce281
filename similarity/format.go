package similarity

import "errors"

const (
	// magicNumber identifies similarity artifacts (ASCII "BBV1").
	magicNumber uint32 = 0x42425631
	// formatVersion is the current artifact format version.
	formatVersion uint32 = 1

	// headerSize is the fixed byte length of the artifact header.
	// The vector block starts right after it, so float32 rows stay
	// 4-byte aligned within the page-aligned mapping.
	headerSize = 32
)

var (
	// ErrBadMagic is returned when the artifact is not a similarity index.
	ErrBadMagic = errors.New("similarity: invalid magic number")
	// ErrBadVersion is returned for unsupported format versions.
	ErrBadVersion = errors.New("similarity: unsupported format version")
	// ErrTruncated is returned when the artifact is shorter than its
	// header claims.
	ErrTruncated = errors.New("similarity: truncated artifact")
)

// fileHeader is the little-endian on-disk header.
//
//	offset  0: magic       uint32
//	offset  4: version     uint32
//	offset  8: dimension   uint32
//	offset 12: reserved    uint32
//	offset 16: count       uint64
//	offset 24: idTableOff  uint64 (from start of file)
//
// Vectors follow at headerSize as count*dimension float32 values; the
// identifier table (uint16 length-prefixed strings, one per row) sits at
// idTableOff.
type fileHeader struct {
	dimension  uint32
	count      uint64
	idTableOff uint64
}
