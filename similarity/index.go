package similarity

import (
	"encoding/binary"
	"fmt"
	"sort"
	"unsafe"

	"github.com/hupe1980/bookbridge/internal/mmap"
)

// Scored pairs a catalog identifier with a similarity score.
type Scored struct {
	ID    string
	Score float32
}

// Index is a read-only, memory-mapped similarity index. Vectors stay in
// the mapping (zero-copy); only the identifier table is materialized.
// Safe for concurrent queries once opened.
type Index struct {
	m    *mmap.Mapping
	dim  int
	ids  []string
	rows map[string]uint32
	vecs []float32
}

// Open maps the similarity artifact at path and decodes its identifier
// table.
func Open(path string) (*Index, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	idx, err := load(m)
	if err != nil {
		m.Close()
		return nil, err
	}
	return idx, nil
}

func load(m *mmap.Mapping) (*Index, error) {
	data := m.Bytes()
	if len(data) < headerSize {
		return nil, ErrTruncated
	}

	if binary.LittleEndian.Uint32(data[0:4]) != magicNumber {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}

	h := fileHeader{
		dimension:  binary.LittleEndian.Uint32(data[8:12]),
		count:      binary.LittleEndian.Uint64(data[16:24]),
		idTableOff: binary.LittleEndian.Uint64(data[24:32]),
	}

	if h.dimension == 0 && h.count > 0 {
		return nil, ErrTruncated
	}
	if h.idTableOff < headerSize || h.idTableOff > uint64(len(data)) {
		return nil, ErrTruncated
	}

	// Bound count by the bytes actually present before it sizes any
	// allocation: each row needs dimension*4 vector bytes before the
	// table and at least a 2-byte length inside it. The division form
	// keeps a forged count from overflowing the row-size multiplication.
	vecSpace := h.idTableOff - uint64(headerSize)
	if h.count == 0 {
		if vecSpace != 0 {
			return nil, ErrTruncated
		}
	} else {
		if h.count > (uint64(len(data))-h.idTableOff)/2 {
			return nil, ErrTruncated
		}
		if vecSpace%h.count != 0 || vecSpace/h.count != uint64(h.dimension)*4 {
			return nil, ErrTruncated
		}
	}

	idx := &Index{
		m:    m,
		dim:  int(h.dimension),
		ids:  make([]string, 0, h.count),
		rows: make(map[string]uint32, h.count),
	}

	if vecSpace > 0 {
		idx.vecs = unsafe.Slice((*float32)(unsafe.Pointer(&data[headerSize])), int(h.count)*idx.dim)
	}

	off := h.idTableOff
	for row := uint64(0); row < h.count; row++ {
		if off+2 > uint64(len(data)) {
			return nil, ErrTruncated
		}
		n := uint64(binary.LittleEndian.Uint16(data[off : off+2]))
		off += 2
		if off+n > uint64(len(data)) {
			return nil, ErrTruncated
		}
		id := string(data[off : off+n])
		off += n

		idx.rows[id] = uint32(row)
		idx.ids = append(idx.ids, id)
	}

	// Neighbor queries touch every row; point lookups dominate after that.
	_ = m.Advise(mmap.AccessRandom)

	return idx, nil
}

// Close unmaps the artifact. The index must not be queried afterwards.
func (idx *Index) Close() error {
	return idx.m.Close()
}

// Dimension returns the vector dimensionality.
func (idx *Index) Dimension() int {
	return idx.dim
}

// Len returns the number of identifiers in the index.
func (idx *Index) Len() int {
	return len(idx.ids)
}

// Contains reports whether the identifier has a vector in the index.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.rows[id]
	return ok
}

// Neighbors returns the top-n most similar identifiers to id by cosine
// similarity, descending; score ties preserve row order. The identifier
// itself is excluded. An unknown identifier yields nil.
func (idx *Index) Neighbors(id string, n int) []Scored {
	row, ok := idx.rows[id]
	if !ok || n <= 0 {
		return nil
	}

	query := idx.vector(row)
	scored := make([]Scored, 0, len(idx.ids)-1)
	for r := range idx.ids {
		if uint32(r) == row {
			continue
		}
		scored = append(scored, Scored{ID: idx.ids[r], Score: dot(query, idx.vector(uint32(r)))})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

func (idx *Index) vector(row uint32) []float32 {
	start := int(row) * idx.dim
	return idx.vecs[start : start+idx.dim]
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
