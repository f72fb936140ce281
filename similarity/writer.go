package similarity

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// Writer accumulates identifier/vector pairs and serializes them into a
// similarity artifact. Vectors are L2-normalized on Add, so queries reduce
// to dot products and scores are cosine similarities in [-1,1].
//
// The offline batch job is the canonical producer; Writer mirrors its
// output and backs the test fixtures.
type Writer struct {
	dim  int
	ids  []string
	rows map[string]struct{}
	vecs []float32
}

// NewWriter creates a Writer for vectors of the given dimension.
func NewWriter(dimension int) *Writer {
	return &Writer{
		dim:  dimension,
		rows: make(map[string]struct{}),
	}
}

// Add appends one identifier with its vector.
func (w *Writer) Add(id string, vec []float32) error {
	if id == "" {
		return fmt.Errorf("similarity: empty identifier")
	}
	if len(id) > math.MaxUint16 {
		return fmt.Errorf("similarity: identifier %q too long", id[:32])
	}
	if len(vec) != w.dim {
		return fmt.Errorf("similarity: vector for %q has dimension %d, want %d", id, len(vec), w.dim)
	}
	if _, dup := w.rows[id]; dup {
		return fmt.Errorf("similarity: duplicate identifier %q", id)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)

	w.rows[id] = struct{}{}
	w.ids = append(w.ids, id)
	for _, v := range vec {
		if norm > 0 {
			w.vecs = append(w.vecs, float32(float64(v)/norm))
		} else {
			w.vecs = append(w.vecs, 0)
		}
	}
	return nil
}

// WriteFile serializes the artifact to path via temp file and rename.
func (w *Writer) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sim-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	if err := w.encode(bw); err != nil {
		tmp.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (w *Writer) encode(bw *bufio.Writer) error {
	count := uint64(len(w.ids))
	idTableOff := uint64(headerSize) + count*uint64(w.dim)*4

	for _, v := range []any{
		magicNumber,
		formatVersion,
		uint32(w.dim),
		uint32(0), // reserved
		count,
		idTableOff,
	} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, w.vecs); err != nil {
		return err
	}

	for _, id := range w.ids {
		if err := binary.Write(bw, binary.LittleEndian, uint16(len(id))); err != nil {
			return err
		}
		if _, err := bw.WriteString(id); err != nil {
			return err
		}
	}
	return nil
}
