package similarity

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, dim int, items map[string][]float32, order []string) string {
	t.Helper()

	w := NewWriter(dim)
	for _, id := range order {
		require.NoError(t, w.Add(id, items[id]))
	}

	path := filepath.Join(t.TempDir(), "item_embeddings.bin")
	require.NoError(t, w.WriteFile(path))
	return path
}

func TestIndex_OpenAndQuery(t *testing.T) {
	items := map[string][]float32{
		"A": {2, 0}, // normalized to (1,0)
		"X": {0.9, float32(math.Sqrt(1 - 0.81))},
		"C": {0, 1},
	}
	path := buildIndex(t, 2, items, []string{"A", "X", "C"})

	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 2, idx.Dimension())
	require.Equal(t, 3, idx.Len())
	require.True(t, idx.Contains("A"))
	require.False(t, idx.Contains("Z"))

	got := idx.Neighbors("A", 10)
	require.Len(t, got, 2) // self excluded
	require.Equal(t, "X", got[0].ID)
	require.InDelta(t, 0.9, got[0].Score, 1e-5)
	require.Equal(t, "C", got[1].ID)
	require.InDelta(t, 0.0, got[1].Score, 1e-5)

	got = idx.Neighbors("A", 1)
	require.Len(t, got, 1)
	require.Equal(t, "X", got[0].ID)

	require.Nil(t, idx.Neighbors("Z", 5))
	require.Nil(t, idx.Neighbors("A", 0))
}

func TestIndex_NeighborTiesPreserveRowOrder(t *testing.T) {
	// B and C are identical vectors; B was added first.
	items := map[string][]float32{
		"A": {1, 0},
		"B": {0, 1},
		"C": {0, 1},
	}
	path := buildIndex(t, 2, items, []string{"A", "B", "C"})

	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	got := idx.Neighbors("A", 2)
	require.Equal(t, "B", got[0].ID)
	require.Equal(t, "C", got[1].ID)
}

func TestWriter_Validation(t *testing.T) {
	w := NewWriter(2)
	require.NoError(t, w.Add("A", []float32{1, 0}))
	require.Error(t, w.Add("A", []float32{0, 1}), "duplicate identifier")
	require.Error(t, w.Add("B", []float32{1, 2, 3}), "dimension mismatch")
	require.Error(t, w.Add("", []float32{1, 0}), "empty identifier")
}

func TestOpen_Malformed(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		return path
	}

	t.Run("too short", func(t *testing.T) {
		_, err := Open(write("short.bin", []byte("tiny")))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := make([]byte, headerSize)
		binary.LittleEndian.PutUint32(data[0:4], 0xDEADBEEF)
		_, err := Open(write("magic.bin", data))
		require.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("bad version", func(t *testing.T) {
		data := make([]byte, headerSize)
		binary.LittleEndian.PutUint32(data[0:4], magicNumber)
		binary.LittleEndian.PutUint32(data[4:8], 99)
		_, err := Open(write("version.bin", data))
		require.ErrorIs(t, err, ErrBadVersion)
	})

	t.Run("forged row count", func(t *testing.T) {
		// Zero dimension with a huge count passes no-overflow offset
		// arithmetic; the loader must reject it before sizing the
		// identifier table.
		data := make([]byte, headerSize)
		binary.LittleEndian.PutUint32(data[0:4], magicNumber)
		binary.LittleEndian.PutUint32(data[4:8], formatVersion)
		binary.LittleEndian.PutUint32(data[8:12], 0)
		binary.LittleEndian.PutUint64(data[16:24], 1<<62)
		binary.LittleEndian.PutUint64(data[24:32], headerSize)
		_, err := Open(write("forged.bin", data))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("row count exceeds table space", func(t *testing.T) {
		data := make([]byte, headerSize+8)
		binary.LittleEndian.PutUint32(data[0:4], magicNumber)
		binary.LittleEndian.PutUint32(data[4:8], formatVersion)
		binary.LittleEndian.PutUint32(data[8:12], 2)
		binary.LittleEndian.PutUint64(data[16:24], 1<<40)
		binary.LittleEndian.PutUint64(data[24:32], headerSize+8)
		_, err := Open(write("overcount.bin", data))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("vector block size mismatch", func(t *testing.T) {
		// One dim-2 row needs 8 vector bytes; the table offset claims zero.
		data := make([]byte, headerSize+8)
		binary.LittleEndian.PutUint32(data[0:4], magicNumber)
		binary.LittleEndian.PutUint32(data[4:8], formatVersion)
		binary.LittleEndian.PutUint32(data[8:12], 2)
		binary.LittleEndian.PutUint64(data[16:24], 1)
		binary.LittleEndian.PutUint64(data[24:32], headerSize)
		_, err := Open(write("mismatch.bin", data))
		require.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("truncated vectors", func(t *testing.T) {
		data := make([]byte, headerSize)
		binary.LittleEndian.PutUint32(data[0:4], magicNumber)
		binary.LittleEndian.PutUint32(data[4:8], formatVersion)
		binary.LittleEndian.PutUint32(data[8:12], 4)
		binary.LittleEndian.PutUint64(data[16:24], 100) // claims 100 rows
		binary.LittleEndian.PutUint64(data[24:32], headerSize+100*4*4)
		_, err := Open(write("trunc.bin", data))
		require.ErrorIs(t, err, ErrTruncated)
	})
}

func TestOpen_EmptyIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, NewWriter(8).WriteFile(path))

	idx, err := Open(path)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 0, idx.Len())
	require.Nil(t, idx.Neighbors("anything", 5))
}
