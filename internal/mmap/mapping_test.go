package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapping_OpenReadClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.bin")
	content := []byte("bookbridge artifact payload")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)

	require.Equal(t, len(content), m.Size())
	require.Equal(t, content, m.Bytes())

	buf := make([]byte, 8)
	n, err := m.ReadAt(buf, 11)
	require.NoError(t, err)
	require.Equal(t, "artifact", string(buf[:n]))

	require.NoError(t, m.Advise(AccessRandom))

	require.NoError(t, m.Close())
	require.NoError(t, m.Close()) // idempotent
	require.Nil(t, m.Bytes())

	_, err = m.ReadAt(buf, 0)
	require.ErrorIs(t, err, ErrClosed)
}

func TestMapping_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 0, m.Size())
	require.NoError(t, m.Close())
}

func TestMapping_MissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
}
