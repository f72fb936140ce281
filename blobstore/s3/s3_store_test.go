package s3

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlob_ReadRangeEmpty(t *testing.T) {
	readAll := func(t *testing.T, b *s3Blob, off, length int64) []byte {
		t.Helper()
		rc, err := b.ReadRange(context.Background(), off, length)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return data
	}

	t.Run("zero-byte object", func(t *testing.T) {
		b := &s3Blob{bucket: "b", key: "k", size: 0}
		require.Empty(t, readAll(t, b, 0, 0))
	})

	t.Run("zero length", func(t *testing.T) {
		b := &s3Blob{bucket: "b", key: "k", size: 10}
		require.Empty(t, readAll(t, b, 3, 0))
	})

	t.Run("offset past end", func(t *testing.T) {
		b := &s3Blob{bucket: "b", key: "k", size: 10}
		require.Empty(t, readAll(t, b, 10, 4))
	})
}
