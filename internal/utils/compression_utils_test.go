package utils

import (
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipCompress(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecompressResponseGzip(t *testing.T) {
	original := []byte(`{"usage":{"total_tokens":42}}`)
	compressed := gzipCompress(t, original)

	result, err := DecompressResponse("gzip", compressed)
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestDecompressResponseBrotli(t *testing.T) {
	original := []byte(`{"choices":[]}`)
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	_, err := w.Write(original)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	result, err := DecompressResponse("br", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestDecompressResponseZstd(t *testing.T) {
	original := []byte(`{"model":"qwen2.5"}`)
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = w.Write(original)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	result, err := DecompressResponse("zstd", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, original, result)
}

func TestDecompressResponsePassthrough(t *testing.T) {
	data := []byte("plain body")

	t.Run("no encoding", func(t *testing.T) {
		result, err := DecompressResponse("", data)
		require.NoError(t, err)
		assert.Equal(t, data, result)
	})

	t.Run("unknown encoding", func(t *testing.T) {
		result, err := DecompressResponse("snappy", data)
		require.NoError(t, err)
		assert.Equal(t, data, result)
	})

	t.Run("corrupted data falls back to original", func(t *testing.T) {
		result, err := DecompressResponse("gzip", data)
		require.NoError(t, err)
		assert.Equal(t, data, result)
	})

	t.Run("empty body", func(t *testing.T) {
		result, err := DecompressResponse("gzip", nil)
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}
