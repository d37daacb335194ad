package feed

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_RoundTrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	payload := bytes.Repeat([]byte(`{"accounts":[{"id":1,"username":"alice"}]}`), 100)

	compressed, err := c.Compress(payload)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(payload))

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, payload, out)
}

func TestZstdCompressor_EmptyInput(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	compressed, err := c.Compress(nil)
	require.NoError(t, err)

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestZstdCompressor_GarbageInput(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}
