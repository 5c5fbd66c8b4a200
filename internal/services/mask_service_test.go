package services

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memMaskBlobs is an in-memory MaskBlobStore.
type memMaskBlobs struct {
	blobs map[string][]byte
}

func newMemMaskBlobs() *memMaskBlobs {
	return &memMaskBlobs{blobs: map[string][]byte{}}
}

func (m *memMaskBlobs) GetIfExists(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := m.blobs[key]
	return data, ok, nil
}

func (m *memMaskBlobs) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.blobs[key] = data
	return nil
}

func encodeTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestMaskServiceRoundTrip(t *testing.T) {
	ctx := context.Background()
	blobs := newMemMaskBlobs()
	s := NewMaskService(blobs, "overlay1", 32, 18, testMetrics, zerolog.Nop())

	_, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	payload := encodeTestPNG(t, 32, 18)
	require.NoError(t, s.Save(ctx, payload))
	assert.Contains(t, blobs.blobs, "masks/overlay1.png")

	got, found, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload, got)
}

func TestMaskServiceRejectsWrongDimensions(t *testing.T) {
	ctx := context.Background()
	blobs := newMemMaskBlobs()
	s := NewMaskService(blobs, "overlay1", 32, 18, testMetrics, zerolog.Nop())

	err := s.Save(ctx, encodeTestPNG(t, 16, 9))
	assert.Error(t, err)
	assert.Empty(t, blobs.blobs)
}

func TestMaskServiceRejectsNonPNG(t *testing.T) {
	s := NewMaskService(newMemMaskBlobs(), "overlay1", 32, 18, testMetrics, zerolog.Nop())
	err := s.Save(context.Background(), []byte("not a png"))
	assert.Error(t, err)
}
