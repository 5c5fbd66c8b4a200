package assets

import (
	"bytes"
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// memImageRepo is an in-memory ImageRepository.
type memImageRepo struct {
	images    map[string]*models.ImageAsset
	createErr error
}

func newMemImageRepo() *memImageRepo {
	return &memImageRepo{images: map[string]*models.ImageAsset{}}
}

func (m *memImageRepo) Create(a *models.ImageAsset) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.images[a.Name] = a
	return nil
}

func (m *memImageRepo) GetByName(name string) (*models.ImageAsset, error) {
	a, ok := m.images[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func (m *memImageRepo) List() ([]models.ImageAsset, error) {
	out := make([]models.ImageAsset, 0, len(m.images))
	for _, a := range m.images {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memImageRepo) DeleteByName(name string) error {
	delete(m.images, name)
	return nil
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	repo := newMemImageRepo()
	blobs := newMemBlobStore()
	r := NewImageRegistry(repo, blobs, 1024, zerolog.Nop())

	payload := []byte("fake image bytes")
	a, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	assert.Equal(t, "logo.png", a.Name)
	assert.Equal(t, "image/png", a.ContentType)
	assert.Equal(t, payload, blobs.blobs[a.StorageKey])
}

func TestUploadImagePolicy(t *testing.T) {
	ctx := context.Background()
	r := NewImageRegistry(newMemImageRepo(), newMemBlobStore(), 100, zerolog.Nop())

	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     error
	}{
		{"oversized file", "big.png", "image/png", 101, overlay.ErrFileTooLarge},
		{"svg rejected", "vector.svg", "image/svg+xml", 10, overlay.ErrUnsupportedFormat},
		{"text rejected", "notes.txt", "text/plain", 10, overlay.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Upload(ctx, tt.filename, tt.contentType, bytes.NewReader(nil), tt.size)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Size is checked before content type; an oversized svg reports too large.
	_, err := r.Upload(ctx, "big.svg", "image/svg+xml", bytes.NewReader(nil), 500)
	assert.ErrorIs(t, err, overlay.ErrFileTooLarge)
}

func TestUploadImageDuplicateName(t *testing.T) {
	ctx := context.Background()
	r := NewImageRegistry(newMemImageRepo(), newMemBlobStore(), 1024, zerolog.Nop())

	_, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader([]byte("a")), 1)
	require.NoError(t, err)

	_, err = r.Upload(ctx, "logo.png", "image/png", bytes.NewReader([]byte("b")), 1)
	assert.ErrorIs(t, err, overlay.ErrDuplicateName)
}

func TestUploadImageCompensatesOnMetadataFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemImageRepo()
	blobs := newMemBlobStore()
	r := NewImageRegistry(repo, blobs, 1024, zerolog.Nop())

	repo.createErr = errors.New("db down")
	_, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader([]byte("a")), 1)
	require.Error(t, err)
	assert.Empty(t, blobs.blobs)
}

func TestReadImage(t *testing.T) {
	ctx := context.Background()
	r := NewImageRegistry(newMemImageRepo(), newMemBlobStore(), 1024, zerolog.Nop())

	payload := []byte("pixels")
	_, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader(payload), int64(len(payload)))
	require.NoError(t, err)

	a, data, err := r.Read(ctx, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "logo.png", a.Name)
	assert.Equal(t, payload, data)

	_, _, err = r.Read(ctx, "missing.png")
	assert.ErrorIs(t, err, overlay.ErrNotFound)
}

func TestRemoveImage(t *testing.T) {
	ctx := context.Background()
	repo := newMemImageRepo()
	blobs := newMemBlobStore()
	r := NewImageRegistry(repo, blobs, 1024, zerolog.Nop())

	_, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader([]byte("a")), 1)
	require.NoError(t, err)

	err = r.Remove(ctx, "logo.png", func(string) bool { return true })
	assert.ErrorIs(t, err, overlay.ErrAssetInUse)

	require.NoError(t, r.Remove(ctx, "logo.png", func(string) bool { return false }))
	assert.Empty(t, repo.images)
	assert.Empty(t, blobs.blobs)

	err = r.Remove(ctx, "logo.png", nil)
	assert.ErrorIs(t, err, overlay.ErrNotFound)
}

func TestRemoveImageChecksReferencesAtRemovalTime(t *testing.T) {
	ctx := context.Background()
	repo := newMemImageRepo()
	r := NewImageRegistry(repo, newMemBlobStore(), 1024, zerolog.Nop())

	_, err := r.Upload(ctx, "logo.png", "image/png", bytes.NewReader([]byte("a")), 1)
	require.NoError(t, err)

	// A field starts referencing the image after the delete was requested;
	// the live check still protects it.
	referenced := false
	check := func(name string) bool {
		assert.Equal(t, "logo.png", name)
		return referenced
	}
	referenced = true

	err = r.Remove(ctx, "logo.png", check)
	assert.ErrorIs(t, err, overlay.ErrAssetInUse)
	_, err = repo.GetByName("logo.png")
	assert.NoError(t, err)
}
