package assets

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// ImageRepository stores image asset metadata.
type ImageRepository interface {
	Create(a *models.ImageAsset) error
	GetByName(name string) (*models.ImageAsset, error)
	List() ([]models.ImageAsset, error)
	DeleteByName(name string) error
}

var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
}

// ImageRegistry manages the images available to image fields.
type ImageRegistry struct {
	repo    ImageRepository
	blobs   BlobStore
	maxSize int64
	log     zerolog.Logger
}

// NewImageRegistry creates an image registry. Uploads larger than maxSize
// bytes are rejected.
func NewImageRegistry(repo ImageRepository, blobs BlobStore, maxSize int64, log zerolog.Logger) *ImageRegistry {
	return &ImageRegistry{repo: repo, blobs: blobs, maxSize: maxSize, log: log}
}

// List returns all registered images.
func (r *ImageRegistry) List() ([]models.ImageAsset, error) {
	imgs, err := r.repo.List()
	if err != nil {
		return nil, errors.Wrap(err, "listing images")
	}
	return imgs, nil
}

// Upload accepts a single image file, enforcing the content-type and size
// policy. A rejected upload leaves the registry unchanged.
func (r *ImageRegistry) Upload(ctx context.Context, filename, contentType string, src io.Reader, size int64) (*models.ImageAsset, error) {
	if size > r.maxSize {
		return nil, errors.Wrapf(overlay.ErrFileTooLarge, "%d bytes exceeds the %d byte limit", size, r.maxSize)
	}
	if !allowedImageTypes[contentType] {
		return nil, errors.Wrapf(overlay.ErrUnsupportedFormat, "content type %q", contentType)
	}
	if _, err := r.repo.GetByName(filename); err == nil {
		return nil, overlay.ErrDuplicateName
	}

	id := uuid.New()
	key := path.Join("images", id.String()+filepath.Ext(filename))
	if err := r.blobs.Put(ctx, key, src, size, contentType); err != nil {
		return nil, errors.Wrap(err, "storing image")
	}
	a := &models.ImageAsset{
		ID:          id,
		Name:        filename,
		ContentType: contentType,
		Size:        size,
		StorageKey:  key,
		UploadedAt:  time.Now(),
	}
	if err := r.repo.Create(a); err != nil {
		r.blobs.Remove(ctx, key)
		return nil, errors.Wrap(err, "saving image metadata")
	}
	r.log.Info().Str("image", a.Name).Int64("size", size).Msg("registered uploaded image")
	return a, nil
}

// Read returns the payload of a stored image.
func (r *ImageRegistry) Read(ctx context.Context, name string) (*models.ImageAsset, []byte, error) {
	a, err := r.repo.GetByName(name)
	if err != nil {
		return nil, nil, overlay.ErrNotFound
	}
	data, err := r.blobs.Get(ctx, a.StorageKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading image blob")
	}
	return a, data, nil
}

// Remove deletes the named image. It fails with ErrAssetInUse while an
// image field still references it.
func (r *ImageRegistry) Remove(ctx context.Context, name string, inUse func(name string) bool) error {
	a, err := r.repo.GetByName(name)
	if err != nil {
		return overlay.ErrNotFound
	}
	if inUse != nil && inUse(name) {
		return overlay.ErrAssetInUse
	}
	if err := r.blobs.Remove(ctx, a.StorageKey); err != nil {
		r.log.Warn().Err(err).Str("image", name).Msg("could not remove image blob")
	}
	if err := r.repo.DeleteByName(name); err != nil {
		return errors.Wrap(err, "deleting image metadata")
	}
	return nil
}
