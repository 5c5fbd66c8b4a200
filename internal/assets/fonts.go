package assets

import (
	"bytes"
	"context"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mholt/archives"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/sfnt"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// FontRepository stores font asset metadata.
type FontRepository interface {
	Create(f *models.FontAsset) error
	GetByName(name string) (*models.FontAsset, error)
	List() ([]models.FontAsset, error)
	DeleteByName(name string) error
}

// FontValidator checks that a byte payload is a parseable font.
type FontValidator func(data []byte) error

// SfntValidator parses the payload as a TTF/OTF font.
func SfntValidator(data []byte) error {
	_, err := sfnt.Parse(data)
	return err
}

// FontRegistry manages the fonts available to text fields: the built-in
// platform fonts plus bundles uploaded by the operator.
type FontRegistry struct {
	repo     FontRepository
	blobs    BlobStore
	validate FontValidator
	log      zerolog.Logger
}

// NewFontRegistry creates a font registry using the sfnt parser to validate
// uploaded files.
func NewFontRegistry(repo FontRepository, blobs BlobStore, log zerolog.Logger) *FontRegistry {
	return &FontRegistry{repo: repo, blobs: blobs, validate: SfntValidator, log: log}
}

// List returns all registered fonts.
func (r *FontRegistry) List() ([]models.FontAsset, error) {
	fonts, err := r.repo.List()
	if err != nil {
		return nil, errors.Wrap(err, "listing fonts")
	}
	return fonts, nil
}

// AddSystemFont registers a built-in font available at the given path on
// the host. It fails with ErrDuplicateName if the name is taken.
func (r *FontRegistry) AddSystemFont(name, fontPath string) (*models.FontAsset, error) {
	if _, err := r.repo.GetByName(name); err == nil {
		return nil, overlay.ErrDuplicateName
	}
	f := &models.FontAsset{
		ID:           uuid.New(),
		Name:         name,
		Path:         fontPath,
		UserUploaded: false,
		UploadedAt:   time.Now(),
	}
	if err := r.repo.Create(f); err != nil {
		return nil, errors.Wrap(err, "saving font metadata")
	}
	return f, nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

type bundleEntry struct {
	name string
	data []byte
}

// UploadBundle registers every font in the uploaded archive. The archive
// must contain only font files at its top level: any subdirectory fails the
// whole upload with ErrInvalidBundle, any entry that is not a parseable
// TTF/OTF fails it with ErrUnsupportedFormat. Nothing is registered unless
// the entire bundle validates.
func (r *FontRegistry) UploadBundle(ctx context.Context, archivePath string) ([]models.FontAsset, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return nil, errors.Wrap(overlay.ErrInvalidBundle, err.Error())
	}

	dirEntries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(overlay.ErrInvalidBundle, err.Error())
	}

	var toRegister []bundleEntry
	seen := make(map[string]bool)
	for _, entry := range dirEntries {
		if entry.IsDir() {
			return nil, errors.Wrapf(overlay.ErrInvalidBundle, "bundle contains directory %q", entry.Name())
		}
		if !isFontFile(entry.Name()) {
			return nil, errors.Wrapf(overlay.ErrUnsupportedFormat, "%q is not a font file", entry.Name())
		}
		data, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(overlay.ErrInvalidBundle, "reading %q: %v", entry.Name(), err)
		}
		if err := r.validate(data); err != nil {
			return nil, errors.Wrapf(overlay.ErrUnsupportedFormat, "parsing %q: %v", entry.Name(), err)
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if seen[name] {
			return nil, errors.Wrapf(overlay.ErrDuplicateName, "font %q appears twice in bundle", name)
		}
		seen[name] = true
		if _, err := r.repo.GetByName(name); err == nil {
			return nil, errors.Wrapf(overlay.ErrDuplicateName, "font %q", name)
		}
		toRegister = append(toRegister, bundleEntry{name: entry.Name(), data: data})
	}
	if len(toRegister) == 0 {
		return nil, errors.Wrap(overlay.ErrInvalidBundle, "bundle contains no fonts")
	}

	var registered []models.FontAsset
	for _, e := range toRegister {
		key := path.Join("fonts", e.name)
		if err := r.blobs.Put(ctx, key, bytes.NewReader(e.data), int64(len(e.data)), "font/sfnt"); err != nil {
			return registered, errors.Wrap(err, "storing font")
		}
		f := &models.FontAsset{
			ID:           uuid.New(),
			Name:         strings.TrimSuffix(e.name, filepath.Ext(e.name)),
			Path:         key,
			UserUploaded: true,
			Size:         int64(len(e.data)),
			UploadedAt:   time.Now(),
		}
		if err := r.repo.Create(f); err != nil {
			// Keep store and metadata consistent on failure.
			r.blobs.Remove(ctx, key)
			return registered, errors.Wrap(err, "saving font metadata")
		}
		r.log.Info().Str("font", f.Name).Msg("registered uploaded font")
		registered = append(registered, *f)
	}
	return registered, nil
}

// Remove deletes the named font. It fails with ErrAssetInUse when a text
// field still references the font; references are never silently orphaned.
func (r *FontRegistry) Remove(ctx context.Context, name string, inUse func(name string) bool) error {
	f, err := r.repo.GetByName(name)
	if err != nil {
		return overlay.ErrNotFound
	}
	if inUse != nil && inUse(name) {
		return overlay.ErrAssetInUse
	}
	if f.UserUploaded {
		if err := r.blobs.Remove(ctx, f.Path); err != nil {
			r.log.Warn().Err(err).Str("font", name).Msg("could not remove font blob")
		}
	}
	if err := r.repo.DeleteByName(name); err != nil {
		return errors.Wrap(err, "deleting font metadata")
	}
	return nil
}

// ReadUploaded returns the payload of a user-uploaded font file from blob
// storage.
func (r *FontRegistry) ReadUploaded(ctx context.Context, name string) ([]byte, error) {
	f, err := r.repo.GetByName(name)
	if err != nil {
		return nil, overlay.ErrNotFound
	}
	if !f.UserUploaded {
		return nil, errors.Wrapf(overlay.ErrNotFound, "font %q is a system font", name)
	}
	return r.blobs.Get(ctx, f.Path)
}
