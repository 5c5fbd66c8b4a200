package services

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"path"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"overlay-service/internal/metrics"
)

// MaskBlobStore is the slice of blob storage the mask gateway needs.
type MaskBlobStore interface {
	GetIfExists(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// MaskService is the persistence gateway for the auto-exposure mask bitmap.
// The mask is stored as a PNG addressed by the background image it belongs
// to, and a save whose dimensions do not match that image is rejected.
type MaskService struct {
	blobs   MaskBlobStore
	key     string
	imageW  int
	imageH  int
	metrics *metrics.Metrics
	log     zerolog.Logger

	gate WriteGate
}

// NewMaskService creates the mask gateway for the named background image.
func NewMaskService(blobs MaskBlobStore, imageName string, imageW, imageH int, m *metrics.Metrics, log zerolog.Logger) *MaskService {
	return &MaskService{
		blobs:   blobs,
		key:     path.Join("masks", imageName+".png"),
		imageW:  imageW,
		imageH:  imageH,
		metrics: m,
		log:     log,
	}
}

// Load retrieves the stored mask PNG, reporting absence with found=false.
func (s *MaskService) Load(ctx context.Context) ([]byte, bool, error) {
	return s.blobs.GetIfExists(ctx, s.key)
}

// Save validates and persists a mask PNG. Saves are serialized through the
// write gate so interleaved requests never corrupt the stored bitmap.
func (s *MaskService) Save(ctx context.Context, data []byte) error {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "mask payload is not a PNG")
	}
	if cfg.Width != s.imageW || cfg.Height != s.imageH {
		return errors.Errorf("mask size %dx%d does not match background %dx%d",
			cfg.Width, cfg.Height, s.imageW, s.imageH)
	}

	start := time.Now()
	err = s.gate.Do(ctx, func(ctx context.Context) error {
		return s.blobs.Put(ctx, s.key, bytes.NewReader(data), int64(len(data)), "image/png")
	})
	s.metrics.RecordSave("mask", float64(time.Since(start).Milliseconds()), err)
	if err != nil {
		s.log.Error().Err(err).Str("key", s.key).Msg("mask save failed")
		return err
	}
	s.log.Info().Str("key", s.key).Msg("mask saved")
	return nil
}
