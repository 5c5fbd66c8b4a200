package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"overlay-service/internal/metrics"
	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
	"overlay-service/internal/repository"
)

const settingsProfile = "editor"

// OverlayService is the persistence gateway for overlay documents and
// editor settings. It is the only component that writes them; writes to the
// same resource are serialized through a per-resource gate.
type OverlayService struct {
	repo    repository.OverlayRepository
	name    string
	metrics *metrics.Metrics
	log     zerolog.Logger

	overlayGate  WriteGate
	settingsGate WriteGate
}

// NewOverlayService creates the gateway for the overlay named after its
// background image.
func NewOverlayService(repo repository.OverlayRepository, name string, m *metrics.Metrics, log zerolog.Logger) *OverlayService {
	return &OverlayService{repo: repo, name: name, metrics: m, log: log}
}

// LoadOverlay retrieves the overlay document. When nothing has been saved
// yet an empty document with fresh defaults is returned.
func (s *OverlayService) LoadOverlay(ctx context.Context) (*models.OverlayDocument, error) {
	rec, err := s.repo.Get(s.name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.OverlayDocument{Defaults: models.NewOverlayDefaults()}, nil
		}
		return nil, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	doc := &models.OverlayDocument{}
	if err := json.Unmarshal(rec.Defaults, &doc.Defaults); err != nil {
		return nil, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	if err := json.Unmarshal(rec.Fields, &doc.Fields); err != nil {
		return nil, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	return doc, nil
}

// SaveOverlay persists the overlay document. The caller passes a snapshot it
// exclusively owns; the document must not be mutated while the save runs.
// In-memory state is never touched, so a failed save can simply be retried.
func (s *OverlayService) SaveOverlay(ctx context.Context, doc *models.OverlayDocument) error {
	defaults, err := json.Marshal(doc.Defaults)
	if err != nil {
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}

	start := time.Now()
	err = s.overlayGate.Do(ctx, func(ctx context.Context) error {
		return s.repo.Save(&models.OverlayRecord{
			Name:     s.name,
			Defaults: defaults,
			Fields:   fields,
		})
	})
	s.metrics.RecordSave("overlay", float64(time.Since(start).Milliseconds()), err)
	if err != nil {
		s.log.Error().Err(err).Str("overlay", s.name).Msg("overlay save failed")
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	s.metrics.SetFieldCount(len(doc.Fields))
	s.log.Info().Str("overlay", s.name).Int("fields", len(doc.Fields)).Msg("overlay saved")
	return nil
}

// LoadSettings retrieves the editor settings, or the defaults when none
// have been saved yet.
func (s *OverlayService) LoadSettings(ctx context.Context) (models.EditorSettings, error) {
	rec, err := s.repo.GetSettings(settingsProfile)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewEditorSettings(), nil
		}
		return models.EditorSettings{}, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	var settings models.EditorSettings
	if err := json.Unmarshal(rec.Data, &settings); err != nil {
		return models.EditorSettings{}, errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	return settings, nil
}

// SaveSettings persists the editor settings, independently of the overlay
// content.
func (s *OverlayService) SaveSettings(ctx context.Context, settings models.EditorSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	start := time.Now()
	err = s.settingsGate.Do(ctx, func(ctx context.Context) error {
		return s.repo.SaveSettings(&models.SettingsRecord{
			Profile: settingsProfile,
			Data:    data,
		})
	})
	s.metrics.RecordSave("settings", float64(time.Since(start).Milliseconds()), err)
	if err != nil {
		s.log.Error().Err(err).Msg("settings save failed")
		return errors.Wrap(overlay.ErrPersistence, err.Error())
	}
	return nil
}
