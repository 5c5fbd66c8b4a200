package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"overlay-service/internal/models"
)

// OverlayRepository defines the database operations for overlay documents
// and editor settings.
type OverlayRepository interface {
	Get(name string) (*models.OverlayRecord, error)
	Save(rec *models.OverlayRecord) error
	GetSettings(profile string) (*models.SettingsRecord, error)
	SaveSettings(rec *models.SettingsRecord) error
}

// OverlayRepositoryImpl provides OverlayRepository on a GORM connection.
type OverlayRepositoryImpl struct {
	db *gorm.DB
}

// NewOverlayRepository creates a new OverlayRepositoryImpl.
func NewOverlayRepository(db *gorm.DB) *OverlayRepositoryImpl {
	return &OverlayRepositoryImpl{db: db}
}

// Get retrieves the overlay record with the given name.
func (r *OverlayRepositoryImpl) Get(name string) (*models.OverlayRecord, error) {
	var rec models.OverlayRecord
	err := r.db.First(&rec, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts an overlay record.
func (r *OverlayRepositoryImpl) Save(rec *models.OverlayRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		UpdateAll: true,
	}).Create(rec).Error
}

// GetSettings retrieves the editor settings record for a profile.
func (r *OverlayRepositoryImpl) GetSettings(profile string) (*models.SettingsRecord, error) {
	var rec models.SettingsRecord
	err := r.db.First(&rec, "profile = ?", profile).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SaveSettings upserts an editor settings record.
func (r *OverlayRepositoryImpl) SaveSettings(rec *models.SettingsRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "profile"}},
		UpdateAll: true,
	}).Create(rec).Error
}
