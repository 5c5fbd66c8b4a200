package repository

import (
	"gorm.io/gorm"

	"overlay-service/internal/models"
)

// FontRepositoryImpl stores font asset metadata in the database.
type FontRepositoryImpl struct {
	db *gorm.DB
}

// NewFontRepository creates a new FontRepositoryImpl.
func NewFontRepository(db *gorm.DB) *FontRepositoryImpl {
	return &FontRepositoryImpl{db: db}
}

// Create inserts a font asset row.
func (r *FontRepositoryImpl) Create(f *models.FontAsset) error {
	return r.db.Create(f).Error
}

// GetByName retrieves a font asset by its unique name.
func (r *FontRepositoryImpl) GetByName(name string) (*models.FontAsset, error) {
	var f models.FontAsset
	err := r.db.First(&f, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List retrieves all font assets ordered by name.
func (r *FontRepositoryImpl) List() ([]models.FontAsset, error) {
	var fonts []models.FontAsset
	err := r.db.Order("name").Find(&fonts).Error
	return fonts, err
}

// DeleteByName removes a font asset row.
func (r *FontRepositoryImpl) DeleteByName(name string) error {
	return r.db.Delete(&models.FontAsset{}, "name = ?", name).Error
}

// ImageRepositoryImpl stores image asset metadata in the database.
type ImageRepositoryImpl struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepositoryImpl.
func NewImageRepository(db *gorm.DB) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

// Create inserts an image asset row.
func (r *ImageRepositoryImpl) Create(a *models.ImageAsset) error {
	return r.db.Create(a).Error
}

// GetByName retrieves an image asset by its unique name.
func (r *ImageRepositoryImpl) GetByName(name string) (*models.ImageAsset, error) {
	var a models.ImageAsset
	err := r.db.First(&a, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// List retrieves all image assets ordered by name.
func (r *ImageRepositoryImpl) List() ([]models.ImageAsset, error) {
	var imgs []models.ImageAsset
	err := r.db.Order("name").Find(&imgs).Error
	return imgs, err
}

// DeleteByName removes an image asset row.
func (r *ImageRepositoryImpl) DeleteByName(name string) error {
	return r.db.Delete(&models.ImageAsset{}, "name = ?", name).Error
}
