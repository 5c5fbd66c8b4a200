package models

import (
	"time"

	"github.com/google/uuid"
)

// FontAsset represents a font known to the editor, either shipped with the
// platform or uploaded by the operator.
type FontAsset struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"uniqueIndex" json:"name"`
	Path         string    `json:"path"`
	UserUploaded bool      `json:"user_uploaded"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// ImageAsset represents an uploaded overlay image stored in object storage.
type ImageAsset struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	StorageKey  string    `json:"storage_key"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
