package models

import (
	"time"

	"gorm.io/datatypes"
)

// OverlayRecord is the database row holding a serialized overlay document,
// keyed by the background image it belongs to.
type OverlayRecord struct {
	Name      string         `gorm:"primaryKey" json:"name"`
	Defaults  datatypes.JSON `json:"settings"`
	Fields    datatypes.JSON `json:"fields"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// SettingsRecord is the database row holding the serialized editor settings.
// There is one row per editor profile; the service uses a single profile.
type SettingsRecord struct {
	Profile   string         `gorm:"primaryKey" json:"profile"`
	Data      datatypes.JSON `json:"data"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
