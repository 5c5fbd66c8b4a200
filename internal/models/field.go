package models

import (
	"github.com/google/uuid"
)

// FieldKind distinguishes the two overlay element variants.
type FieldKind string

const (
	FieldKindText  FieldKind = "text"
	FieldKindImage FieldKind = "image"
)

// FieldSource records who defined a field. System fields are bound to live
// platform data and only their description, format and sample data may be
// edited; User fields are created freely in the editor.
type FieldSource string

const (
	FieldSourceSystem FieldSource = "System"
	FieldSourceUser   FieldSource = "User"
)

// FieldType selects which format grammar applies to a field's value.
type FieldType string

const (
	FieldTypeDate   FieldType = "Date"
	FieldTypeTime   FieldType = "Time"
	FieldTypeNumber FieldType = "Number"
	FieldTypeText   FieldType = "Text"
)

// Field represents one positioned overlay element, text or image, bound to
// live or sample data. Fields are serialized as part of the overlay document,
// ordered by ZIndex.
type Field struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Kind        FieldKind   `json:"kind"`
	Source      FieldSource `json:"source"`
	Description string      `json:"description"`
	Format      string      `json:"format"`
	SampleData  string      `json:"sample"`
	Type        FieldType   `json:"type"`

	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Opacity  int     `json:"opacity"`
	ZIndex   int     `json:"zindex"`

	// Text fields only.
	Label        string `json:"label,omitempty"`
	FontName     string `json:"fontname,omitempty"`
	FontSize     int    `json:"fontsize,omitempty"`
	FontColour   string `json:"fontcolour,omitempty"`
	StrokeColour string `json:"strokecolour,omitempty"`
	StrokeWidth  int    `json:"strokewidth,omitempty"`

	// Image fields only.
	ImageName string `json:"imagename,omitempty"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`

	// ExpirySeconds overrides the overlay-wide data expiry for this field.
	// Nil means the default applies.
	ExpirySeconds *int `json:"expiry,omitempty"`
}

// IsSystem reports whether the field is platform defined.
func (f *Field) IsSystem() bool {
	return f.Source == FieldSourceSystem
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	c := *f
	if f.ExpirySeconds != nil {
		v := *f.ExpirySeconds
		c.ExpirySeconds = &v
	}
	return &c
}
