package models

import "slices"

// OverlayDefaults holds the per-overlay default settings applied to newly
// created fields. Changing a default never rewrites existing fields.
type OverlayDefaults struct {
	ImageOpacity   int      `json:"defaultimageopacity"`
	ImageRotation  int      `json:"defaultimagerotation"`
	FontName       string   `json:"defaultfont"`
	FontSize       int      `json:"defaultfontsize"`
	FontOpacity    int      `json:"defaultfontopacity"`
	FontColour     string   `json:"defaultfontcolour"`
	TextRotation   int      `json:"defaulttextrotation"`
	DataFileExpiry int      `json:"defaultdatafileexpiry"`
	NoradIDs       []string `json:"defaultnoradids"`
	IncludePlanets bool     `json:"defaultincludeplanets"`
	IncludeSun     bool     `json:"defaultincludesun"`
	IncludeMoon    bool     `json:"defaultincludemoon"`
}

// NewOverlayDefaults returns the defaults used for a fresh overlay document.
func NewOverlayDefaults() OverlayDefaults {
	return OverlayDefaults{
		ImageOpacity:   100,
		ImageRotation:  0,
		FontName:       "Arial",
		FontSize:       32,
		FontOpacity:    100,
		FontColour:     "#ffffff",
		TextRotation:   0,
		DataFileExpiry: 600,
	}
}

// OverlayDocument is the complete persisted overlay: the shared defaults plus
// the ordered set of fields. Field order is z-order, lowest drawn first.
type OverlayDocument struct {
	Defaults OverlayDefaults `json:"settings"`
	Fields   []*Field        `json:"fields"`
}

// Clone returns a deep copy of the document that shares no memory with the
// original, so it can be serialized while the original keeps being edited.
func (d *OverlayDocument) Clone() *OverlayDocument {
	c := &OverlayDocument{Defaults: d.Defaults}
	c.Defaults.NoradIDs = slices.Clone(d.Defaults.NoradIDs)
	c.Fields = make([]*Field, len(d.Fields))
	for i, f := range d.Fields {
		c.Fields[i] = f.Clone()
	}
	return c
}
