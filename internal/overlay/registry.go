package overlay

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/google/uuid"

	"overlay-service/internal/models"
)

// Registry owns the overlay document: the set of fields and the overlay
// defaults. Every mutation of field state passes through here so the
// document invariants (unique names, dense z-order) hold at all times.
// A Registry is confined to a single goroutine; callers serialize access.
type Registry struct {
	doc     *models.OverlayDocument
	stageW  int
	stageH  int
	nameSeq int
}

// FieldPatch describes a partial update to a field. Nil members are left
// unchanged.
type FieldPatch struct {
	Name         *string
	Kind         *models.FieldKind
	Source       *models.FieldSource
	Description  *string
	Format       *string
	SampleData   *string
	Type         *models.FieldType
	X            *float64
	Y            *float64
	Rotation     *float64
	Opacity      *int
	Label        *string
	FontName     *string
	FontSize     *int
	FontColour   *string
	StrokeColour *string
	StrokeWidth  *int
	ImageName    *string
	Width        *int
	Height       *int
	Expiry       *int
}

// DefaultsPatch describes a partial update to the overlay defaults.
type DefaultsPatch struct {
	ImageOpacity   *int
	ImageRotation  *int
	FontName       *string
	FontSize       *int
	FontOpacity    *int
	FontColour     *string
	TextRotation   *int
	DataFileExpiry *int
	NoradIDs       []string
	IncludePlanets *bool
	IncludeSun     *bool
	IncludeMoon    *bool
}

// NewRegistry wraps an overlay document. The stage dimensions are used to
// centre newly created fields. Fields are re-sorted by z-order and
// renumbered densely in case the loaded document carries gaps.
func NewRegistry(doc *models.OverlayDocument, stageW, stageH int) *Registry {
	if doc == nil {
		doc = &models.OverlayDocument{Defaults: models.NewOverlayDefaults()}
	}
	slices.SortStableFunc(doc.Fields, func(a, b *models.Field) int {
		return a.ZIndex - b.ZIndex
	})
	for i, f := range doc.Fields {
		f.ZIndex = i
	}
	return &Registry{doc: doc, stageW: stageW, stageH: stageH}
}

// Document returns the underlying overlay document for serialization.
func (r *Registry) Document() *models.OverlayDocument {
	return r.doc
}

// Snapshot returns a deep copy of the document that stays valid while the
// registry keeps being edited. Callers hand snapshots to persistence so the
// live document is never read outside the editor lock.
func (r *Registry) Snapshot() *models.OverlayDocument {
	return r.doc.Clone()
}

// Defaults returns the current overlay defaults.
func (r *Registry) Defaults() models.OverlayDefaults {
	return r.doc.Defaults
}

// Len returns the number of fields.
func (r *Registry) Len() int {
	return len(r.doc.Fields)
}

// Field returns the field with the given id.
func (r *Registry) Field(id uuid.UUID) (*models.Field, error) {
	for _, f := range r.doc.Fields {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

// FieldByName returns the field with the given name.
func (r *Registry) FieldByName(name string) (*models.Field, error) {
	for _, f := range r.doc.Fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

// Fields returns the fields in z-order as a restartable sequence. Mutations
// must not be performed while a traversal is in progress.
func (r *Registry) Fields() iter.Seq[*models.Field] {
	return func(yield func(*models.Field) bool) {
		for _, f := range r.doc.Fields {
			if !yield(f) {
				return
			}
		}
	}
}

// CreateField adds a new field of the given kind and source. An empty name
// is replaced with a generated unique one; a supplied name that collides
// with an existing field fails with ErrDuplicateName. The new field starts
// at the stage centre, carries the overlay defaults for its kind, and is
// placed on top of the z-order.
func (r *Registry) CreateField(kind models.FieldKind, source models.FieldSource, name string) (*models.Field, error) {
	if name == "" {
		name = r.generateName()
	} else if _, err := r.FieldByName(name); err == nil {
		return nil, ErrDuplicateName
	}

	d := r.doc.Defaults
	f := &models.Field{
		ID:     uuid.New(),
		Name:   name,
		Kind:   kind,
		Source: source,
		Type:   models.FieldTypeText,
		X:      float64(r.stageW) / 2,
		Y:      float64(r.stageH) / 2,
		ZIndex: len(r.doc.Fields),
	}
	switch kind {
	case models.FieldKindText:
		f.Opacity = d.FontOpacity
		f.Rotation = normalizeRotation(float64(d.TextRotation))
		f.FontName = d.FontName
		f.FontSize = d.FontSize
		f.FontColour = d.FontColour
		f.Label = name
	case models.FieldKindImage:
		f.Opacity = d.ImageOpacity
		f.Rotation = normalizeRotation(float64(d.ImageRotation))
	}
	r.doc.Fields = append(r.doc.Fields, f)
	return f, nil
}

// UpdateField applies a patch to the field with the given id. A patch that
// touches name, kind or source on a system field fails with
// ErrImmutableField; renaming into an existing name fails with
// ErrDuplicateName. On any failure the field is left unchanged.
func (r *Registry) UpdateField(id uuid.UUID, patch FieldPatch) error {
	f, err := r.Field(id)
	if err != nil {
		return err
	}

	if f.IsSystem() {
		if patch.Name != nil && *patch.Name != f.Name {
			return ErrImmutableField
		}
		if patch.Kind != nil && *patch.Kind != f.Kind {
			return ErrImmutableField
		}
		if patch.Source != nil && *patch.Source != f.Source {
			return ErrImmutableField
		}
	}
	if patch.Name != nil && *patch.Name != f.Name {
		if _, err := r.FieldByName(*patch.Name); err == nil {
			return ErrDuplicateName
		}
	}
	if patch.Opacity != nil && (*patch.Opacity < 0 || *patch.Opacity > 100) {
		return ErrOutOfRange
	}
	if patch.FontSize != nil && (*patch.FontSize < minFontSize || *patch.FontSize > maxFontSize) {
		return ErrOutOfRange
	}
	if patch.Expiry != nil && (*patch.Expiry < 0 || *patch.Expiry > maxDataFileExpiry) {
		return ErrOutOfRange
	}
	if patch.StrokeWidth != nil && *patch.StrokeWidth < 0 {
		return ErrOutOfRange
	}

	if patch.Name != nil {
		f.Name = *patch.Name
	}
	if patch.Kind != nil {
		f.Kind = *patch.Kind
	}
	if patch.Source != nil {
		f.Source = *patch.Source
	}
	if patch.Description != nil {
		f.Description = *patch.Description
	}
	if patch.Format != nil {
		f.Format = *patch.Format
	}
	if patch.SampleData != nil {
		f.SampleData = *patch.SampleData
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.X != nil {
		f.X = *patch.X
	}
	if patch.Y != nil {
		f.Y = *patch.Y
	}
	if patch.Rotation != nil {
		f.Rotation = normalizeRotation(*patch.Rotation)
	}
	if patch.Opacity != nil {
		f.Opacity = *patch.Opacity
	}
	if patch.Label != nil {
		f.Label = *patch.Label
	}
	if patch.FontName != nil {
		f.FontName = *patch.FontName
	}
	if patch.FontSize != nil {
		f.FontSize = *patch.FontSize
	}
	if patch.FontColour != nil {
		f.FontColour = *patch.FontColour
	}
	if patch.StrokeColour != nil {
		f.StrokeColour = *patch.StrokeColour
	}
	if patch.StrokeWidth != nil {
		f.StrokeWidth = *patch.StrokeWidth
	}
	if patch.ImageName != nil {
		f.ImageName = *patch.ImageName
	}
	if patch.Width != nil {
		f.Width = *patch.Width
	}
	if patch.Height != nil {
		f.Height = *patch.Height
	}
	if patch.Expiry != nil {
		f.ExpirySeconds = patch.Expiry
	}
	return nil
}

// DeleteField removes the field with the given id and closes the z-order
// gap. Deleting a system field requires the override flag, otherwise the
// call fails with ErrSystemFieldProtected.
func (r *Registry) DeleteField(id uuid.UUID, override bool) error {
	f, err := r.Field(id)
	if err != nil {
		return err
	}
	if f.IsSystem() && !override {
		return ErrSystemFieldProtected
	}
	r.doc.Fields = slices.DeleteFunc(r.doc.Fields, func(x *models.Field) bool {
		return x.ID == id
	})
	for i, x := range r.doc.Fields {
		x.ZIndex = i
	}
	return nil
}

// Reorder moves the field with the given id to newZIndex and renumbers the
// remaining fields so the z-order stays dense and gapless. The target index
// is clamped to the valid range.
func (r *Registry) Reorder(id uuid.UUID, newZIndex int) error {
	f, err := r.Field(id)
	if err != nil {
		return err
	}
	if newZIndex < 0 {
		newZIndex = 0
	}
	if newZIndex > len(r.doc.Fields)-1 {
		newZIndex = len(r.doc.Fields) - 1
	}
	r.doc.Fields = slices.DeleteFunc(r.doc.Fields, func(x *models.Field) bool {
		return x.ID == id
	})
	r.doc.Fields = slices.Insert(r.doc.Fields, newZIndex, f)
	for i, x := range r.doc.Fields {
		x.ZIndex = i
	}
	return nil
}

// Range limits for numeric defaults, matching the editor's options form.
const (
	minFontSize       = 8
	maxFontSize       = 64
	maxRotationDeg    = 359
	maxDataFileExpiry = 60000
)

// SetDefaults applies a patch to the overlay defaults after validating
// every numeric value against its declared range. A single out-of-range
// value rejects the whole patch with ErrOutOfRange.
func (r *Registry) SetDefaults(patch DefaultsPatch) error {
	checkRange := func(v *int, lo, hi int) bool {
		return v == nil || (*v >= lo && *v <= hi)
	}
	if !checkRange(patch.ImageOpacity, 0, 100) ||
		!checkRange(patch.ImageRotation, 0, maxRotationDeg) ||
		!checkRange(patch.FontSize, minFontSize, maxFontSize) ||
		!checkRange(patch.FontOpacity, 0, 100) ||
		!checkRange(patch.TextRotation, 0, maxRotationDeg) ||
		!checkRange(patch.DataFileExpiry, 0, maxDataFileExpiry) {
		return ErrOutOfRange
	}

	d := &r.doc.Defaults
	if patch.ImageOpacity != nil {
		d.ImageOpacity = *patch.ImageOpacity
	}
	if patch.ImageRotation != nil {
		d.ImageRotation = *patch.ImageRotation
	}
	if patch.FontName != nil {
		d.FontName = *patch.FontName
	}
	if patch.FontSize != nil {
		d.FontSize = *patch.FontSize
	}
	if patch.FontOpacity != nil {
		d.FontOpacity = *patch.FontOpacity
	}
	if patch.FontColour != nil {
		d.FontColour = *patch.FontColour
	}
	if patch.TextRotation != nil {
		d.TextRotation = *patch.TextRotation
	}
	if patch.DataFileExpiry != nil {
		d.DataFileExpiry = *patch.DataFileExpiry
	}
	if patch.NoradIDs != nil {
		d.NoradIDs = patch.NoradIDs
	}
	if patch.IncludePlanets != nil {
		d.IncludePlanets = *patch.IncludePlanets
	}
	if patch.IncludeSun != nil {
		d.IncludeSun = *patch.IncludeSun
	}
	if patch.IncludeMoon != nil {
		d.IncludeMoon = *patch.IncludeMoon
	}
	return nil
}

// UsesFont reports whether any field references the named font.
func (r *Registry) UsesFont(name string) bool {
	for _, f := range r.doc.Fields {
		if f.Kind == models.FieldKindText && f.FontName == name {
			return true
		}
	}
	return false
}

// UsesImage reports whether any field references the named image asset.
func (r *Registry) UsesImage(name string) bool {
	for _, f := range r.doc.Fields {
		if f.Kind == models.FieldKindImage && f.ImageName == name {
			return true
		}
	}
	return false
}

func (r *Registry) generateName() string {
	for {
		r.nameSeq++
		name := fmt.Sprintf("field_%d", r.nameSeq)
		if _, err := r.FieldByName(name); err != nil {
			return name
		}
	}
}

// normalizeRotation maps any angle in degrees into [0, 360).
func normalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
