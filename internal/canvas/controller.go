package canvas

import (
	"math"

	"github.com/google/uuid"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// DataProvider resolves live data values and staleness for fields. The
// overlay.DataSource satisfies it; tests substitute a fake.
type DataProvider interface {
	Value(name string) (string, error)
	IsStale(f *models.Field) bool
}

// Controller drives the overlay editing stage. It owns the viewport and the
// selection state; all field mutation is delegated to the registry so the
// registry's invariants are never bypassed.
type Controller struct {
	reg      *overlay.Registry
	renderer SceneRenderer
	data     DataProvider
	vp       *Viewport
	settings models.EditorSettings

	selected    uuid.UUID
	hasSelected bool
	testMode    bool
}

// NewController creates a controller over a registry and pushes the current
// fields into the renderer.
func NewController(reg *overlay.Registry, renderer SceneRenderer, data DataProvider, settings models.EditorSettings, vp *Viewport) *Controller {
	c := &Controller{
		reg:      reg,
		renderer: renderer,
		data:     data,
		vp:       vp,
		settings: settings,
	}
	for f := range reg.Fields() {
		renderer.AddShape(f)
	}
	return c
}

// ApplySettings replaces the editor settings the controller works with.
// Settings only change controller behaviour, never overlay content.
func (c *Controller) ApplySettings(s models.EditorSettings) {
	c.settings = s
}

// Select marks the field with the given id as the current selection.
func (c *Controller) Select(id uuid.UUID) error {
	if _, err := c.reg.Field(id); err != nil {
		return err
	}
	c.selected = id
	c.hasSelected = true
	return nil
}

// ClearSelection drops the current selection, as when the operator clicks
// empty canvas.
func (c *Controller) ClearSelection() {
	c.hasSelected = false
}

// Selected returns the currently selected field id, if any.
func (c *Controller) Selected() (uuid.UUID, bool) {
	return c.selected, c.hasSelected
}

// SelectAt selects whatever field the renderer hit-tests at the given stage
// position, or clears the selection when the position is empty canvas.
func (c *Controller) SelectAt(x, y float64) {
	if id, ok := c.renderer.HitTest(x, y); ok {
		c.selected = id
		c.hasSelected = true
		return
	}
	c.hasSelected = false
}

// MoveSelected shifts the selected field by the given deltas. When grid
// snapping is enabled each coordinate is rounded to the nearest grid
// multiple after the move.
func (c *Controller) MoveSelected(dx, dy float64) error {
	if !c.hasSelected {
		return overlay.ErrNotFound
	}
	f, err := c.reg.Field(c.selected)
	if err != nil {
		return err
	}
	x := f.X + dx
	y := f.Y + dy
	if c.settings.SnapBackground && c.settings.GridSize > 0 {
		x = snap(x, float64(c.settings.GridSize))
		y = snap(y, float64(c.settings.GridSize))
	}
	if err := c.reg.UpdateField(c.selected, overlay.FieldPatch{X: &x, Y: &y}); err != nil {
		return err
	}
	c.renderer.UpdateShape(f)
	return nil
}

// RotateSelected rotates the selected field by deltaDegrees. The resulting
// angle is normalized into [0, 360).
func (c *Controller) RotateSelected(deltaDegrees float64) error {
	if !c.hasSelected {
		return overlay.ErrNotFound
	}
	f, err := c.reg.Field(c.selected)
	if err != nil {
		return err
	}
	rot := f.Rotation + deltaDegrees
	if err := c.reg.UpdateField(c.selected, overlay.FieldPatch{Rotation: &rot}); err != nil {
		return err
	}
	c.renderer.UpdateShape(f)
	return nil
}

// DeleteSelected removes the selected field via the registry, honouring the
// same system-field protection. A successful delete clears the selection.
func (c *Controller) DeleteSelected() error {
	if !c.hasSelected {
		return overlay.ErrNotFound
	}
	if err := c.reg.DeleteField(c.selected, false); err != nil {
		return err
	}
	c.renderer.RemoveShape(c.selected)
	c.hasSelected = false
	return nil
}

// DeleteField removes an arbitrary field. Deleting the selected field clears
// the selection; deleting any other field leaves it untouched.
func (c *Controller) DeleteField(id uuid.UUID) error {
	if err := c.reg.DeleteField(id, false); err != nil {
		return err
	}
	c.renderer.RemoveShape(id)
	if c.hasSelected && c.selected == id {
		c.hasSelected = false
	}
	return nil
}

// SetTestMode toggles preview mode. In test mode fields render their sample
// data instead of live values; the registry is not touched.
func (c *Controller) SetTestMode(on bool) {
	c.testMode = on
}

// TestMode reports whether preview mode is active.
func (c *Controller) TestMode() bool {
	return c.testMode
}

// RenderValue resolves the value a field should display, and whether the
// field's backing data is stale. Stale fields are flagged, not hidden.
func (c *Controller) RenderValue(f *models.Field) (value string, stale bool) {
	if c.testMode {
		return f.SampleData, false
	}
	v, err := c.data.Value(f.Name)
	if err != nil {
		return f.SampleData, c.data.IsStale(f)
	}
	return v, c.data.IsStale(f)
}

// Viewport returns the stage viewport for zoom and pan operations.
func (c *Controller) Viewport() *Viewport {
	return c.vp
}

func snap(v, grid float64) float64 {
	return math.Round(v/grid) * grid
}
