package canvas

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// recordingRenderer captures the shape calls the controller makes.
type recordingRenderer struct {
	added   []uuid.UUID
	updated []uuid.UUID
	removed []uuid.UUID
	hit     uuid.UUID
	hitOK   bool
}

func (r *recordingRenderer) AddShape(f *models.Field)    { r.added = append(r.added, f.ID) }
func (r *recordingRenderer) UpdateShape(f *models.Field) { r.updated = append(r.updated, f.ID) }
func (r *recordingRenderer) RemoveShape(id uuid.UUID)    { r.removed = append(r.removed, id) }
func (r *recordingRenderer) HitTest(x, y float64) (uuid.UUID, bool) {
	return r.hit, r.hitOK
}

// fakeData serves canned values and staleness per field name.
type fakeData struct {
	values map[string]string
	stale  map[string]bool
}

func (d *fakeData) Value(name string) (string, error) {
	v, ok := d.values[name]
	if !ok {
		return "", overlay.ErrNotFound
	}
	return v, nil
}

func (d *fakeData) IsStale(f *models.Field) bool {
	return d.stale[f.Name]
}

func newTestController(t *testing.T) (*Controller, *overlay.Registry, *recordingRenderer) {
	t.Helper()
	reg := overlay.NewRegistry(nil, 1920, 1080)
	r := &recordingRenderer{}
	data := &fakeData{values: map[string]string{}, stale: map[string]bool{}}
	c := NewController(reg, r, data, models.NewEditorSettings(), NewViewport(1920, 1080, 1280, 720))
	return c, reg, r
}

func TestSelectionStateMachine(t *testing.T) {
	c, reg, _ := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)

	_, ok := c.Selected()
	assert.False(t, ok)

	require.NoError(t, c.Select(f.ID))
	id, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, f.ID, id)

	c.ClearSelection()
	_, ok = c.Selected()
	assert.False(t, ok)

	err = c.Select(uuid.New())
	assert.ErrorIs(t, err, overlay.ErrNotFound)
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestSelectAtUsesHitTest(t *testing.T) {
	c, reg, r := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)

	r.hit, r.hitOK = f.ID, true
	c.SelectAt(10, 10)
	id, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, f.ID, id)

	// A miss clears the selection.
	r.hitOK = false
	c.SelectAt(500, 500)
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestMoveSelected(t *testing.T) {
	c, reg, r := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, c.Select(f.ID))

	require.NoError(t, c.MoveSelected(15, -40))
	assert.Equal(t, 975.0, f.X)
	assert.Equal(t, 500.0, f.Y)
	assert.Contains(t, r.updated, f.ID)
}

func TestMoveSelectedSnapsToGrid(t *testing.T) {
	c, reg, _ := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, c.Select(f.ID))

	s := models.NewEditorSettings()
	s.SnapBackground = true
	s.GridSize = 50
	c.ApplySettings(s)

	// 960+17=977 and 540-13=527 round to the nearest 50.
	require.NoError(t, c.MoveSelected(17, -13))
	assert.Equal(t, 1000.0, f.X)
	assert.Equal(t, 550.0, f.Y)
}

func TestMoveWithoutSelection(t *testing.T) {
	c, _, _ := newTestController(t)
	assert.ErrorIs(t, c.MoveSelected(1, 1), overlay.ErrNotFound)
	assert.ErrorIs(t, c.RotateSelected(10), overlay.ErrNotFound)
	assert.ErrorIs(t, c.DeleteSelected(), overlay.ErrNotFound)
}

func TestRotateSelectedAccumulatesAndWraps(t *testing.T) {
	c, reg, _ := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, c.Select(f.ID))

	require.NoError(t, c.RotateSelected(350))
	assert.Equal(t, 350.0, f.Rotation)

	require.NoError(t, c.RotateSelected(30))
	assert.Equal(t, 20.0, f.Rotation)

	require.NoError(t, c.RotateSelected(-45))
	assert.Equal(t, 335.0, f.Rotation)
}

func TestDeleteSelectedClearsSelection(t *testing.T) {
	c, reg, r := newTestController(t)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, c.Select(f.ID))

	require.NoError(t, c.DeleteSelected())
	_, ok := c.Selected()
	assert.False(t, ok)
	assert.Contains(t, r.removed, f.ID)
	assert.Equal(t, 0, reg.Len())
}

func TestDeleteSelectedSystemFieldKeepsSelection(t *testing.T) {
	c, reg, _ := newTestController(t)
	require.NoError(t, overlay.SeedSystemFields(reg))
	f, err := reg.FieldByName("DATE")
	require.NoError(t, err)
	require.NoError(t, c.Select(f.ID))

	err = c.DeleteSelected()
	assert.ErrorIs(t, err, overlay.ErrSystemFieldProtected)
	_, ok := c.Selected()
	assert.True(t, ok)
}

func TestDeleteFieldSelectionHandling(t *testing.T) {
	c, reg, _ := newTestController(t)
	a, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	b, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)
	require.NoError(t, c.Select(a.ID))

	// Deleting an unselected field leaves the selection alone.
	require.NoError(t, c.DeleteField(b.ID))
	id, ok := c.Selected()
	assert.True(t, ok)
	assert.Equal(t, a.ID, id)

	// Deleting the selected field clears it.
	require.NoError(t, c.DeleteField(a.ID))
	_, ok = c.Selected()
	assert.False(t, ok)
}

func TestRenderValue(t *testing.T) {
	reg := overlay.NewRegistry(nil, 1920, 1080)
	data := &fakeData{
		values: map[string]string{"GAIN": "250"},
		stale:  map[string]bool{"TEMPERATURE": true},
	}
	c := NewController(reg, &recordingRenderer{}, data, models.NewEditorSettings(), NewViewport(1920, 1080, 1280, 720))

	gain := &models.Field{Name: "GAIN", SampleData: "100"}
	temp := &models.Field{Name: "TEMPERATURE", SampleData: "14.5"}

	v, stale := c.RenderValue(gain)
	assert.Equal(t, "250", v)
	assert.False(t, stale)

	// Live miss falls back to sample data and reports staleness.
	v, stale = c.RenderValue(temp)
	assert.Equal(t, "14.5", v)
	assert.True(t, stale)

	// Test mode always shows sample data and never flags stale.
	c.SetTestMode(true)
	v, stale = c.RenderValue(gain)
	assert.Equal(t, "100", v)
	assert.False(t, stale)
	v, stale = c.RenderValue(temp)
	assert.Equal(t, "14.5", v)
	assert.False(t, stale)
}

func TestNewControllerPushesFieldsToRenderer(t *testing.T) {
	reg := overlay.NewRegistry(nil, 1920, 1080)
	f, err := reg.CreateField(models.FieldKindText, models.FieldSourceUser, "")
	require.NoError(t, err)

	r := &recordingRenderer{}
	NewController(reg, r, &fakeData{}, models.NewEditorSettings(), NewViewport(1920, 1080, 1280, 720))
	assert.Equal(t, []uuid.UUID{f.ID}, r.added)
}
