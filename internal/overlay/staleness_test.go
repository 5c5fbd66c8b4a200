package overlay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"overlay-service/internal/models"
)

func writeDataFile(t *testing.T, dir, name, value string, modTime time.Time) {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(value), 0o644))
	require.NoError(t, os.Chtimes(p, modTime, modTime))
}

func TestDataSourceValue(t *testing.T) {
	dir := t.TempDir()
	d := NewDataSource(dir, 600)
	writeDataFile(t, dir, "temperature.txt", "14.5\n", time.Now())

	v, err := d.Value("TEMPERATURE")
	require.NoError(t, err)
	assert.Equal(t, "14.5", v)

	_, err = d.Value("GAIN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIsStale(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 21, 22, 0, 0, 0, time.UTC)

	d := NewDataSource(dir, 600)
	d.now = func() time.Time { return now }

	writeDataFile(t, dir, "fresh.txt", "1", now.Add(-1*time.Minute))
	writeDataFile(t, dir, "old.txt", "1", now.Add(-20*time.Minute))

	tests := []struct {
		name  string
		field *models.Field
		want  bool
	}{
		{"fresh file within default expiry", &models.Field{Name: "FRESH"}, false},
		{"old file past default expiry", &models.Field{Name: "OLD"}, true},
		{"missing file is stale", &models.Field{Name: "MISSING"}, true},
		{"override tightens expiry", &models.Field{Name: "FRESH", ExpirySeconds: ptr(30)}, true},
		{"override loosens expiry", &models.Field{Name: "OLD", ExpirySeconds: ptr(3600)}, false},
		{"zero expiry disables the check", &models.Field{Name: "MISSING", ExpirySeconds: ptr(0)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.IsStale(tt.field))
		})
	}
}

func TestIsStaleZeroDefaultDisables(t *testing.T) {
	d := NewDataSource(t.TempDir(), 0)
	assert.False(t, d.IsStale(&models.Field{Name: "ANYTHING"}))
}
