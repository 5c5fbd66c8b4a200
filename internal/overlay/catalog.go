package overlay

import (
	"overlay-service/internal/models"
)

type systemVariable struct {
	name        string
	description string
	format      string
	sample      string
	fieldType   models.FieldType
}

// systemCatalog lists the platform variables every overlay starts with.
// They are bound to live capture data; only description, format and sample
// data are editable on them.
var systemCatalog = []systemVariable{
	{"DATE", "Capture date", "2006-01-02", "2024-06-21", models.FieldTypeDate},
	{"TIME", "Capture time", "15:04:05", "22:41:07", models.FieldTypeTime},
	{"EXPOSURE", "Exposure time in microseconds", "%d", "12500000", models.FieldTypeNumber},
	{"GAIN", "Sensor gain", "%d", "250", models.FieldTypeNumber},
	{"TEMPERATURE", "Sensor temperature in degrees C", "%.1f", "14.5", models.FieldTypeNumber},
	{"SUN_ALTITUDE", "Altitude of the sun in degrees", "%.1f", "-32.0", models.FieldTypeNumber},
	{"MOON_PHASE", "Moon illumination percentage", "%d%%", "64%", models.FieldTypeNumber},
	{"STAR_COUNT", "Number of detected stars", "%d", "831", models.FieldTypeNumber},
}

// SeedSystemFields adds the system variable catalogue to a registry. Fields
// whose names already exist in the document, because it was loaded from a
// previous save, are left untouched.
func SeedSystemFields(r *Registry) error {
	for i, v := range systemCatalog {
		if _, err := r.FieldByName(v.name); err == nil {
			continue
		}
		f, err := r.CreateField(models.FieldKindText, models.FieldSourceSystem, v.name)
		if err != nil {
			return err
		}
		f.Description = v.description
		f.Format = v.format
		f.SampleData = v.sample
		f.Type = v.fieldType
		// Stagger the seeded fields down the stage so they do not stack.
		f.X = 20
		f.Y = float64(40 * (i + 1))
	}
	return nil
}
