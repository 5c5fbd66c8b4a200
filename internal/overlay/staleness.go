package overlay

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"overlay-service/internal/models"
)

// DataSource resolves live field values from the capture pipeline's data
// directory and answers staleness queries. Each variable is backed by a
// file named after the field, lowercased, with a .txt extension.
type DataSource struct {
	dir           string
	defaultExpiry int
	now           func() time.Time
}

// NewDataSource creates a DataSource over the given directory.
// defaultExpirySeconds applies to fields without their own expiry override.
func NewDataSource(dir string, defaultExpirySeconds int) *DataSource {
	return &DataSource{
		dir:           dir,
		defaultExpiry: defaultExpirySeconds,
		now:           time.Now,
	}
}

func (d *DataSource) filePath(name string) string {
	return filepath.Join(d.dir, strings.ToLower(name)+".txt")
}

// Value returns the live value for the named variable.
func (d *DataSource) Value(name string) (string, error) {
	data, err := os.ReadFile(d.filePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", errors.Wrapf(err, "reading data file for %s", name)
	}
	return strings.TrimSpace(string(data)), nil
}

// IsStale reports whether the field's backing data file is older than the
// field's expiry, or the default expiry when the field has no override.
// A missing data file counts as stale. An expiry of zero disables the check.
func (d *DataSource) IsStale(f *models.Field) bool {
	expiry := d.defaultExpiry
	if f.ExpirySeconds != nil {
		expiry = *f.ExpirySeconds
	}
	if expiry == 0 {
		return false
	}
	info, err := os.Stat(d.filePath(f.Name))
	if err != nil {
		return true
	}
	return d.now().Sub(info.ModTime()) > time.Duration(expiry)*time.Second
}
