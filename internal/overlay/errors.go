package overlay

import "github.com/pkg/errors"

// Sentinel errors shared by the editor core. Callers match them with
// errors.Is; services add context with errors.Wrap.
var (
	ErrDuplicateName        = errors.New("field name already in use")
	ErrNotFound             = errors.New("not found")
	ErrImmutableField       = errors.New("attribute is immutable on a system field")
	ErrSystemFieldProtected = errors.New("system field is protected")
	ErrOutOfRange           = errors.New("value out of range")
	ErrInvalidBundle        = errors.New("invalid font bundle")
	ErrUnsupportedFormat    = errors.New("unsupported format")
	ErrFileTooLarge         = errors.New("file too large")
	ErrAssetInUse           = errors.New("asset is referenced by a field")
	ErrPersistence          = errors.New("persistence failure")
)
