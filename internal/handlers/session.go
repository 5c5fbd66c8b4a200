package handlers

import (
	"sync"

	"overlay-service/internal/canvas"
	"overlay-service/internal/mask"
	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
)

// Session bundles the editing state the handlers operate on: the field
// registry, the two stage controllers and the current editor settings. The
// editor core is single-threaded; the session mutex turns concurrent HTTP
// requests into the discrete events the core expects.
type Session struct {
	mu sync.Mutex

	Registry *overlay.Registry
	Canvas   *canvas.Controller
	Mask     *mask.Controller
	Settings models.EditorSettings
}

// Lock takes the session for one handler invocation.
func (s *Session) Lock() {
	s.mu.Lock()
}

// Unlock releases the session.
func (s *Session) Unlock() {
	s.mu.Unlock()
}
