package canvas

import (
	"github.com/google/uuid"

	"overlay-service/internal/models"
)

// SceneRenderer is the rendering back-end the controller draws through. The
// production front-end implements it on a retained-mode scene graph; the
// core never talks to a widget library directly.
type SceneRenderer interface {
	AddShape(f *models.Field)
	UpdateShape(f *models.Field)
	RemoveShape(id uuid.UUID)
	HitTest(x, y float64) (uuid.UUID, bool)
}

// NullRenderer is a SceneRenderer that draws nothing. It backs headless
// operation and tests.
type NullRenderer struct{}

func (NullRenderer) AddShape(*models.Field)    {}
func (NullRenderer) UpdateShape(*models.Field) {}
func (NullRenderer) RemoveShape(uuid.UUID)     {}

func (NullRenderer) HitTest(x, y float64) (uuid.UUID, bool) {
	return uuid.Nil, false
}
