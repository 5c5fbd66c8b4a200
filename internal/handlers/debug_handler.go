package handlers

import (
	"github.com/gofiber/fiber/v2"

	"overlay-service/internal/models"
)

// DebugHandler exposes a read-only dump of the editor state.
type DebugHandler struct {
	session *Session
}

// NewDebugHandler creates a new DebugHandler.
func NewDebugHandler(session *Session) *DebugHandler {
	return &DebugHandler{session: session}
}

type debugField struct {
	Field *models.Field `json:"field"`
	Value string        `json:"value"`
	Stale bool          `json:"stale"`
}

// GetDebug handles GET /debug.
// @Summary Dump editor state
// @Description Returns the overlay document, per-field render values and the editor settings
// @Tags debug
// @Produce json
// @Success 200 {object} map[string]interface{} "Editor state"
// @Router /debug [get]
func (h *DebugHandler) GetDebug(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()

	fields := make([]debugField, 0, h.session.Registry.Len())
	for f := range h.session.Registry.Fields() {
		df := debugField{Field: f}
		if f.Kind == models.FieldKindText {
			df.Value, df.Stale = h.session.Canvas.RenderValue(f)
		}
		fields = append(fields, df)
	}

	vp := h.session.Canvas.Viewport()
	return c.JSON(fiber.Map{
		"defaults": h.session.Registry.Defaults(),
		"fields":   fields,
		"settings": h.session.Settings,
		"testMode": h.session.Canvas.TestMode(),
		"zoom":     vp.Scale(),
	})
}
