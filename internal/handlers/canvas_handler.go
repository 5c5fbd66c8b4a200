package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"overlay-service/internal/models"
)

// CanvasHandler exposes the overlay stage operations: selection, move,
// rotate, zoom and test mode.
type CanvasHandler struct {
	session *Session
}

// NewCanvasHandler creates a new CanvasHandler.
func NewCanvasHandler(session *Session) *CanvasHandler {
	return &CanvasHandler{session: session}
}

// Select handles POST /canvas/select/:id to select a field.
// @Summary Select a field
// @Tags canvas
// @Param id path string true "Field ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Field not found"
// @Router /canvas/select/{id} [post]
func (h *CanvasHandler) Select(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": invalidIDError,
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Canvas.Select(id); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SelectAt handles POST /canvas/select to select whatever sits under a
// stage position. A miss clears the selection.
// @Summary Select the field at a position
// @Tags canvas
// @Accept json
// @Success 204 "No Content"
// @Router /canvas/select [post]
func (h *CanvasHandler) SelectAt(c *fiber.Ctx) error {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid position payload",
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	h.session.Canvas.SelectAt(req.X, req.Y)
	return c.SendStatus(fiber.StatusNoContent)
}

// ClearSelection handles DELETE /canvas/select, as when the operator clicks
// empty canvas.
// @Summary Clear the selection
// @Tags canvas
// @Success 204 "No Content"
// @Router /canvas/select [delete]
func (h *CanvasHandler) ClearSelection(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	h.session.Canvas.ClearSelection()
	return c.SendStatus(fiber.StatusNoContent)
}

// MoveSelected handles POST /canvas/move to shift the selected field.
// @Summary Move the selected field
// @Description Moves by the given deltas, snapping to the grid when enabled
// @Tags canvas
// @Accept json
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "No selection"
// @Router /canvas/move [post]
func (h *CanvasHandler) MoveSelected(c *fiber.Ctx) error {
	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Canvas.MoveSelected(req.DX, req.DY); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RotateSelected handles POST /canvas/rotate to rotate the selected field.
// @Summary Rotate the selected field
// @Description Rotates by the given delta in degrees; the result is normalized into [0,360)
// @Tags canvas
// @Accept json
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "No selection"
// @Router /canvas/rotate [post]
func (h *CanvasHandler) RotateSelected(c *fiber.Ctx) error {
	var req struct {
		Delta float64 `json:"delta"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Canvas.RotateSelected(req.Delta); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteSelected handles DELETE /canvas/selected to remove the selected
// field, with the registry's system-field protection.
// @Summary Delete the selected field
// @Tags canvas
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "No selection"
// @Failure 409 {object} map[string]interface{} "System field protected"
// @Router /canvas/selected [delete]
func (h *CanvasHandler) DeleteSelected(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Canvas.DeleteSelected(); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetTestMode handles PUT /canvas/testmode to toggle sample-data preview.
// @Summary Toggle test mode
// @Description Swaps rendered values between live and sample data
// @Tags canvas
// @Accept json
// @Success 204 "No Content"
// @Router /canvas/testmode [post]
func (h *CanvasHandler) SetTestMode(c *fiber.Ctx) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	h.session.Canvas.SetTestMode(req.Enabled)
	return c.SendStatus(fiber.StatusNoContent)
}

// Zoom handles POST /canvas/zoom/:op for in, out, fit and full.
// @Summary Zoom the overlay stage
// @Tags canvas
// @Param op path string true "Zoom operation: in, out, fit or full"
// @Produce json
// @Success 200 {object} map[string]interface{} "Current scale"
// @Router /canvas/zoom/{op} [post]
func (h *CanvasHandler) Zoom(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	vp := h.session.Canvas.Viewport()
	switch c.Params("op") {
	case "in":
		vp.ZoomIn()
	case "out":
		vp.ZoomOut()
	case "fit":
		vp.ZoomToFit()
	case "full":
		vp.ZoomToFull()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "unknown zoom operation",
		})
	}
	return c.JSON(fiber.Map{"scale": vp.Scale()})
}

// RenderValues handles GET /canvas/values to resolve what each field should
// display, with its staleness flag.
// @Summary Resolve rendered field values
// @Tags canvas
// @Produce json
// @Success 200 {object} map[string]interface{} "Field values keyed by name"
// @Router /canvas/values [get]
func (h *CanvasHandler) RenderValues(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()

	type rendered struct {
		Value string `json:"value"`
		Stale bool   `json:"stale"`
	}
	values := make(map[string]rendered)
	for f := range h.session.Registry.Fields() {
		if f.Kind != models.FieldKindText {
			continue
		}
		v, stale := h.session.Canvas.RenderValue(f)
		values[f.Name] = rendered{Value: v, Stale: stale}
	}
	return c.JSON(values)
}
