package handlers

import (
	"image"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// MaskHandler exposes the auto-exposure mask stage: paint, reset, save and
// its own zoom.
type MaskHandler struct {
	session *Session
	log     zerolog.Logger
}

// NewMaskHandler creates a new MaskHandler.
func NewMaskHandler(session *Session, log zerolog.Logger) *MaskHandler {
	return &MaskHandler{session: session, log: log}
}

// GetMask handles GET /mask to download the current mask as a PNG.
// @Summary Get the auto-exposure mask
// @Tags mask
// @Produce png
// @Success 200 {file} binary "Mask PNG"
// @Router /mask [get]
func (h *MaskHandler) GetMask(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	data, err := h.session.Mask.Bitmap().EncodePNG()
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}

// Paint handles POST /mask/paint to apply a value to a region.
// @Summary Paint a mask region
// @Description Sets every pixel of the region to the given value, clipped to the mask bounds
// @Tags mask
// @Accept json
// @Success 204 "No Content"
// @Router /mask/paint [post]
func (h *MaskHandler) Paint(c *fiber.Ctx) error {
	var req struct {
		X      int   `json:"x"`
		Y      int   `json:"y"`
		Width  int   `json:"width"`
		Height int   `json:"height"`
		Value  uint8 `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}
	h.session.Lock()
	defer h.session.Unlock()
	h.session.Mask.Paint(image.Rect(req.X, req.Y, req.X+req.Width, req.Y+req.Height), req.Value)
	return c.SendStatus(fiber.StatusNoContent)
}

// Reset handles POST /mask/reset to restore the initial fully opaque mask.
// @Summary Reset the mask
// @Tags mask
// @Success 204 "No Content"
// @Router /mask/reset [post]
func (h *MaskHandler) Reset(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	h.session.Mask.Reset()
	h.log.Info().Msg("mask reset")
	return c.SendStatus(fiber.StatusNoContent)
}

// Save handles POST /mask/save to persist the mask. The in-memory bitmap
// survives a failed save so the operator can retry.
// @Summary Save the mask
// @Tags mask
// @Success 204 "No Content"
// @Failure 500 {object} map[string]interface{} "Persistence failure"
// @Router /mask/save [post]
func (h *MaskHandler) Save(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Mask.Save(c.Context()); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Zoom handles POST /mask/zoom/:op on the mask's own viewport.
// @Summary Zoom the mask stage
// @Tags mask
// @Param op path string true "Zoom operation: in, out, fit or full"
// @Produce json
// @Success 200 {object} map[string]interface{} "Current scale"
// @Router /mask/zoom/{op} [post]
func (h *MaskHandler) Zoom(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	vp := h.session.Mask.Viewport()
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
