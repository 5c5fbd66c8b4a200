package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"overlay-service/internal/models"
	"overlay-service/internal/services"
)

// SettingsHandler exposes the editor settings, persisted independently of
// the overlay content.
type SettingsHandler struct {
	session *Session
	gateway *services.OverlayService
	log     zerolog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(session *Session, gateway *services.OverlayService, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{session: session, gateway: gateway, log: log}
}

// GetSettings handles GET /settings.
// @Summary Get the editor settings
// @Tags settings
// @Produce json
// @Success 200 {object} models.EditorSettings "Editor settings"
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	return c.JSON(h.session.Settings)
}

// UpdateSettings handles PUT /settings to replace and persist the editor
// settings. A failed save keeps the previous settings in effect.
// @Summary Update the editor settings
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} models.EditorSettings "Editor settings"
// @Failure 500 {object} map[string]interface{} "Persistence failure"
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings models.EditorSettings
	if err := c.BodyParser(&settings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}

	if err := h.gateway.SaveSettings(c.Context(), settings); err != nil {
		return errorResponse(c, err)
	}

	h.session.Lock()
	defer h.session.Unlock()
	h.session.Settings = settings
	h.session.Canvas.ApplySettings(settings)
	h.log.Info().Msg("editor settings updated")
	return c.JSON(settings)
}
