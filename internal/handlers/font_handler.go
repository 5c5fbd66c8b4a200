package handlers

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"overlay-service/internal/assets"
	"overlay-service/internal/metrics"
)

// FontHandler exposes the font manager: list, add, upload and remove.
type FontHandler struct {
	session  *Session
	registry *assets.FontRegistry
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewFontHandler creates a new FontHandler.
func NewFontHandler(session *Session, registry *assets.FontRegistry, m *metrics.Metrics, log zerolog.Logger) *FontHandler {
	return &FontHandler{session: session, registry: registry, metrics: m, log: log}
}

// ListFonts handles GET /fonts.
// @Summary List fonts
// @Tags fonts
// @Produce json
// @Success 200 {array} models.FontAsset "Registered fonts"
// @Router /fonts [get]
func (h *FontHandler) ListFonts(c *fiber.Ctx) error {
	fonts, err := h.registry.List()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fonts)
}

// AddFont handles POST /fonts to register a built-in font by path.
// @Summary Add a system font
// @Tags fonts
// @Accept json
// @Produce json
// @Success 201 {object} models.FontAsset "Registered font"
// @Failure 400 {object} map[string]interface{} "Duplicate name"
// @Router /fonts [post]
func (h *FontHandler) AddFont(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "name and path are required",
		})
	}
	f, err := h.registry.AddSystemFont(req.Name, req.Path)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

// UploadFonts handles POST /fonts/upload to register a font bundle. The
// archive must contain only font files at its top level.
// @Summary Upload a font bundle
// @Description Registers every font in the archive; subdirectories or non-font entries reject the whole bundle
// @Tags fonts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Font bundle (zip)"
// @Success 201 {array} models.FontAsset "Registered fonts"
// @Failure 400 {object} map[string]interface{} "Invalid bundle or unsupported format"
// @Router /fonts/upload [post]
func (h *FontHandler) UploadFonts(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "failed to read file: " + err.Error(),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return errorResponse(c, err)
	}
	defer src.Close()

	// The archive reader needs a file on disk.
	tempFile, err := os.CreateTemp("", "fontbundle-*"+filepath.Ext(fileHeader.Filename))
	if err != nil {
		return errorResponse(c, err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)
	if _, err := io.Copy(tempFile, src); err != nil {
		tempFile.Close()
		return errorResponse(c, err)
	}
	tempFile.Close()

	fonts, err := h.registry.UploadBundle(c.Context(), tempPath)
	if err != nil {
		h.metrics.RecordUploadReject("font")
		h.log.Warn().Err(err).Str("bundle", fileHeader.Filename).Msg("font bundle rejected")
		return errorResponse(c, err)
	}
	for range fonts {
		h.metrics.RecordFontUpload()
	}
	return c.Status(fiber.StatusCreated).JSON(fonts)
}

// DeleteFont handles DELETE /fonts/:name. Removal is blocked while a text
// field references the font.
// @Summary Remove a font
// @Tags fonts
// @Param name path string true "Font name"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Font not found"
// @Failure 409 {object} map[string]interface{} "Font in use"
// @Router /fonts/{name} [delete]
func (h *FontHandler) DeleteFont(c *fiber.Ctx) error {
	name := c.Params("name")

	// The reference check runs inside Remove so it sees the fields as they
	// are at deletion time, not as they were when the request arrived.
	err := h.registry.Remove(c.Context(), name, func(n string) bool {
		h.session.Lock()
		defer h.session.Unlock()
		return h.session.Registry.UsesFont(n)
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
