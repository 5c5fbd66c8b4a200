package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"overlay-service/internal/assets"
	"overlay-service/internal/metrics"
)

// ImageHandler exposes the image library used by image fields.
type ImageHandler struct {
	session  *Session
	registry *assets.ImageRegistry
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(session *Session, registry *assets.ImageRegistry, m *metrics.Metrics, log zerolog.Logger) *ImageHandler {
	return &ImageHandler{session: session, registry: registry, metrics: m, log: log}
}

// ListImages handles GET /images.
// @Summary List images
// @Tags images
// @Produce json
// @Success 200 {array} models.ImageAsset "Registered images"
// @Router /images [get]
func (h *ImageHandler) ListImages(c *fiber.Ctx) error {
	images, err := h.registry.List()
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(images)
}

// UploadImage handles POST /images/upload.
// @Summary Upload an image
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file (png, jpeg or gif)"
// @Success 201 {object} models.ImageAsset "Registered image"
// @Failure 400 {object} map[string]interface{} "Unsupported format or duplicate name"
// @Failure 413 {object} map[string]interface{} "File too large"
// @Router /images/upload [post]
func (h *ImageHandler) UploadImage(c *fiber.Ctx) error {
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

	contentType := fileHeader.Header.Get("Content-Type")
	img, err := h.registry.Upload(c.Context(), fileHeader.Filename, contentType, src, fileHeader.Size)
	if err != nil {
		h.metrics.RecordUploadReject("image")
		h.log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("image upload rejected")
		return errorResponse(c, err)
	}
	h.metrics.RecordImageUpload()
	return c.Status(fiber.StatusCreated).JSON(img)
}

// DownloadImage handles GET /images/:name/data.
// @Summary Download image bytes
// @Tags images
// @Produce octet-stream
// @Param name path string true "Image name"
// @Success 200 {file} binary "Image bytes"
// @Failure 404 {object} map[string]interface{} "Image not found"
// @Router /images/{name}/data [get]
func (h *ImageHandler) DownloadImage(c *fiber.Ctx) error {
	name := c.Params("name")
	img, data, err := h.registry.Read(c.Context(), name)
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+img.Name+`"`)
	return c.Send(data)
}

// DeleteImage handles DELETE /images/:name. Removal is blocked while an
// image field references the image.
// @Summary Remove an image
// @Tags images
// @Param name path string true "Image name"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Image not found"
// @Failure 409 {object} map[string]interface{} "Image in use"
// @Router /images/{name} [delete]
func (h *ImageHandler) DeleteImage(c *fiber.Ctx) error {
	name := c.Params("name")

	// The reference check runs inside Remove so it sees the fields as they
	// are at deletion time, not as they were when the request arrived.
	err := h.registry.Remove(c.Context(), name, func(n string) bool {
		h.session.Lock()
		defer h.session.Unlock()
		return h.session.Registry.UsesImage(n)
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
