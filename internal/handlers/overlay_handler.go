package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"overlay-service/internal/models"
	"overlay-service/internal/overlay"
	"overlay-service/internal/services"
)

const invalidIDError = "invalid field id"

// OverlayHandler defines handlers for the overlay document and its fields.
type OverlayHandler struct {
	session *Session
	gateway *services.OverlayService
	log     zerolog.Logger
}

// NewOverlayHandler creates a new OverlayHandler.
func NewOverlayHandler(session *Session, gateway *services.OverlayService, log zerolog.Logger) *OverlayHandler {
	return &OverlayHandler{session: session, gateway: gateway, log: log}
}

type createFieldRequest struct {
	Name string           `json:"name"`
	Kind models.FieldKind `json:"kind"`
}

type fieldPatchRequest struct {
	Name         *string             `json:"name"`
	Kind         *models.FieldKind   `json:"kind"`
	Source       *models.FieldSource `json:"source"`
	Description  *string             `json:"description"`
	Format       *string             `json:"format"`
	SampleData   *string             `json:"sample"`
	Type         *models.FieldType   `json:"type"`
	X            *float64            `json:"x"`
	Y            *float64            `json:"y"`
	Rotation     *float64            `json:"rotation"`
	Opacity      *int                `json:"opacity"`
	Label        *string             `json:"label"`
	FontName     *string             `json:"fontname"`
	FontSize     *int                `json:"fontsize"`
	FontColour   *string             `json:"fontcolour"`
	StrokeColour *string             `json:"strokecolour"`
	StrokeWidth  *int                `json:"strokewidth"`
	ImageName    *string             `json:"imagename"`
	Width        *int                `json:"width"`
	Height       *int                `json:"height"`
	Expiry       *int                `json:"expiry"`
}

func (r *fieldPatchRequest) toPatch() overlay.FieldPatch {
	return overlay.FieldPatch{
		Name:         r.Name,
		Kind:         r.Kind,
		Source:       r.Source,
		Description:  r.Description,
		Format:       r.Format,
		SampleData:   r.SampleData,
		Type:         r.Type,
		X:            r.X,
		Y:            r.Y,
		Rotation:     r.Rotation,
		Opacity:      r.Opacity,
		Label:        r.Label,
		FontName:     r.FontName,
		FontSize:     r.FontSize,
		FontColour:   r.FontColour,
		StrokeColour: r.StrokeColour,
		StrokeWidth:  r.StrokeWidth,
		ImageName:    r.ImageName,
		Width:        r.Width,
		Height:       r.Height,
		Expiry:       r.Expiry,
	}
}

type defaultsPatchRequest struct {
	ImageOpacity   *int     `json:"defaultimageopacity"`
	ImageRotation  *int     `json:"defaultimagerotation"`
	FontName       *string  `json:"defaultfont"`
	FontSize       *int     `json:"defaultfontsize"`
	FontOpacity    *int     `json:"defaultfontopacity"`
	FontColour     *string  `json:"defaultfontcolour"`
	TextRotation   *int     `json:"defaulttextrotation"`
	DataFileExpiry *int     `json:"defaultdatafileexpiry"`
	NoradIDs       []string `json:"defaultnoradids"`
	IncludePlanets *bool    `json:"defaultincludeplanets"`
	IncludeSun     *bool    `json:"defaultincludesun"`
	IncludeMoon    *bool    `json:"defaultincludemoon"`
}

// GetOverlay handles GET /overlay to retrieve the current overlay document.
// @Summary Get the overlay document
// @Description Returns the overlay defaults plus all fields in z-order
// @Tags overlay
// @Produce json
// @Success 200 {object} models.OverlayDocument "Overlay document"
// @Router /overlay [get]
func (h *OverlayHandler) GetOverlay(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	return c.JSON(h.session.Registry.Document())
}

// SaveOverlay handles POST /overlay/save to persist the current document.
// @Summary Save the overlay document
// @Description Hands the in-memory overlay document to the persistence gateway
// @Tags overlay
// @Produce json
// @Success 204 "No Content"
// @Failure 500 {object} map[string]interface{} "Persistence failure"
// @Router /overlay/save [post]
func (h *OverlayHandler) SaveOverlay(c *fiber.Ctx) error {
	h.session.Lock()
	doc := h.session.Registry.Snapshot()
	h.session.Unlock()

	if err := h.gateway.SaveOverlay(c.Context(), doc); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListFields handles GET /fields to list fields in z-order.
// @Summary List overlay fields
// @Tags overlay
// @Produce json
// @Success 200 {array} models.Field "Fields in z-order"
// @Router /fields [get]
func (h *OverlayHandler) ListFields(c *fiber.Ctx) error {
	h.session.Lock()
	defer h.session.Unlock()
	fields := make([]*models.Field, 0, h.session.Registry.Len())
	for f := range h.session.Registry.Fields() {
		fields = append(fields, f)
	}
	return c.JSON(fields)
}

// CreateField handles POST /fields to add a new user field.
// @Summary Create a field
// @Description Creates a user field with a generated or supplied unique name
// @Tags overlay
// @Accept json
// @Produce json
// @Success 201 {object} models.Field "Created field"
// @Failure 400 {object} map[string]interface{} "Duplicate name"
// @Router /fields [post]
func (h *OverlayHandler) CreateField(c *fiber.Ctx) error {
	var req createFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}
	if req.Kind != models.FieldKindText && req.Kind != models.FieldKindImage {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "kind must be text or image",
		})
	}

	h.session.Lock()
	defer h.session.Unlock()
	f, err := h.session.Registry.CreateField(req.Kind, models.FieldSourceUser, req.Name)
	if err != nil {
		return errorResponse(c, err)
	}
	h.log.Info().Str("field", f.Name).Str("kind", string(f.Kind)).Msg("field created")
	return c.Status(fiber.StatusCreated).JSON(f)
}

// UpdateField handles PUT /fields/:id to patch a field.
// @Summary Update a field
// @Description Applies a partial update; immutable attributes of system fields are rejected
// @Tags overlay
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} models.Field "Updated field"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 404 {object} map[string]interface{} "Field not found"
// @Router /fields/{id} [put]
func (h *OverlayHandler) UpdateField(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": invalidIDError,
		})
	}
	var req fieldPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}

	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Registry.UpdateField(id, req.toPatch()); err != nil {
		return errorResponse(c, err)
	}
	f, err := h.session.Registry.Field(id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(f)
}

// DeleteField handles DELETE /fields/:id to remove a field.
// @Summary Delete a field
// @Description Deletes a field; system fields require the override query flag
// @Tags overlay
// @Param id path string true "Field ID"
// @Param override query bool false "Override system field protection"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Field not found"
// @Failure 409 {object} map[string]interface{} "System field protected"
// @Router /fields/{id} [delete]
func (h *OverlayHandler) DeleteField(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": invalidIDError,
		})
	}
	override := c.QueryBool("override")

	h.session.Lock()
	defer h.session.Unlock()
	if override {
		if err := h.session.Registry.DeleteField(id, true); err != nil {
			return errorResponse(c, err)
		}
		if sel, ok := h.session.Canvas.Selected(); ok && sel == id {
			h.session.Canvas.ClearSelection()
		}
	} else if err := h.session.Canvas.DeleteField(id); err != nil {
		return errorResponse(c, err)
	}
	h.log.Info().Str("id", id.String()).Msg("field deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

// ReorderField handles PUT /fields/:id/zindex to move a field in
// the z-order.
// @Summary Reorder a field
// @Description Moves the field to the given z-index, keeping the order dense
// @Tags overlay
// @Accept json
// @Param id path string true "Field ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]interface{} "Field not found"
// @Router /fields/{id}/zindex [put]
func (h *OverlayHandler) ReorderField(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": invalidIDError,
		})
	}
	var req struct {
		ZIndex int `json:"zindex"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}

	h.session.Lock()
	defer h.session.Unlock()
	if err := h.session.Registry.Reorder(id, req.ZIndex); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateDefaults handles PUT /defaults to change the overlay
// defaults for newly created fields.
// @Summary Update overlay defaults
// @Description Validates every numeric value against its declared range
// @Tags overlay
// @Accept json
// @Produce json
// @Success 200 {object} models.OverlayDefaults "Current defaults"
// @Failure 400 {object} map[string]interface{} "Out of range"
// @Router /defaults [put]
func (h *OverlayHandler) UpdateDefaults(c *fiber.Ctx) error {
	var req defaultsPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": true, "message": "invalid request body",
		})
	}

	h.session.Lock()
	defer h.session.Unlock()
	err := h.session.Registry.SetDefaults(overlay.DefaultsPatch{
		ImageOpacity:   req.ImageOpacity,
		ImageRotation:  req.ImageRotation,
		FontName:       req.FontName,
		FontSize:       req.FontSize,
		FontOpacity:    req.FontOpacity,
		FontColour:     req.FontColour,
		TextRotation:   req.TextRotation,
		DataFileExpiry: req.DataFileExpiry,
		NoradIDs:       req.NoradIDs,
		IncludePlanets: req.IncludePlanets,
		IncludeSun:     req.IncludeSun,
		IncludeMoon:    req.IncludeMoon,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	defaults := h.session.Registry.Defaults()
	return c.JSON(defaults)
}
