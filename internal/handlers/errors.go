package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"overlay-service/internal/overlay"
)

// statusForError maps the editor error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, overlay.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, overlay.ErrSystemFieldProtected),
		errors.Is(err, overlay.ErrAssetInUse):
		return fiber.StatusConflict
	case errors.Is(err, overlay.ErrFileTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, overlay.ErrDuplicateName),
		errors.Is(err, overlay.ErrImmutableField),
		errors.Is(err, overlay.ErrOutOfRange),
		errors.Is(err, overlay.ErrInvalidBundle),
		errors.Is(err, overlay.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusForError(err)).JSON(fiber.Map{
		"error": true, "message": err.Error(),
	})
}
