package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/notes-service/internal/api/dto"
	"github.com/spec-kit/notes-service/internal/auth"
	"github.com/spec-kit/notes-service/internal/service"
	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

// NotesHandler manages the owner-scoped note endpoints.
type NotesHandler struct {
	service *service.NoteService
}

// NewNotesHandler constructs handler.
func NewNotesHandler(noteService *service.NoteService) *NotesHandler {
	return &NotesHandler{service: noteService}
}

// CreateNote POST /notes.
func (h *NotesHandler) CreateNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("MISSING_TOKEN", "authentication required")
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	note, err := h.service.CreateNote(c.UserContext(), principal.UserID, service.NoteCreateInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromNote(note))
}

// ListNotes GET /notes.
func (h *NotesHandler) ListNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("MISSING_TOKEN", "authentication required")
	}
	notes, err := h.service.ListNotes(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	items := make([]dto.NoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, dto.FromNote(&notes[i]))
	}
	return c.JSON(items)
}

// GetNote GET /notes/:id.
func (h *NotesHandler) GetNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("MISSING_TOKEN", "authentication required")
	}
	note, err := h.service.GetNote(c.UserContext(), principal.UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromNote(note))
}

// UpdateNote PATCH /notes/:id.
func (h *NotesHandler) UpdateNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("MISSING_TOKEN", "authentication required")
	}
	var req dto.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("validation failed", details)
	}

	note, err := h.service.UpdateNote(c.UserContext(), principal.UserID, c.Params("id"), service.NoteUpdateInput{
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.FromNote(note))
}

// DeleteNote DELETE /notes/:id.
func (h *NotesHandler) DeleteNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewAuthError("MISSING_TOKEN", "authentication required")
	}
	if err := h.service.DeleteNote(c.UserContext(), principal.UserID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
