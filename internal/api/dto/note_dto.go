package dto

import (
	"time"

	"github.com/spec-kit/notes-service/internal/domain"
)

// CreateNoteRequest payload. Server-assigned fields (id, owner, timestamps)
// are not part of the request type, so clients cannot set them.
type CreateNoteRequest struct {
	Title   string            `json:"title" validate:"required,max=200"`
	Content string            `json:"content"`
	Status  domain.NoteStatus `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE ARCHIVED"`
}

// UpdateNoteRequest payload; absent fields are left untouched.
type UpdateNoteRequest struct {
	Title   *string            `json:"title" validate:"omitempty,max=200"`
	Content *string            `json:"content"`
	Status  *domain.NoteStatus `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS DONE ARCHIVED"`
}

// NoteResponse is the wire representation of a note.
type NoteResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Status    domain.NoteStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	Owner     string            `json:"owner"`
}

// FromNote maps a domain note to its wire representation.
func FromNote(note *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Status:    note.Status,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Owner:     note.OwnerUsername,
	}
}
