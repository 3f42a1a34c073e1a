package events

import (
	"time"

	"github.com/spec-kit/notes-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventNoteCreated EventType = "note_created"
	EventNoteUpdated EventType = "note_updated"
	EventNoteDeleted EventType = "note_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	NoteID    string      `json:"note_id"`
	OwnerID   string      `json:"owner_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NoteCreatedPayload payload.
type NoteCreatedPayload struct {
	Title  string            `json:"title"`
	Status domain.NoteStatus `json:"status"`
}

// NoteUpdatedPayload payload.
type NoteUpdatedPayload struct {
	ChangedFields []string          `json:"changed_fields"`
	Status        domain.NoteStatus `json:"status"`
}
