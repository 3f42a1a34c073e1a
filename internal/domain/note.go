package domain

import "time"

// NoteStatus enumerates lifecycle states for notes. Any member is a legal
// transition target for any other; there is no transition graph.
type NoteStatus string

const (
	NoteStatusOpen       NoteStatus = "OPEN"
	NoteStatusInProgress NoteStatus = "IN_PROGRESS"
	NoteStatusDone       NoteStatus = "DONE"
	NoteStatusArchived   NoteStatus = "ARCHIVED"
)

// ValidNoteStatus reports whether s is one of the four enum members.
func ValidNoteStatus(s NoteStatus) bool {
	switch s {
	case NoteStatusOpen, NoteStatusInProgress, NoteStatusDone, NoteStatusArchived:
		return true
	}
	return false
}

// MaxTitleLength bounds note titles.
const MaxTitleLength = 200

// Note is a short text note owned by exactly one user.
type Note struct {
	ID            string
	OwnerID       string
	OwnerUsername string
	Title         string
	Content       string
	Status        NoteStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
