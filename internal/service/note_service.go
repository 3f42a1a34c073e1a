package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/notes-service/internal/domain"
	"github.com/spec-kit/notes-service/internal/events"
	"github.com/spec-kit/notes-service/internal/repository"
	apperrors "github.com/spec-kit/notes-service/pkg/util"
)

// NoteService coordinates note workflows. Every operation takes the owner id
// of the authenticated caller; scoping is enforced by the repository.
type NoteService struct {
	notes      repository.NoteRepository
	dispatcher events.Dispatcher
}

// NoteDependencies bundles requirements for the note service.
type NoteDependencies struct {
	NoteRepo   repository.NoteRepository
	Dispatcher events.Dispatcher
}

// NoteCreateInput describes note creation payload.
type NoteCreateInput struct {
	Title   string
	Content string
	Status  domain.NoteStatus
}

// NoteUpdateInput describes a partial update; nil fields are untouched.
type NoteUpdateInput struct {
	Title   *string
	Content *string
	Status  *domain.NoteStatus
}

// NewNoteService constructs the service.
func NewNoteService(deps NoteDependencies) *NoteService {
	return &NoteService{notes: deps.NoteRepo, dispatcher: deps.Dispatcher}
}

// CreateNote validates input and persists a note owned by ownerID.
func (s *NoteService) CreateNote(ctx context.Context, ownerID string, input NoteCreateInput) (*domain.Note, error) {
	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.NoteStatusOpen
	}
	if !domain.ValidNoteStatus(status) {
		return nil, apperrors.NewFieldValidationError("status", "status must be one of OPEN, IN_PROGRESS, DONE, ARCHIVED")
	}

	note := &domain.Note{
		OwnerID: ownerID,
		Title:   title,
		Content: input.Content,
		Status:  status,
	}
	if err := withRetry(func() error { return s.notes.Create(ctx, note) }); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventNoteCreated,
		NoteID:  note.ID,
		OwnerID: ownerID,
		Payload: events.NoteCreatedPayload{Title: note.Title, Status: note.Status},
	})
	return note, nil
}

// GetNote fetches a single owned note.
func (s *NoteService) GetNote(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("note", nil)
	}

	var note *domain.Note
	err := withRetry(func() error {
		var opErr error
		note, opErr = s.notes.GetByID(ctx, ownerID, id)
		return opErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("note", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return note, nil
}

// ListNotes returns all notes owned by ownerID, most recently updated first.
func (s *NoteService) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	var notes []domain.Note
	err := withRetry(func() error {
		var opErr error
		notes, opErr = s.notes.ListByOwner(ctx, ownerID)
		return opErr
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return notes, nil
}

// UpdateNote applies the supplied fields to an owned note.
func (s *NoteService) UpdateNote(ctx context.Context, ownerID, id string, input NoteUpdateInput) (*domain.Note, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.NewNotFound("note", nil)
	}

	upd := repository.NoteUpdate{Content: input.Content}
	changed := []string{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		upd.Title = &title
		changed = append(changed, "title")
	}
	if input.Content != nil {
		changed = append(changed, "content")
	}
	if input.Status != nil {
		if !domain.ValidNoteStatus(*input.Status) {
			return nil, apperrors.NewFieldValidationError("status", "status must be one of OPEN, IN_PROGRESS, DONE, ARCHIVED")
		}
		upd.Status = input.Status
		changed = append(changed, "status")
	}

	var note *domain.Note
	err := withRetry(func() error {
		var opErr error
		note, opErr = s.notes.Update(ctx, ownerID, id, upd)
		return opErr
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("note", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventNoteUpdated,
		NoteID:  note.ID,
		OwnerID: ownerID,
		Payload: events.NoteUpdatedPayload{ChangedFields: changed, Status: note.Status},
	})
	return note, nil
}

// DeleteNote removes an owned note.
func (s *NoteService) DeleteNote(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound("note", nil)
	}

	err := withRetry(func() error { return s.notes.Delete(ctx, ownerID, id) })
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("note", nil)
		}
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventNoteDeleted,
		NoteID:  id,
		OwnerID: ownerID,
	})
	return nil
}

func (s *NoteService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func validateTitle(title string) error {
	if title == "" {
		return apperrors.NewFieldValidationError("title", "title is required")
	}
	// the limit counts characters, not bytes
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return apperrors.NewFieldValidationError("title", "title must be at most 200 characters")
	}
	return nil
}

// withRetry runs fn, retrying exactly once on transient store failures.
func withRetry(fn func() error) error {
	err := fn()
	if err != nil && repository.IsTransient(err) {
		err = fn()
	}
	return err
}
