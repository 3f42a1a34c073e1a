package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/notes-service/internal/domain"
)

// NoteUpdate carries the subset of fields a PATCH supplies. Nil means the
// field is left untouched; updated_at is refreshed regardless.
type NoteUpdate struct {
	Title   *string
	Content *string
	Status  *domain.NoteStatus
}

// NoteRepository encapsulates note persistence. Every operation is scoped by
// the owner id; there is no unscoped variant, so a note belonging to another
// owner is indistinguishable from a missing one.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, ownerID, id string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error)
	Update(ctx context.Context, ownerID, id string, upd NoteUpdate) (*domain.Note, error)
	Delete(ctx context.Context, ownerID, id string) error
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository instantiates repository.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

const noteColumns = `n.id, n.owner_id, u.username, n.title, n.content, n.status, n.created_at, n.updated_at`

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        WITH inserted AS (
            INSERT INTO notes (owner_id, title, content, status)
            VALUES ($1, $2, $3, $4)
            RETURNING id, owner_id, title, content, status, created_at, updated_at
        )
        SELECT n.id, n.owner_id, u.username, n.title, n.content, n.status, n.created_at, n.updated_at
        FROM inserted n JOIN users u ON u.id = n.owner_id`
	return r.pool.QueryRow(ctx, query,
		note.OwnerID,
		note.Title,
		note.Content,
		note.Status,
	).Scan(
		&note.ID,
		&note.OwnerID,
		&note.OwnerUsername,
		&note.Title,
		&note.Content,
		&note.Status,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
}

func (r *noteRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Note, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM notes n JOIN users u ON u.id = n.owner_id
        WHERE n.owner_id=$1 AND n.id=$2`, noteColumns)

	var note domain.Note
	if err := r.pool.QueryRow(ctx, query, ownerID, id).Scan(
		&note.ID,
		&note.OwnerID,
		&note.OwnerUsername,
		&note.Title,
		&note.Content,
		&note.Status,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Note, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM notes n JOIN users u ON u.id = n.owner_id
        WHERE n.owner_id=$1
        ORDER BY n.updated_at DESC, n.id DESC`, noteColumns)

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotes(rows)
}

func (r *noteRepository) Update(ctx context.Context, ownerID, id string, upd NoteUpdate) (*domain.Note, error) {
	// updated_at uses clock_timestamp() so consecutive updates inside the
	// same transaction window still produce strictly increasing values.
	sets := []string{"updated_at=clock_timestamp()"}
	args := []any{}

	if upd.Title != nil {
		args = append(args, *upd.Title)
		sets = append(sets, fmt.Sprintf("title=$%d", len(args)))
	}
	if upd.Content != nil {
		args = append(args, *upd.Content)
		sets = append(sets, fmt.Sprintf("content=$%d", len(args)))
	}
	if upd.Status != nil {
		args = append(args, *upd.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}

	args = append(args, ownerID)
	ownerArg := len(args)
	args = append(args, id)
	idArg := len(args)

	query := fmt.Sprintf(`
        WITH updated AS (
            UPDATE notes SET %s
            WHERE owner_id=$%d AND id=$%d
            RETURNING id, owner_id, title, content, status, created_at, updated_at
        )
        SELECT n.id, n.owner_id, u.username, n.title, n.content, n.status, n.created_at, n.updated_at
        FROM updated n JOIN users u ON u.id = n.owner_id`,
		strings.Join(sets, ", "), ownerArg, idArg)

	var note domain.Note
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&note.ID,
		&note.OwnerID,
		&note.OwnerUsername,
		&note.Title,
		&note.Content,
		&note.Status,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) Delete(ctx context.Context, ownerID, id string) error {
	const query = `DELETE FROM notes WHERE owner_id=$1 AND id=$2`
	cmd, err := r.pool.Exec(ctx, query, ownerID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanNotes(rows pgx.Rows) ([]domain.Note, error) {
	result := []domain.Note{}
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.OwnerID,
			&note.OwnerUsername,
			&note.Title,
			&note.Content,
			&note.Status,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, note)
	}
	return result, rows.Err()
}
