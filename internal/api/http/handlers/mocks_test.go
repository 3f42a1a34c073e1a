package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/notes-service/internal/api/http"
	"github.com/spec-kit/notes-service/internal/api/http/handlers"
	"github.com/spec-kit/notes-service/internal/auth"
	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/domain"
	"github.com/spec-kit/notes-service/internal/observability"
	"github.com/spec-kit/notes-service/internal/persistence"
	"github.com/spec-kit/notes-service/internal/repository"
	"github.com/spec-kit/notes-service/internal/service"
)

type mockNoteRepo struct {
	notes     map[string]*domain.Note
	usernames map[string]string
	now       time.Time
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{
		notes:     make(map[string]*domain.Note),
		usernames: make(map[string]string),
		now:       time.Now(),
	}
}

func (m *mockNoteRepo) tick() time.Time {
	m.now = m.now.Add(time.Millisecond)
	return m.now
}

func (m *mockNoteRepo) Create(_ context.Context, note *domain.Note) error {
	now := m.tick()
	note.ID = uuid.NewString()
	note.CreatedAt = now
	note.UpdatedAt = now
	note.OwnerUsername = m.usernames[note.OwnerID]
	stored := *note
	m.notes[note.ID] = &stored
	return nil
}

func (m *mockNoteRepo) GetByID(_ context.Context, ownerID, id string) (*domain.Note, error) {
	note, ok := m.notes[id]
	if !ok || note.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	copied := *note
	return &copied, nil
}

func (m *mockNoteRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Note, error) {
	result := []domain.Note{}
	for _, note := range m.notes {
		if note.OwnerID == ownerID {
			result = append(result, *note)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (m *mockNoteRepo) Update(_ context.Context, ownerID, id string, upd repository.NoteUpdate) (*domain.Note, error) {
	note, ok := m.notes[id]
	if !ok || note.OwnerID != ownerID {
		return nil, pgx.ErrNoRows
	}
	if upd.Title != nil {
		note.Title = *upd.Title
	}
	if upd.Content != nil {
		note.Content = *upd.Content
	}
	if upd.Status != nil {
		note.Status = *upd.Status
	}
	note.UpdatedAt = m.tick()
	copied := *note
	return &copied, nil
}

func (m *mockNoteRepo) Delete(_ context.Context, ownerID, id string) error {
	note, ok := m.notes[id]
	if !ok || note.OwnerID != ownerID {
		return pgx.ErrNoRows
	}
	delete(m.notes, id)
	return nil
}

type mockUserRepo struct {
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	user, ok := m.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

type testEnv struct {
	app    *fiber.App
	notes  *mockNoteRepo
	users  *mockUserRepo
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Config{
		App: config.AppConfig{Name: "notes-service", Env: "development"},
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			RefreshTokenTTLHours:  24,
			BcryptCost:            4,
		},
	}

	noteRepo := newMockNoteRepo()
	userRepo := newMockUserRepo()

	authService := service.NewAuthService(cfg, service.AuthDependencies{UserRepo: userRepo})
	noteService := service.NewNoteService(service.NoteDependencies{NoteRepo: noteRepo})

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App, &persistence.Postgres{}),
		Auth:           handlers.NewAuthHandler(authService),
		Notes:          handlers.NewNotesHandler(noteService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})

	return &testEnv{app: app, notes: noteRepo, users: userRepo, tokens: authService.TokenManager()}
}

func (e *testEnv) createUser(t *testing.T, username, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	user := &domain.User{Username: username, PasswordHash: hash}
	require.NoError(t, e.users.Create(context.Background(), user))
	e.notes.usernames[user.ID] = username
	return user
}

func (e *testEnv) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := e.tokens.GenerateAccessToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
