package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/notes-service/internal/auth"
	"github.com/spec-kit/notes-service/internal/config"
	"github.com/spec-kit/notes-service/internal/domain"
	"github.com/spec-kit/notes-service/internal/persistence"
	"github.com/spec-kit/notes-service/internal/repository"
)

// Offline demo seeder. Runs directly against the store, outside the serving
// core, and refuses to touch non-development environments unless forced.

var baseUsers = []string{"demo", "alice", "bob", "charlie", "dana", "eric", "frank"}

var noteTitles = []string{
	"Buy groceries", "Plan sprint tasks", "Read API docs", "Refactor API",
	"Fix login bug", "Update CI pipeline", "Write tests", "Review PR #42",
	"Prepare demo", "Backup database", "Draft release notes", "Clean images",
}

var noteBodies = []string{
	"Remember to get milk, eggs, and bread.",
	"Break down tickets and estimate.",
	"Focus on permissions & throttling.",
	"Simplify serializers and views.",
	"Repro and add unit tests.",
	"Enable BuildKit caching.",
	"Cover the critical flows first.",
	"Leave comments and suggestions.",
	"Slides and live walkthrough.",
	"Rotate credentials & verify restores.",
	"Summarize features and fixes.",
	"Prune dangling images weekly.",
}

var statusCycle = []domain.NoteStatus{
	domain.NoteStatusOpen,
	domain.NoteStatusInProgress,
	domain.NoteStatusDone,
	domain.NoteStatusArchived,
}

func main() {
	userCount := flag.Int("users", 3, "number of demo users")
	notesPerUser := flag.Int("notes", 12, "notes per user")
	password := flag.String("password", "demo1234", "password for all demo users")
	allowProd := flag.Bool("allow-prod", false, "allow running outside development")
	clear := flag.Bool("clear", false, "delete demo users & their notes, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.App.Debug() && !*allowProd {
		log.Fatalf("refusing to run with APP_ENV=%s; pass -allow-prod if you really mean it", cfg.App.Env)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required")
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	userRepo := repository.NewUserRepository(pool)
	noteRepo := repository.NewNoteRepository(pool)
	usernames := demoUsernames(*userCount)

	if *clear {
		usersDeleted, notesDeleted := 0, 0
		for _, uname := range usernames {
			user, err := userRepo.GetByUsername(ctx, uname)
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			if err != nil {
				logger.Fatal("lookup user", zap.String("username", uname), zap.Error(err))
			}
			notes, err := noteRepo.ListByOwner(ctx, user.ID)
			if err != nil {
				logger.Fatal("list notes", zap.String("username", uname), zap.Error(err))
			}
			// user deletion cascades to notes at the schema level
			if err := userRepo.Delete(ctx, user.ID); err != nil {
				logger.Fatal("delete user", zap.String("username", uname), zap.Error(err))
			}
			usersDeleted++
			notesDeleted += len(notes)
		}
		logger.Info("cleared demo data", zap.Int("users", usersDeleted), zap.Int("notes", notesDeleted))
		return
	}

	hash, err := auth.HashPassword(*password, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("hash password", zap.Error(err))
	}

	users := make([]*domain.User, 0, len(usernames))
	for _, uname := range usernames {
		user, err := ensureUser(ctx, userRepo, uname, hash)
		if err != nil {
			logger.Fatal("ensure user", zap.String("username", uname), zap.Error(err))
		}
		users = append(users, user)
	}

	created := 0
	for _, user := range users {
		n, err := seedNotes(ctx, pool, noteRepo, user, *notesPerUser)
		if err != nil {
			logger.Fatal("seed notes", zap.String("username", user.Username), zap.Error(err))
		}
		created += n
	}

	logger.Info("seed complete",
		zap.Int("users", len(users)),
		zap.Int("notes_per_user", *notesPerUser),
		zap.Int("new_notes", created))
	logger.Info("try login", zap.String("username", "demo"), zap.String("password", *password))
}

func demoUsernames(n int) []string {
	if n < 1 {
		n = 1
	}
	if n <= len(baseUsers) {
		return baseUsers[:n]
	}
	names := append([]string{}, baseUsers...)
	for i := len(baseUsers) + 1; i <= n; i++ {
		names = append(names, fmt.Sprintf("user%d", i))
	}
	return names
}

// ensureUser creates the user or resets its password, keeping reruns
// deterministic.
func ensureUser(ctx context.Context, users repository.UserRepository, username, hash string) (*domain.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if err == nil {
		if err := users.UpdatePassword(ctx, user.ID, hash); err != nil {
			return nil, err
		}
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	user = &domain.User{
		Username:     username,
		Email:        fmt.Sprintf("%s@example.test", username),
		PasswordHash: hash,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// seedNotes creates up to perUser notes idempotently: a note is skipped when
// the owner already has one with the same title. Timestamps are nudged into
// the recent past for realism.
func seedNotes(ctx context.Context, pool *pgxpool.Pool, notes repository.NoteRepository, user *domain.User, perUser int) (int, error) {
	if perUser < 1 {
		perUser = 1
	}
	created := 0
	for i := 0; i < perUser; i++ {
		title := noteTitles[i%len(noteTitles)]
		if i >= len(noteTitles) {
			title = fmt.Sprintf("%s (%d)", title, i/len(noteTitles)+1)
		}

		var existing string
		err := pool.QueryRow(ctx,
			`SELECT id FROM notes WHERE owner_id=$1 AND title=$2 LIMIT 1`,
			user.ID, title).Scan(&existing)
		if err == nil {
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return created, err
		}

		note := &domain.Note{
			OwnerID: user.ID,
			Title:   title,
			Content: noteBodies[i%len(noteBodies)],
			Status:  statusCycle[i%len(statusCycle)],
		}
		if err := notes.Create(ctx, note); err != nil {
			return created, err
		}

		createdAt := time.Now().AddDate(0, 0, -rand.Intn(15))
		updatedAt := createdAt.Add(time.Duration(1+rand.Intn(48)) * time.Hour)
		if _, err := pool.Exec(ctx,
			`UPDATE notes SET created_at=$1, updated_at=$2 WHERE id=$3`,
			createdAt, updatedAt, note.ID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
