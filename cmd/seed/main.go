package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/logging"
	"github.com/juliogarciag/personal-site/internal/repository"
)

type seedConfig struct {
	DatabaseURL  string `env:"DATABASE_URL,required"`
	UserEmail    string `env:"SEED_USER_EMAIL,required"`
	UserPassword string `env:"SEED_USER_PASSWORD,required"`
	SeedDataDir  string `env:"SEED_DATA_DIR" envDefault:"seed-data"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[seedConfig]()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("personal-site-seed", cfg.LogLevel, cfg.AppEnv)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := run(ctx, db, cfg); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("database seeded")
}

func run(ctx context.Context, db *sql.DB, cfg seedConfig) error {
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)

	user, err := ensureUser(ctx, users, cfg.UserEmail, cfg.UserPassword)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := ensureSamplePosts(ctx, posts, user, cfg.SeedDataDir); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// ensureUser creates the owner user, or refreshes the password hash when the
// email already exists so the seed stays idempotent.
func ensureUser(ctx context.Context, users *repository.UserRepository, email, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ensureUser: %w", err)
	}

	user, err := users.GetByEmail(ctx, email)
	if err == nil {
		if err := users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
			return nil, fmt.Errorf("ensureUser: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("ensureUser: %w", err)
	}

	user = &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("ensureUser: %w", err)
	}
	slog.Info("user created", "email", email)
	return user, nil
}

// ensureSamplePosts imports seed-data markdown files as posts when the posts
// table is empty. A file's first line must be a "# Title" heading; the rest
// becomes the body.
func ensureSamplePosts(ctx context.Context, posts *repository.PostRepository, user *domain.User, dir string) error {
	count, err := posts.Count(ctx)
	if err != nil {
		return fmt.Errorf("ensureSamplePosts: %w", err)
	}
	if count > 0 {
		return nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "post.*.md"))
	if err != nil {
		return fmt.Errorf("ensureSamplePosts: %w", err)
	}
	sort.Strings(paths)

	for _, path := range paths {
		title, body, ok, err := readPostFile(path)
		if err != nil {
			return fmt.Errorf("ensureSamplePosts: %w", err)
		}
		if !ok {
			slog.Warn("ignoring seed file without a title heading", "path", path)
			continue
		}

		now := time.Now().UTC()
		post := &domain.Post{
			ID:        uuid.New(),
			UserID:    user.ID,
			Title:     title,
			Body:      body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := posts.Create(ctx, post); err != nil {
			return fmt.Errorf("ensureSamplePosts: %w", err)
		}
		slog.Info("post created", "title", title, "path", path)
	}
	return nil
}

func readPostFile(path string) (title, body string, ok bool, err error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", "", false, err
	}

	titleLine, rest, _ := strings.Cut(string(content), "\n")
	if !strings.HasPrefix(titleLine, "#") {
		return "", "", false, nil
	}

	title = strings.TrimSpace(strings.TrimLeft(titleLine, "#"))
	return title, rest, true, nil
}
