package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/juliogarciag/personal-site/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)`,
		u.ID, u.Email, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

// SeedMovement inserts a movement row directly, bypassing the ordering
// logic, so tests can lay out a ledger in any shape they need.
func SeedMovement(t *testing.T, db *sql.DB, userID uuid.UUID, description string, date time.Time, cents, discriminator int64) *domain.Movement {
	t.Helper()

	m := &domain.Movement{
		ID:                uuid.New(),
		UserID:            userID,
		Description:       description,
		Date:              date,
		AmountInCents:     cents,
		SortDiscriminator: discriminator,
		CreatedAt:         time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO movements (id, user_id, description, date, amount_in_cents, sort_discriminator, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.Description, m.Date, m.AmountInCents, m.SortDiscriminator, m.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed movement %q: %v", description, err)
	}
	return m
}

func SeedPost(t *testing.T, db *sql.DB, userID uuid.UUID, title, body string, createdAt time.Time) *domain.Post {
	t.Helper()

	p := &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	_, err := db.Exec(
		`INSERT INTO posts (id, user_id, title, body, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.UserID, p.Title, p.Body, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed post %q: %v", title, err)
	}
	return p
}

func Date(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return date
}
