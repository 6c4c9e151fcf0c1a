package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post is a blog article. Body holds raw markdown; rendering happens on the
// client, the API serves it untouched.
type Post struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
