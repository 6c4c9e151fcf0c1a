package domain

import (
	"time"

	"github.com/google/uuid"
)

// SortGap is the spacing reserved between adjacent sort discriminators so
// that a movement can be inserted between two neighbors without renumbering
// the rest of the day.
const SortGap int64 = 1000

// AnchorScope controls which movement seeds the sort discriminator when a
// movement is created without an explicit anchor.
type AnchorScope string

const (
	// AnchorScopeUser seeds from the calling user's most recently created
	// movement.
	AnchorScopeUser AnchorScope = "user"
	// AnchorScopeGlobal seeds from the most recently created movement in the
	// whole table, regardless of owner.
	AnchorScopeGlobal AnchorScope = "global"
)

func (s AnchorScope) IsValid() bool {
	return s == AnchorScopeUser || s == AnchorScopeGlobal
}

// Movement is one entry in a user's ledger. Movements are ordered by
// (Date asc, SortDiscriminator asc); the discriminator has no meaning beyond
// relative position within a date and is only ever written by the insertion
// logic, never by the user.
type Movement struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Description       string
	Date              time.Time // calendar date, midnight UTC
	AmountInCents     int64
	SortDiscriminator int64
	CreatedAt         time.Time
}

// MovementChanges is a partial update. Nil fields are left untouched.
// The sort discriminator is deliberately absent.
type MovementChanges struct {
	Description   *string
	Date          *time.Time
	AmountInCents *int64
}

func (c MovementChanges) IsEmpty() bool {
	return c.Description == nil && c.Date == nil && c.AmountInCents == nil
}
