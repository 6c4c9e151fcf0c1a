package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juliogarciag/personal-site/internal/domain"
)

const movementColumns = `id, user_id, description, date, amount_in_cents,
	sort_discriminator, created_at`

type MovementRepository struct {
	db *sql.DB
}

func NewMovementRepository(db *sql.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

func (r *MovementRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements WHERE id = $1`, id,
	)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return m, nil
}

// GetMostRecentlyCreated returns the newest movement in the whole table.
func (r *MovementRepository) GetMostRecentlyCreated(ctx context.Context) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements ORDER BY created_at DESC LIMIT 1`,
	)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetMostRecentlyCreated: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetMostRecentlyCreated: %w", err)
	}
	return m, nil
}

// GetMostRecentlyCreatedByUser returns the newest movement owned by userID.
func (r *MovementRepository) GetMostRecentlyCreatedByUser(ctx context.Context, userID uuid.UUID) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID,
	)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetMostRecentlyCreatedByUser: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetMostRecentlyCreatedByUser: %w", err)
	}
	return m, nil
}

// GetSuccessor returns the movement that directly follows the given position
// within one user's day: the smallest sort discriminator strictly greater
// than discriminator on the same date.
func (r *MovementRepository) GetSuccessor(ctx context.Context, userID uuid.UUID, date time.Time, discriminator int64) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE user_id = $1 AND date = $2 AND sort_discriminator > $3
		ORDER BY sort_discriminator ASC, created_at ASC LIMIT 1`,
		userID, date, discriminator,
	)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetSuccessor: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetSuccessor: %w", err)
	}
	return m, nil
}

func (r *MovementRepository) Insert(ctx context.Context, m *domain.Movement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO movements (
			id, user_id, description, date, amount_in_cents,
			sort_discriminator, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.Description, m.Date, m.AmountInCents,
		m.SortDiscriminator, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of changes to one of the user's
// movements in a single statement. The sort discriminator is never part of
// the SET list.
func (r *MovementRepository) Update(ctx context.Context, userID, id uuid.UUID, changes domain.MovementChanges) (*domain.Movement, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE movements SET
			description = COALESCE($3, description),
			date = COALESCE($4, date),
			amount_in_cents = COALESCE($5, amount_in_cents)
		WHERE id = $1 AND user_id = $2
		RETURNING `+movementColumns,
		id, userID, changes.Description, changes.Date, changes.AmountInCents,
	)
	m, err := scanMovement(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("Update: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("Update: %w", err)
	}
	return m, nil
}

// Delete removes one of the user's movements. Deleting a movement that does
// not exist (or belongs to someone else) is a silent no-op.
func (r *MovementRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM movements WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (r *MovementRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Movement, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+movementColumns+` FROM movements
		WHERE user_id = $1
		ORDER BY date ASC, sort_discriminator ASC, created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	defer rows.Close()

	var movements []domain.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByUser: scan: %w", err)
		}
		movements = append(movements, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListByUser: rows: %w", err)
	}
	return movements, nil
}

// RenumberDay rewrites the sort discriminators of one user's day to
// gap, 2*gap, 3*gap... preserving the current relative order. Runs as a
// single statement so readers never observe a half-renumbered day.
func (r *MovementRepository) RenumberDay(ctx context.Context, userID uuid.UUID, date time.Time, gap int64) error {
	_, err := r.db.ExecContext(ctx,
		`WITH ranked AS (
			SELECT id, ROW_NUMBER() OVER (
				ORDER BY sort_discriminator ASC, created_at ASC
			) AS position
			FROM movements WHERE user_id = $1 AND date = $2
		)
		UPDATE movements m SET sort_discriminator = ranked.position * $3
		FROM ranked WHERE m.id = ranked.id`,
		userID, date, gap,
	)
	if err != nil {
		return fmt.Errorf("RenumberDay: %w", err)
	}
	return nil
}

func scanMovement(s scanner) (*domain.Movement, error) {
	var m domain.Movement
	err := s.Scan(
		&m.ID, &m.UserID, &m.Description, &m.Date,
		&m.AmountInCents, &m.SortDiscriminator, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
