package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/logging"
)

type movementRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Movement, error)
	GetMostRecentlyCreated(ctx context.Context) (*domain.Movement, error)
	GetMostRecentlyCreatedByUser(ctx context.Context, userID uuid.UUID) (*domain.Movement, error)
	GetSuccessor(ctx context.Context, userID uuid.UUID, date time.Time, discriminator int64) (*domain.Movement, error)
	Insert(ctx context.Context, m *domain.Movement) error
	Update(ctx context.Context, userID, id uuid.UUID, changes domain.MovementChanges) (*domain.Movement, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Movement, error)
	RenumberDay(ctx context.Context, userID uuid.UUID, date time.Time, gap int64) error
}

// MovementService owns the ordering of a user's ledger. Movements sort by
// (date, sort discriminator); the service hands out discriminators so that a
// movement can always be slotted right after an anchor without rewriting the
// keys of its neighbors.
type MovementService struct {
	movements   movementRepo
	anchorScope domain.AnchorScope
}

func NewMovementService(movements movementRepo, anchorScope domain.AnchorScope) *MovementService {
	return &MovementService{movements: movements, anchorScope: anchorScope}
}

const newMovementDescription = "new movement"

// Create inserts a new movement directly after the anchor. With no anchor
// the most recently created movement (scoped per configuration) seeds the
// position; with no movements at all the new one starts a fresh ledger
// dated today.
func (s *MovementService) Create(ctx context.Context, userID uuid.UUID, anchorID *uuid.UUID) (*domain.Movement, error) {
	log := logging.FromContext(ctx)

	anchor, err := s.resolveAnchor(ctx, userID, anchorID)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	discriminator, err := s.nextDiscriminatorAfter(ctx, anchor)
	if err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if anchor != nil {
		date = anchor.Date
	}

	movement := &domain.Movement{
		ID:                uuid.New(),
		UserID:            userID,
		Description:       newMovementDescription,
		Date:              date,
		AmountInCents:     0,
		SortDiscriminator: discriminator,
		CreatedAt:         time.Now().UTC(),
	}

	if err := s.movements.Insert(ctx, movement); err != nil {
		return nil, fmt.Errorf("Create: %w", err)
	}

	log.Info("movement created",
		"movement_id", movement.ID,
		"user_id", userID,
		"date", movement.Date.Format(time.DateOnly),
		"sort_discriminator", discriminator,
	)

	return movement, nil
}

// Update applies a partial change to one of the user's movements. A movement
// owned by someone else is indistinguishable from a missing one.
func (s *MovementService) Update(ctx context.Context, userID, id uuid.UUID, changes domain.MovementChanges) (*domain.Movement, error) {
	if changes.IsEmpty() {
		return nil, fmt.Errorf("Update: %w", domain.ErrEmptyUpdate)
	}

	movement, err := s.movements.Update(ctx, userID, id, changes)
	if err != nil {
		return nil, fmt.Errorf("Update: %w", err)
	}
	return movement, nil
}

// Delete is idempotent: removing a missing movement succeeds. Surviving
// movements keep their discriminators, so the gaps a deletion leaves behind
// are simply reused by later inserts.
func (s *MovementService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.movements.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

// List returns the user's movements ordered by date, then discriminator.
func (s *MovementService) List(ctx context.Context, userID uuid.UUID) ([]domain.Movement, error) {
	movements, err := s.movements.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return movements, nil
}

// resolveAnchor picks the movement the new one goes after. An explicit
// anchor must exist and belong to the caller. Without one, the most recently
// created movement serves as the seed; that lookup honors the configured
// scope because the global variant can pick up another user's movement.
func (s *MovementService) resolveAnchor(ctx context.Context, userID uuid.UUID, anchorID *uuid.UUID) (*domain.Movement, error) {
	if anchorID != nil {
		anchor, err := s.movements.GetByID(ctx, *anchorID)
		if err != nil {
			return nil, err
		}
		if anchor.UserID != userID {
			return nil, domain.ErrNotFound
		}
		return anchor, nil
	}

	var (
		anchor *domain.Movement
		err    error
	)
	if s.anchorScope == domain.AnchorScopeGlobal {
		anchor, err = s.movements.GetMostRecentlyCreated(ctx)
	} else {
		anchor, err = s.movements.GetMostRecentlyCreatedByUser(ctx, userID)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return anchor, nil
}

// nextDiscriminatorAfter returns the sort key for a movement inserted right
// after the anchor. After the last movement of a day the key is
// anchor+SortGap, leaving room for later inserts. Between two movements it
// is the midpoint of their keys; when repeated inserts at the same spot
// squeeze that interval shut, the whole day is renumbered back to multiples
// of SortGap and the midpoint is taken once more.
func (s *MovementService) nextDiscriminatorAfter(ctx context.Context, anchor *domain.Movement) (int64, error) {
	if anchor == nil {
		return domain.SortGap, nil
	}

	successor, err := s.movements.GetSuccessor(ctx, anchor.UserID, anchor.Date, anchor.SortDiscriminator)
	if errors.Is(err, domain.ErrNotFound) {
		return anchor.SortDiscriminator + domain.SortGap, nil
	}
	if err != nil {
		return 0, err
	}

	if successor.SortDiscriminator-anchor.SortDiscriminator <= 1 {
		if err := s.movements.RenumberDay(ctx, anchor.UserID, anchor.Date, domain.SortGap); err != nil {
			return 0, err
		}
		logging.FromContext(ctx).Info("renumbered day",
			"user_id", anchor.UserID,
			"date", anchor.Date.Format(time.DateOnly),
		)

		anchor, err = s.movements.GetByID(ctx, anchor.ID)
		if err != nil {
			return 0, err
		}
		successor, err = s.movements.GetSuccessor(ctx, anchor.UserID, anchor.Date, anchor.SortDiscriminator)
		if err != nil {
			return 0, err
		}
	}

	return anchor.SortDiscriminator + (successor.SortDiscriminator-anchor.SortDiscriminator)/2, nil
}
