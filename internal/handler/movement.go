package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/logging"
)

type movementService interface {
	Create(ctx context.Context, userID uuid.UUID, anchorID *uuid.UUID) (*domain.Movement, error)
	Update(ctx context.Context, userID, id uuid.UUID, changes domain.MovementChanges) (*domain.Movement, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]domain.Movement, error)
}

type MovementHandler struct {
	movements movementService
}

func NewMovementHandler(movements movementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

type createMovementRequest struct {
	MovementID *uuid.UUID `json:"movement_id"`
}

type updateMovementRequest struct {
	Description *string `json:"description"`
	Date        *string `json:"date"`
	Amount      *string `json:"amount"`
}

func (r updateMovementRequest) toChanges() (domain.MovementChanges, []FieldError) {
	var changes domain.MovementChanges
	var errs []FieldError

	changes.Description = r.Description

	if r.Date != nil {
		date, err := time.Parse(time.DateOnly, *r.Date)
		if err != nil {
			errs = append(errs, FieldError{Field: "date", Message: "must be a YYYY-MM-DD date"})
		} else {
			changes.Date = &date
		}
	}

	if r.Amount != nil {
		cents, err := parseAmountToCents(*r.Amount)
		if err != nil {
			errs = append(errs, FieldError{Field: "amount", Message: "must be a decimal number"})
		} else {
			changes.AmountInCents = &cents
		}
	}

	return changes, errs
}

// parseAmountToCents converts a major-unit decimal string ("79.47") into
// cents, rounding half away from zero like the form layer always has.
func parseAmountToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

type movementDTO struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	Description       string          `json:"description"`
	Date              string          `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	AmountInCents     int64           `json:"amount_in_cents"`
	SortDiscriminator int64           `json:"sort_discriminator"`
	CreatedAt         time.Time       `json:"created_at"`
}

func toMovementDTO(m *domain.Movement) movementDTO {
	return movementDTO{
		ID:          m.ID,
		UserID:      m.UserID,
		Description: m.Description,
		Date:        m.Date.Format(time.DateOnly),
		// Display value only; amount_in_cents stays authoritative.
		Amount:            decimal.New(m.AmountInCents, -2),
		AmountInCents:     m.AmountInCents,
		SortDiscriminator: m.SortDiscriminator,
		CreatedAt:         m.CreatedAt,
	}
}

func (h *MovementHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	// An empty body means "append after my latest movement".
	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	movement, err := h.movements.Create(r.Context(), userID, req.MovementID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create movement", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toMovementDTO(movement))
}

func (h *MovementHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	movementID, err := uuid.Parse(r.PathValue("movementId"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req updateMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	changes, fields := req.toChanges()
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	movement, err := h.movements.Update(r.Context(), userID, movementID, changes)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update movement", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toMovementDTO(movement))
}

func (h *MovementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	movementID, err := uuid.Parse(r.PathValue("movementId"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.movements.Delete(r.Context(), userID, movementID); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete movement", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

func (h *MovementHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, appErr := ownerFromPath(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	movements, err := h.movements.List(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list movements", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]movementDTO, len(movements))
	for i := range movements {
		dtos[i] = toMovementDTO(&movements[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
