package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/juliogarciag/personal-site/internal/auth"
)

// ownerFromPath resolves the {id} path segment as a user id and requires it
// to match the authenticated user. A mismatch answers not-found rather than
// forbidden so the API never confirms another user's id.
func ownerFromPath(r *http.Request) (uuid.UUID, *AppError) {
	authUserID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}

	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, ErrResourceNotFound
	}

	if userID != authUserID {
		return uuid.Nil, ErrResourceNotFound
	}

	return userID, nil
}

// authedUser returns the authenticated user id for routes that do not carry
// a user id in the path.
func authedUser(r *http.Request) (uuid.UUID, *AppError) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, ErrMissingToken
	}
	return userID, nil
}
