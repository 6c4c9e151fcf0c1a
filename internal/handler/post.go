package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/logging"
)

type postService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error)
	UpdatePost(ctx context.Context, userID, id uuid.UUID, title, body string) (*domain.Post, error)
	DeletePost(ctx context.Context, userID, id uuid.UUID) error
	GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	ListAllPosts(ctx context.Context) ([]domain.Post, error)
}

type PostHandler struct {
	posts postService
}

func NewPostHandler(posts postService) *PostHandler {
	return &PostHandler{posts: posts}
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r postRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, FieldError{Field: "title", Message: "required"})
	}
	if strings.TrimSpace(r.Body) == "" {
		errs = append(errs, FieldError{Field: "body", Message: "required"})
	}
	return errs
}

type postDTO struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toPostDTO(p *domain.Post) postDTO {
	return postDTO{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, appErr := authedUser(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	post, err := h.posts.CreatePost(r.Context(), userID, req.Title, req.Body)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to create post", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toPostDTO(post))
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, appErr := authedUser(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}

	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), userID, postID, req.Title, req.Body)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to update post", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPostDTO(post))
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, appErr := authedUser(r)
	if appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	if err := h.posts.DeletePost(r.Context(), userID, postID); err != nil {
		logging.FromContext(r.Context()).Error("failed to delete post", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, nil)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	post, err := h.posts.GetPost(r.Context(), postID)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPostDTO(post))
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.ListPosts(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list posts", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPostDTOs(posts))
}

func (h *PostHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if _, appErr := authedUser(r); appErr != nil {
		RespondAppError(w, appErr, nil)
		return
	}

	posts, err := h.posts.ListAllPosts(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list posts", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, toPostDTOs(posts))
}

func toPostDTOs(posts []domain.Post) []postDTO {
	dtos := make([]postDTO, len(posts))
	for i := range posts {
		dtos[i] = toPostDTO(&posts[i])
	}
	return dtos
}
