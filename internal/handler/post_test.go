package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliogarciag/personal-site/internal/auth"
	"github.com/juliogarciag/personal-site/internal/domain"
)

type stubPostService struct {
	createFn  func(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error)
	updateFn  func(ctx context.Context, userID, id uuid.UUID, title, body string) (*domain.Post, error)
	deleteFn  func(ctx context.Context, userID, id uuid.UUID) error
	getFn     func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	listFn    func(ctx context.Context) ([]domain.Post, error)
	listAllFn func(ctx context.Context) ([]domain.Post, error)
}

func (s *stubPostService) CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error) {
	return s.createFn(ctx, userID, title, body)
}

func (s *stubPostService) UpdatePost(ctx context.Context, userID, id uuid.UUID, title, body string) (*domain.Post, error) {
	return s.updateFn(ctx, userID, id, title, body)
}

func (s *stubPostService) DeletePost(ctx context.Context, userID, id uuid.UUID) error {
	return s.deleteFn(ctx, userID, id)
}

func (s *stubPostService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return s.getFn(ctx, id)
}

func (s *stubPostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.listFn(ctx)
}

func (s *stubPostService) ListAllPosts(ctx context.Context) ([]domain.Post, error) {
	return s.listAllFn(ctx)
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(auth.ContextWithUserID(req.Context(), userID))
}

func samplePost(userID uuid.UUID) *domain.Post {
	now := time.Now().UTC()
	return &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "Hello",
		Body:      "World.",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostHandler_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("happy path", func(t *testing.T) {
		svc := &stubPostService{
			createFn: func(ctx context.Context, uID uuid.UUID, title, body string) (*domain.Post, error) {
				assert.Equal(t, userID, uID)
				assert.Equal(t, "Hello", title)
				p := samplePost(uID)
				p.Title, p.Body = title, body
				return p, nil
			},
		}
		rec := httptest.NewRecorder()
		NewPostHandler(svc).Create(rec, authedRequest(http.MethodPost, "/api/v1/admin/posts", `{"title":"Hello","body":"World."}`, userID))

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeResponse(t, rec)
		assert.True(t, resp.Success)
	})

	t.Run("blank title fails validation", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewPostHandler(&stubPostService{}).Create(rec, authedRequest(http.MethodPost, "/api/v1/admin/posts", `{"title":"  ","body":"World."}`, userID))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/posts", strings.NewReader(`{"title":"x","body":"y"}`))
		rec := httptest.NewRecorder()
		NewPostHandler(&stubPostService{}).Create(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPostHandler_Update_MissingPost(t *testing.T) {
	userID := uuid.New()
	svc := &stubPostService{
		updateFn: func(ctx context.Context, uID, id uuid.UUID, title, body string) (*domain.Post, error) {
			return nil, domain.ErrNotFound
		},
	}

	req := authedRequest(http.MethodPut, "/api/v1/admin/posts/x", `{"title":"Hello","body":"World."}`, userID)
	req.SetPathValue("id", uuid.NewString())
	rec := httptest.NewRecorder()
	NewPostHandler(svc).Update(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, "RESOURCE_NOT_FOUND", resp.Error.Code)
}

func TestPostHandler_PublicGet(t *testing.T) {
	post := samplePost(uuid.New())
	svc := &stubPostService{
		getFn: func(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
			require.Equal(t, post.ID, id)
			return post, nil
		},
	}

	// No auth context: the public blog reads anonymously.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+post.ID.String(), nil)
	req.SetPathValue("id", post.ID.String())
	rec := httptest.NewRecorder()
	NewPostHandler(svc).Get(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"title":"Hello"`)
	assert.NotContains(t, body, "user_id", "post payloads do not leak author ids")
}

func TestPostHandler_List(t *testing.T) {
	posts := []domain.Post{*samplePost(uuid.New()), *samplePost(uuid.New())}
	svc := &stubPostService{
		listFn: func(ctx context.Context) ([]domain.Post, error) { return posts, nil },
	}

	rec := httptest.NewRecorder()
	NewPostHandler(svc).List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.True(t, resp.Success)
	items, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestPostHandler_ListAll_RequiresAuth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewPostHandler(&stubPostService{}).ListAll(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/posts", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
