package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/logging"
)

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	Create(ctx context.Context, p *domain.Post) error
	Update(ctx context.Context, userID, id uuid.UUID, title, body string) (*domain.Post, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
}

type PostService struct {
	posts postRepo
}

func NewPostService(posts postRepo) *PostService {
	return &PostService{posts: posts}
}

func (s *PostService) CreatePost(ctx context.Context, userID uuid.UUID, title, body string) (*domain.Post, error) {
	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("CreatePost: %w", err)
	}

	logging.FromContext(ctx).Info("post created", "post_id", post.ID, "title", title)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, userID, id uuid.UUID, title, body string) (*domain.Post, error) {
	post, err := s.posts.Update(ctx, userID, id, title, body)
	if err != nil {
		return nil, fmt.Errorf("UpdatePost: %w", err)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.posts.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("DeletePost: %w", err)
	}
	logging.FromContext(ctx).Info("post deleted", "post_id", id)
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetPost: %w", err)
	}
	return post, nil
}

// ListPosts is the public blog listing, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListPosts: %w", err)
	}
	return posts, nil
}

// ListAllPosts feeds the admin sidebar.
func (s *PostService) ListAllPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAllPosts: %w", err)
	}
	return posts, nil
}
