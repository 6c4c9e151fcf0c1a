package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/repository"
	"github.com/juliogarciag/personal-site/internal/testutil"
)

func TestPostRepository_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	author := testutil.SeedTestUser(t, db, "julio@test.com")

	now := time.Now().UTC()
	post := &domain.Post{
		ID:        uuid.New(),
		UserID:    author.ID,
		Title:     "Hello",
		Body:      "First post.",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, post))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "First post.", got.Body)
	assert.Equal(t, author.ID, got.UserID)

	updated, err := repo.Update(ctx, author.ID, post.ID, "Hello again", "Edited.")
	require.NoError(t, err)
	assert.Equal(t, "Hello again", updated.Title)
	assert.Equal(t, "Edited.", updated.Body)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt) || updated.UpdatedAt.Equal(updated.CreatedAt))

	require.NoError(t, repo.Delete(ctx, author.ID, post.ID))
	_, err = repo.GetByID(ctx, post.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostRepository_UpdateAndDeleteScopedToOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	author := testutil.SeedTestUser(t, db, "owner@test.com")
	intruder := testutil.SeedTestUser(t, db, "intruder@test.com")
	post := testutil.SeedPost(t, db, author.ID, "Mine", "Body.", time.Now().UTC())

	_, err := repo.Update(ctx, intruder.ID, post.ID, "Hijacked", "Nope.")
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, intruder.ID, post.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = repo.Delete(ctx, author.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestPostRepository_ListOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewPostRepository(db)
	ctx := context.Background()

	author := testutil.SeedTestUser(t, db, "julio@test.com")
	base := time.Now().UTC().Add(-time.Hour)
	oldest := testutil.SeedPost(t, db, author.ID, "Oldest", "1", base)
	middle := testutil.SeedPost(t, db, author.ID, "Middle", "2", base.Add(time.Minute))
	newest := testutil.SeedPost(t, db, author.ID, "Newest", "3", base.Add(2*time.Minute))

	public, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, public, 3)
	assert.Equal(t, []uuid.UUID{newest.ID, middle.ID, oldest.ID},
		[]uuid.UUID{public[0].ID, public[1].ID, public[2].ID})

	admin, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, admin, 3)
	assert.Equal(t, []uuid.UUID{oldest.ID, middle.ID, newest.ID},
		[]uuid.UUID{admin[0].ID, admin[1].ID, admin[2].ID})

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
