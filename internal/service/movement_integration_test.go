package service_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliogarciag/personal-site/internal/domain"
	"github.com/juliogarciag/personal-site/internal/repository"
	"github.com/juliogarciag/personal-site/internal/service"
	"github.com/juliogarciag/personal-site/internal/testutil"
)

func setupMovementService(t *testing.T, db *sql.DB, scope domain.AnchorScope) *service.MovementService {
	t.Helper()
	return service.NewMovementService(repository.NewMovementRepository(db), scope)
}

func ids(movements []domain.Movement) []uuid.UUID {
	out := make([]uuid.UUID, len(movements))
	for i, m := range movements {
		out[i] = m.ID
	}
	return out
}

func TestMovementLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeUser)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "julio@test.com")

	first, err := svc.Create(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), first.SortDiscriminator)
	assert.Equal(t, "new movement", first.Description)
	assert.Zero(t, first.AmountInCents)

	second, err := svc.Create(ctx, user.ID, &first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), second.SortDiscriminator)

	between, err := svc.Create(ctx, user.ID, &first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), between.SortDiscriminator)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, between.ID, second.ID}, ids(list))

	require.NoError(t, svc.Delete(ctx, user.ID, between.ID))
	require.NoError(t, svc.Delete(ctx, user.ID, between.ID))

	list, err = svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, ids(list))
	assert.Equal(t, int64(1000), list[0].SortDiscriminator)
	assert.Equal(t, int64(2000), list[1].SortDiscriminator)
}

func TestMovementCreate_RenumbersExhaustedDay(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeUser)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "julio@test.com")
	day := testutil.Date(t, "2021-03-05")
	anchor := testutil.SeedMovement(t, db, user.ID, "rent", day, -50000, 1000)
	last := testutil.SeedMovement(t, db, user.ID, "salary", day, 794764, 2000)

	const inserts = 15
	var created []uuid.UUID
	for range inserts {
		m, err := svc.Create(ctx, user.ID, &anchor.ID)
		require.NoError(t, err)
		created = append(created, m.ID)
	}

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, inserts+2)

	assert.Equal(t, anchor.ID, list[0].ID)
	assert.Equal(t, last.ID, list[len(list)-1].ID)
	for i, id := range created {
		assert.Equal(t, id, list[1+inserts-1-i].ID, "insert %d out of place", i)
	}

	seen := make(map[int64]bool)
	for _, m := range list {
		assert.False(t, seen[m.SortDiscriminator], "duplicate discriminator %d", m.SortDiscriminator)
		seen[m.SortDiscriminator] = true
	}
}

func TestMovementCreate_ForeignAnchor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeUser)
	ctx := context.Background()

	owner := testutil.SeedTestUser(t, db, "owner@test.com")
	intruder := testutil.SeedTestUser(t, db, "intruder@test.com")
	anchor := testutil.SeedMovement(t, db, owner.ID, "groceries", testutil.Date(t, "2021-03-05"), -4200, 1000)

	_, err := svc.Create(ctx, intruder.ID, &anchor.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMovementUpdate_PartialFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeUser)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "julio@test.com")
	m := testutil.SeedMovement(t, db, user.ID, "groceries", testutil.Date(t, "2021-03-01"), -4200, 1000)

	cents := int64(794764)
	updated, err := svc.Update(ctx, user.ID, m.ID, domain.MovementChanges{AmountInCents: &cents})
	require.NoError(t, err)
	assert.Equal(t, int64(794764), updated.AmountInCents)
	assert.Equal(t, "groceries", updated.Description)
	assert.True(t, updated.Date.Equal(m.Date), "date changed: %s", updated.Date)
	assert.Equal(t, int64(1000), updated.SortDiscriminator)

	_, err = svc.Update(ctx, user.ID, m.ID, domain.MovementChanges{})
	require.ErrorIs(t, err, domain.ErrEmptyUpdate)

	_, err = svc.Update(ctx, user.ID, uuid.New(), domain.MovementChanges{AmountInCents: &cents})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementUpdate_DateReordersList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeUser)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "julio@test.com")
	a := testutil.SeedMovement(t, db, user.ID, "first", testutil.Date(t, "2021-03-01"), 0, 1000)
	b := testutil.SeedMovement(t, db, user.ID, "second", testutil.Date(t, "2021-03-02"), 0, 1000)

	moved := testutil.Date(t, "2021-03-05")
	updated, err := svc.Update(ctx, user.ID, a.ID, domain.MovementChanges{Date: &moved})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), updated.SortDiscriminator)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, ids(list))
}

func TestMovementCreate_GlobalScopeFollowsLatestAnywhere(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := setupMovementService(t, db, domain.AnchorScopeGlobal)
	ctx := context.Background()

	user := testutil.SeedTestUser(t, db, "julio@test.com")
	other := testutil.SeedTestUser(t, db, "someone@test.com")
	day := testutil.Date(t, "2021-03-05")
	testutil.SeedMovement(t, db, other.ID, "theirs", day, 0, 5000)

	m, err := svc.Create(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, user.ID, m.UserID)
	assert.Equal(t, int64(6000), m.SortDiscriminator)
	assert.True(t, m.Date.Equal(day), "date should copy the seed movement's day")

	// The seed movement stays in its owner's ledger.
	list, err := svc.List(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
