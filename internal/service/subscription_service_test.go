package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/repository"
	"github.com/qs3c/shop_go_server/internal/testutil"
)

func setupSubscriptionService(t *testing.T) (*SubscriptionService, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	service := NewSubscriptionService(
		db,
		repository.NewSubscriptionRepository(db),
		repository.NewUserRepository(db),
	)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, db, cleanup
}

func TestSubscriptionService_GetByUserID(t *testing.T) {
	service, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	_, err := service.GetByUserID(user.ID)
	assert.Equal(t, ErrNoActiveSubscription, err)

	testutil.TestSubscription(t, db, user.ID)

	sub, err := service.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, sub.UserID)
}

func TestSubscriptionService_Cancel(t *testing.T) {
	service, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithUserPlan("pro"))
	testutil.TestSubscription(t, db, user.ID)

	require.NoError(t, service.Cancel(user.ID))

	sub, err := repository.NewSubscriptionRepository(db).GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusCancelled, sub.Status)
	assert.WithinDuration(t, time.Now(), sub.ExpiresAt, 5*time.Second)

	// Plan pointer dropped to free in the same transaction
	refreshed, err := repository.NewUserRepository(db).GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, refreshed.Plan)
}

func TestSubscriptionService_Cancel_NoActive(t *testing.T) {
	service, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)

	assert.Equal(t, ErrNoActiveSubscription, service.Cancel(user.ID))

	user2 := testutil.TestUser(t, db)
	testutil.TestSubscription(t, db, user2.ID,
		testutil.WithSubscriptionStatus(model.SubscriptionStatusCancelled))
	assert.Equal(t, ErrNoActiveSubscription, service.Cancel(user2.ID))
}

func TestSubscriptionService_ExpireDue(t *testing.T) {
	service, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	due := testutil.TestUser(t, db, testutil.WithUserPlan("pro"))
	active := testutil.TestUser(t, db, testutil.WithUserPlan("basic"))
	testutil.TestSubscription(t, db, due.ID, testutil.WithExpiresAt(time.Now().Add(-time.Hour)))
	testutil.TestSubscription(t, db, active.ID, testutil.WithExpiresAt(time.Now().AddDate(0, 1, 0)))

	count, err := service.ExpireDue(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	expiredSub, err := repository.NewSubscriptionRepository(db).GetByUserID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SubscriptionStatusExpired, expiredSub.Status)

	downgraded, err := repository.NewUserRepository(db).GetByID(due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, downgraded.Plan)

	// Active subscription untouched
	untouched, err := repository.NewUserRepository(db).GetByID(active.ID)
	require.NoError(t, err)
	assert.Equal(t, "basic", untouched.Plan)
}

func TestSubscriptionService_ExpireDue_Idempotent(t *testing.T) {
	service, db, cleanup := setupSubscriptionService(t)
	defer cleanup()

	user := testutil.TestUser(t, db, testutil.WithUserPlan("pro"))
	testutil.TestSubscription(t, db, user.ID, testutil.WithExpiresAt(time.Now().Add(-time.Hour)))

	count, err := service.ExpireDue(time.Now())
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = service.ExpireDue(time.Now())
	require.NoError(t, err)
	assert.Zero(t, count)
}
