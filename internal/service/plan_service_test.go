package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/repository"
	"github.com/qs3c/shop_go_server/internal/testutil"
)

func setupPlanService(t *testing.T) (*PlanService, *gorm.DB, *miniredis.Miniredis, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	service := NewPlanService(
		repository.NewPlanRepository(db),
		repository.NewPaymentRepository(db),
		rdb,
	)

	cleanup := func() {
		rdb.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	}

	return service, db, mr, cleanup
}

func TestPlanService_GetActivePlans_CachesResult(t *testing.T) {
	service, db, mr, cleanup := setupPlanService(t)
	defer cleanup()

	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"), testutil.WithPrice(99, 0))
	testutil.TestPlan(t, db, testutil.WithPlanKey("legacy"), testutil.WithInactive())

	ctx := context.Background()
	items, err := service.GetActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "basic", items[0].Key)

	// Result is cached
	assert.True(t, mr.Exists(activePlansCacheKey))

	// Cache is served even if the table changes underneath
	testutil.TestPlan(t, db, testutil.WithPlanKey("pro"))
	items, err = service.GetActivePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestPlanService_GetActivePlans_FinalPrice(t *testing.T) {
	service, db, _, cleanup := setupPlanService(t)
	defer cleanup()

	testutil.TestPlan(t, db, testutil.WithPlanKey("pro"), testutil.WithPrice(99000, 10))

	items, err := service.GetActivePlans(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.InDelta(t, 89100.0, items[0].FinalPrice, 0.001)
}

func TestPlanService_Save_InvalidatesCache(t *testing.T) {
	service, db, mr, cleanup := setupPlanService(t)
	defer cleanup()

	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))

	ctx := context.Background()
	_, err := service.GetActivePlans(ctx)
	require.NoError(t, err)
	require.True(t, mr.Exists(activePlansCacheKey))

	limit := 10
	err = service.Save(ctx, &dto.SavePlanRequest{
		Key:            "pro",
		Name:           "专业版",
		Price:          299,
		ShopLimit:      &limit,
		DurationMonths: 1,
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(activePlansCacheKey))

	items, err := service.GetActivePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPlanService_Save_UpdatesByKey(t *testing.T) {
	service, db, _, cleanup := setupPlanService(t)
	defer cleanup()

	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"), testutil.WithPrice(99, 0))

	err := service.Save(context.Background(), &dto.SavePlanRequest{
		Key:             "basic",
		Name:            "基础版",
		Price:           89,
		DiscountPercent: 5,
		DurationMonths:  1,
	})
	require.NoError(t, err)

	plan, err := repository.NewPlanRepository(db).GetByKey("basic")
	require.NoError(t, err)
	assert.Equal(t, 89.0, plan.Price)
	assert.Equal(t, 5, plan.DiscountPercent)
}

func TestPlanService_Delete_ReferencedByPayment(t *testing.T) {
	service, db, _, cleanup := setupPlanService(t)
	defer cleanup()

	testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))
	user := testutil.TestUser(t, db)
	testutil.TestPaymentRequest(t, db, user.ID, testutil.WithPaymentPlan("basic", "基础版", 99))

	err := service.Delete(context.Background(), "basic")
	assert.Equal(t, ErrPlanReferenced, err)

	// Plan still there
	_, err = repository.NewPlanRepository(db).GetByKey("basic")
	require.NoError(t, err)
}

func TestPlanService_Delete_NotFound(t *testing.T) {
	service, _, _, cleanup := setupPlanService(t)
	defer cleanup()

	err := service.Delete(context.Background(), "nosuchplan")
	assert.Equal(t, ErrPlanNotFound, err)
}
