package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/shop_go_server/internal/testutil"
)

func TestPlanRepository_GetByKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	created := testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))

	found, err := repo.GetByKey("basic")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByKey("nosuchplan")
	assert.Error(t, err)
}

func TestPlanRepository_GetActiveByKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	testutil.TestPlan(t, db, testutil.WithPlanKey("hidden"), testutil.WithInactive())

	// Inactive plans are invisible to submission
	_, err := repo.GetActiveByKey("hidden")
	assert.Error(t, err)

	_, err = repo.GetByKey("hidden")
	require.NoError(t, err)
}

func TestPlanRepository_ListActive_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	p2 := testutil.TestPlan(t, db, testutil.WithPlanKey("pro"))
	p2.SortOrder = 2
	require.NoError(t, repo.Update(p2))
	p1 := testutil.TestPlan(t, db, testutil.WithPlanKey("basic"))
	p1.SortOrder = 1
	require.NoError(t, repo.Update(p1))
	testutil.TestPlan(t, db, testutil.WithPlanKey("legacy"), testutil.WithInactive())

	plans, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "basic", plans[0].Key)
	assert.Equal(t, "pro", plans[1].Key)
}

func TestPlanRepository_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewPlanRepository(db)

	testutil.TestPlan(t, db, testutil.WithPlanKey("doomed"))

	require.NoError(t, repo.Delete("doomed"))

	_, err := repo.GetByKey("doomed")
	assert.Error(t, err)
}

func TestPlan_FinalPrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	plan := testutil.TestPlan(t, db, testutil.WithPrice(99000, 10))
	assert.InDelta(t, 89100.0, plan.FinalPrice(), 0.001)

	noDiscount := testutil.TestPlan(t, db, testutil.WithPrice(299, 0))
	assert.InDelta(t, 299.0, noDiscount.FinalPrice(), 0.001)
}
