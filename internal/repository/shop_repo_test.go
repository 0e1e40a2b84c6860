package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/testutil"
)

func TestShopRepository_CountByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewShopRepository(db)

	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	testutil.TestShop(t, db, owner.ID)
	testutil.TestShop(t, db, owner.ID)
	testutil.TestShop(t, db, other.ID)

	count, err := repo.CountByOwner(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestShopRepository_ExistsBySlug(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewShopRepository(db)

	owner := testutil.TestUser(t, db)
	testutil.TestShop(t, db, owner.ID, testutil.WithSlug("my-shop"))

	exists, err := repo.ExistsBySlug("my-shop")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySlug("other-shop")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestShopRepository_Products(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewShopRepository(db)

	owner := testutil.TestUser(t, db)
	shop := testutil.TestShop(t, db, owner.ID)

	product := &model.Product{
		ShopID:   shop.ID,
		Name:     "测试商品",
		Price:    19.9,
		Currency: "CNY",
		Stock:    10,
		Status:   "on_sale",
	}
	require.NoError(t, repo.CreateProduct(product))
	assert.NotZero(t, product.ID)

	products, err := repo.ListProducts(shop.ID)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	rows, err := repo.DeleteProduct(shop.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Deleting with a mismatched shop updates nothing
	rows, err = repo.DeleteProduct(shop.ID+1, product.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)
}
