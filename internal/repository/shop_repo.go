package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
)

type ShopRepository struct {
	db *gorm.DB
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

func (r *ShopRepository) Create(shop *model.Shop) error {
	return r.db.Create(shop).Error
}

func (r *ShopRepository) GetByID(id int64) (*model.Shop, error) {
	var shop model.Shop
	err := r.db.Where("id = ?", id).First(&shop).Error
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *ShopRepository) Update(shop *model.Shop) error {
	return r.db.Save(shop).Error
}

func (r *ShopRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&model.Shop{}).Error
}

// CountByOwner 配额检查用：该用户名下的店铺数
func (r *ShopRepository) CountByOwner(ownerID int64) (int, error) {
	var count int64
	err := r.db.Model(&model.Shop{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return int(count), err
}

func (r *ShopRepository) ListByOwner(ownerID int64) ([]*model.Shop, error) {
	var shops []*model.Shop
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&shops).Error
	return shops, err
}

func (r *ShopRepository) ExistsBySlug(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Shop{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// --- 商品 ---

func (r *ShopRepository) CreateProduct(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *ShopRepository) ListProducts(shopID int64) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.Where("shop_id = ?", shopID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *ShopRepository) DeleteProduct(shopID, productID int64) (int64, error) {
	res := r.db.Where("id = ? AND shop_id = ?", productID, shopID).Delete(&model.Product{})
	return res.RowsAffected, res.Error
}
