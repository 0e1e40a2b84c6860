package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/repository"
)

var (
	ErrShopNotFound     = errors.New("店铺不存在")
	ErrShopPermission   = errors.New("无权操作此店铺")
	ErrSlugExists       = errors.New("店铺标识已被占用")
	ErrProductNotFound  = errors.New("商品不存在")
	ErrLogoUploadFailed = errors.New("Logo 上传失败，请稍后重试")
)

// LogoStorage 店铺 Logo 存储（OSS）
type LogoStorage interface {
	UploadShopLogo(shopID int64, data []byte, ext string) (string, error)
	Delete(objectKey string) error
	ExtractObjectKey(url string) string
}

type ShopService struct {
	shopRepo     *repository.ShopRepository
	quotaService *QuotaService
	storage      LogoStorage
}

func NewShopService(shopRepo *repository.ShopRepository, quotaService *QuotaService, storage LogoStorage) *ShopService {
	return &ShopService{
		shopRepo:     shopRepo,
		quotaService: quotaService,
		storage:      storage,
	}
}

// Create 创建店铺。配额不足是硬失败，不创建任何记录。
func (s *ShopService) Create(userID int64, req *dto.CreateShopRequest) (*dto.ShopItem, error) {
	quota, err := s.quotaService.CanCreateShop(userID)
	if err != nil {
		return nil, err
	}
	if !quota.Allowed {
		return nil, ErrShopQuotaExceeded
	}

	exists, err := s.shopRepo.ExistsBySlug(req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugExists
	}

	shop := &model.Shop{
		OwnerID:     userID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Status:      "active",
	}

	if err := s.shopRepo.Create(shop); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugExists
		}
		return nil, err
	}

	return buildShopItem(shop), nil
}

// List 用户自己的店铺
func (s *ShopService) List(userID int64) ([]*dto.ShopItem, error) {
	shops, err := s.shopRepo.ListByOwner(userID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ShopItem, 0, len(shops))
	for _, shop := range shops {
		items = append(items, buildShopItem(shop))
	}
	return items, nil
}

// Get 店铺详情（仅店主）
func (s *ShopService) Get(userID, shopID int64) (*dto.ShopItem, error) {
	shop, err := s.getOwnedShop(userID, shopID)
	if err != nil {
		return nil, err
	}
	return buildShopItem(shop), nil
}

// Update 更新店铺资料
func (s *ShopService) Update(userID, shopID int64, req *dto.UpdateShopRequest) error {
	shop, err := s.getOwnedShop(userID, shopID)
	if err != nil {
		return err
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Description != nil {
		shop.Description = *req.Description
	}
	if req.LogoURL != nil {
		shop.LogoURL = *req.LogoURL
	}

	return s.shopRepo.Update(shop)
}

// UploadLogo 上传店铺 Logo 并替换旧图
func (s *ShopService) UploadLogo(userID, shopID int64, data []byte, ext string) (string, error) {
	shop, err := s.getOwnedShop(userID, shopID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.UploadShopLogo(shopID, data, ext)
	if err != nil {
		return "", ErrLogoUploadFailed
	}

	oldURL := shop.LogoURL
	shop.LogoURL = url
	if err := s.shopRepo.Update(shop); err != nil {
		// 记录没写进去，清掉刚传的对象
		_ = s.storage.Delete(s.storage.ExtractObjectKey(url))
		return "", err
	}

	if oldURL != "" {
		_ = s.storage.Delete(s.storage.ExtractObjectKey(oldURL))
	}
	return url, nil
}

// Delete 删除店铺
func (s *ShopService) Delete(userID, shopID int64) error {
	if _, err := s.getOwnedShop(userID, shopID); err != nil {
		return err
	}
	return s.shopRepo.Delete(shopID)
}

// CreateProduct 在店铺内上架商品
func (s *ShopService) CreateProduct(userID, shopID int64, req *dto.CreateProductRequest) (*dto.ProductItem, error) {
	if _, err := s.getOwnedShop(userID, shopID); err != nil {
		return nil, err
	}

	product := &model.Product{
		ShopID:      shopID,
		Name:        req.Name,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Status:      "on_sale",
	}

	if err := s.shopRepo.CreateProduct(product); err != nil {
		return nil, err
	}

	return buildProductItem(product), nil
}

// ListProducts 店铺商品列表
func (s *ShopService) ListProducts(userID, shopID int64) ([]*dto.ProductItem, error) {
	if _, err := s.getOwnedShop(userID, shopID); err != nil {
		return nil, err
	}

	products, err := s.shopRepo.ListProducts(shopID)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ProductItem, 0, len(products))
	for _, p := range products {
		items = append(items, buildProductItem(p))
	}
	return items, nil
}

// DeleteProduct 下架删除商品
func (s *ShopService) DeleteProduct(userID, shopID, productID int64) error {
	if _, err := s.getOwnedShop(userID, shopID); err != nil {
		return err
	}

	rows, err := s.shopRepo.DeleteProduct(shopID, productID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (s *ShopService) getOwnedShop(userID, shopID int64) (*model.Shop, error) {
	shop, err := s.shopRepo.GetByID(shopID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, err
	}
	if shop.OwnerID != userID {
		return nil, ErrShopPermission
	}
	return shop, nil
}

func buildShopItem(shop *model.Shop) *dto.ShopItem {
	return &dto.ShopItem{
		ShopID:      shop.ID,
		Name:        shop.Name,
		Slug:        shop.Slug,
		Description: shop.Description,
		LogoURL:     shop.LogoURL,
		Status:      shop.Status,
		CreatedAt:   shop.CreatedAt.Format(time.RFC3339),
	}
}

func buildProductItem(p *model.Product) *dto.ProductItem {
	return &dto.ProductItem{
		ProductID: p.ID,
		ShopID:    p.ShopID,
		Name:      p.Name,
		Price:     p.Price,
		Currency:  p.Currency,
		Stock:     p.Stock,
		ImageURL:  p.ImageURL,
		Status:    p.Status,
	}
}
