package handler

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/api/middleware"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/pkg/response"
	"github.com/qs3c/shop_go_server/internal/service"
)

type ShopHandler struct {
	shopService  *service.ShopService
	quotaService *service.QuotaService
	cfg          *config.Config
}

func NewShopHandler(shopService *service.ShopService, quotaService *service.QuotaService, cfg *config.Config) *ShopHandler {
	return &ShopHandler{
		shopService:  shopService,
		quotaService: quotaService,
		cfg:          cfg,
	}
}

// GetQuota 当前店铺配额
// GET /api/v1/shops/quota
func (h *ShopHandler) GetQuota(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	quota, err := h.quotaService.CanCreateShop(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, quota)
}

// Create 创建店铺
// POST /api/v1/shops
func (h *ShopHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.shopService.Create(userID, &req)
	if err != nil {
		switch err {
		case service.ErrShopQuotaExceeded:
			response.QuotaError(c, err.Error())
		case service.ErrSlugExists:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "创建成功", item)
}

// List 自己的店铺列表
// GET /api/v1/shops
func (h *ShopHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.shopService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Get 店铺详情
// GET /api/v1/shops/:id
func (h *ShopHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	item, err := h.shopService.Get(userID, shopID)
	if err != nil {
		h.renderShopError(c, err)
		return
	}

	response.Success(c, item)
}

// Update 更新店铺
// PUT /api/v1/shops/:id
func (h *ShopHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	var req dto.UpdateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.shopService.Update(userID, shopID, &req); err != nil {
		h.renderShopError(c, err)
		return
	}

	response.SuccessWithMessage(c, "更新成功", nil)
}

// Delete 删除店铺
// DELETE /api/v1/shops/:id
func (h *ShopHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	if err := h.shopService.Delete(userID, shopID); err != nil {
		h.renderShopError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// UploadLogo 上传店铺 Logo
// POST /api/v1/shops/:id/logo
func (h *ShopHandler) UploadLogo(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传 Logo 图片")
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxSize {
		response.ParamError(c, "图片过大")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedExt := range h.cfg.Upload.AllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		response.ParamError(c, "仅支持 JPG/PNG/WebP 图片")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "图片读取失败")
		return
	}

	url, err := h.shopService.UploadLogo(userID, shopID, data, ext)
	if err != nil {
		h.renderShopError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Logo 上传成功", gin.H{"logo_url": url})
}

// CreateProduct 上架商品
// POST /api/v1/shops/:id/products
func (h *ShopHandler) CreateProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.shopService.CreateProduct(userID, shopID, &req)
	if err != nil {
		h.renderShopError(c, err)
		return
	}

	response.SuccessWithMessage(c, "上架成功", item)
}

// ListProducts 店铺商品列表
// GET /api/v1/shops/:id/products
func (h *ShopHandler) ListProducts(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	items, err := h.shopService.ListProducts(userID, shopID)
	if err != nil {
		h.renderShopError(c, err)
		return
	}

	response.Success(c, items)
}

// DeleteProduct 删除商品
// DELETE /api/v1/shops/:id/products/:productId
func (h *ShopHandler) DeleteProduct(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	shopID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的店铺ID")
		return
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的商品ID")
		return
	}

	if err := h.shopService.DeleteProduct(userID, shopID, productID); err != nil {
		h.renderShopError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

func (h *ShopHandler) renderShopError(c *gin.Context, err error) {
	switch err {
	case service.ErrShopNotFound, service.ErrProductNotFound:
		response.NotFoundError(c, err.Error())
	case service.ErrShopPermission:
		response.PermissionError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
