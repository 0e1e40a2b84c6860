package dto

// CreateShopRequest 创建店铺
type CreateShopRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Slug        string `json:"slug" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdateShopRequest 更新店铺
type UpdateShopRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo_url"`
}

// ShopItem 店铺列表项
type ShopItem struct {
	ShopID      int64  `json:"shop_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// ShopQuota 店铺配额信息
type ShopQuota struct {
	Allowed   bool   `json:"allowed"`
	Plan      string `json:"plan"`
	Limit     int    `json:"limit"` // Unlimited 为 true 时无意义
	Unlimited bool   `json:"unlimited"`
	Current   int    `json:"current"`
}

// CreateProductRequest 创建商品
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Price       float64 `json:"price" binding:"min=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	ImageURL    string  `json:"image_url" binding:"max=500"`
	Description string  `json:"description" binding:"max=5000"`
}

// ProductItem 商品列表项
type ProductItem struct {
	ProductID int64   `json:"product_id"`
	ShopID    int64   `json:"shop_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Stock     int     `json:"stock"`
	ImageURL  string  `json:"image_url,omitempty"`
	Status    string  `json:"status"`
}
