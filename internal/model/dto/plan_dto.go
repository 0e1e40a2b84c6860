package dto

// PlanItem 套餐列表项
type PlanItem struct {
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	FinalPrice      float64 `json:"final_price"`
	Currency        string  `json:"currency"`
	DiscountPercent int     `json:"discount_percent"`
	ShopLimit       *int    `json:"shop_limit"` // null 表示不限
	DurationMonths  int     `json:"duration_months"`
	SortOrder       int     `json:"sort_order"`
}

// SavePlanRequest 管理员创建/更新套餐
type SavePlanRequest struct {
	Key             string  `json:"key" binding:"required,max=50"`
	Name            string  `json:"name" binding:"required,max=100"`
	Price           float64 `json:"price" binding:"min=0"`
	Currency        string  `json:"currency" binding:"max=10"`
	DiscountPercent int     `json:"discount_percent" binding:"min=0,max=100"`
	ShopLimit       *int    `json:"shop_limit"`
	DurationMonths  int     `json:"duration_months" binding:"min=1"`
	IsActive        *bool   `json:"is_active"`
	SortOrder       int     `json:"sort_order"`
}
