package model

import (
	"time"
)

// Plan 订阅套餐定义
type Plan struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Key             string    `gorm:"size:50;uniqueIndex;not null" json:"key"` // free, basic, pro
	Name            string    `gorm:"size:100;not null" json:"name"`
	Price           float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency        string    `gorm:"size:10;default:CNY" json:"currency"`
	DiscountPercent int       `gorm:"default:0" json:"discount_percent"` // 0-100
	ShopLimit       *int      `json:"shop_limit"`                        // NULL 表示不限数量
	DurationMonths  int       `gorm:"default:1" json:"duration_months"`
	IsActive        bool      `gorm:"default:true;index" json:"is_active"`
	SortOrder       int       `gorm:"default:0" json:"sort_order"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}

// FinalPrice 折后价格（提交支付申请时冻结到申请记录上）
func (p *Plan) FinalPrice() float64 {
	return p.Price * float64(100-p.DiscountPercent) / 100
}
