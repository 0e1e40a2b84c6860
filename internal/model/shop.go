package model

import (
	"time"
)

// Shop 店铺
type Shop struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	OwnerID     int64     `gorm:"not null;index" json:"owner_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Slug        string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	LogoURL     string    `gorm:"size:500" json:"logo_url"`
	Status      string    `gorm:"size:20;default:active;index" json:"status"` // active, closed
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Shop) TableName() string {
	return "shops"
}

// Product 商品
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ShopID      int64     `gorm:"not null;index" json:"shop_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency    string    `gorm:"size:10;default:CNY" json:"currency"`
	Stock       int       `gorm:"default:0" json:"stock"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;default:on_sale;index" json:"status"` // on_sale, off_sale
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}
