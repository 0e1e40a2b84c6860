package model

import (
	"time"
)

// 订阅状态
const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

// Subscription 用户订阅（每个用户一行，审批通过时创建或刷新）
type Subscription struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	PlanKey   string    `gorm:"size:50;not null" json:"plan_key"`
	PlanName  string    `gorm:"size:100;not null" json:"plan_name"`
	Price     float64   `gorm:"type:decimal(10,2)" json:"price"`
	Currency  string    `gorm:"size:10;default:CNY" json:"currency"`
	Status    string    `gorm:"size:20;default:active;index" json:"status"`
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
