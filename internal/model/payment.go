package model

import (
	"time"
)

// PaymentStatus 支付申请状态
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// paymentTransitions 状态迁移表：pending 之外的状态均为终态
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusApproved, PaymentStatusRejected},
}

// CanTransition 是否允许从当前状态迁移到 to
func (s PaymentStatus) CanTransition(to PaymentStatus) bool {
	for _, next := range paymentTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal 是否为终态
func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

// PaymentRequest 订阅支付申请（人工转账 + 截图凭证，管理员审核）
type PaymentRequest struct {
	ID       int64         `gorm:"primaryKey" json:"id"`
	UserID   int64         `gorm:"not null;index" json:"user_id"`
	PlanKey  string        `gorm:"size:50;not null" json:"plan_key"`
	PlanName string        `gorm:"size:100;not null" json:"plan_name"`         // 套餐名快照
	Amount   float64       `gorm:"type:decimal(10,2);not null" json:"amount"`  // 提交时冻结的折后金额
	Currency string        `gorm:"size:10;default:CNY" json:"currency"`
	Channel  string        `gorm:"size:20;not null" json:"channel"` // wechat, alipay, bank
	Phone    string        `gorm:"size:20" json:"phone"`
	ProofURL string        `gorm:"size:500" json:"proof_url"` // 转账截图，提交后补传
	Status   PaymentStatus `gorm:"size:20;default:pending;index" json:"status"`

	// pending 期间等于 UserID，审核后置 NULL。
	// 唯一索引允许多个 NULL，从而在存储层保证同一用户最多一条待审核申请。
	PendingKey *int64 `gorm:"uniqueIndex" json:"-"`

	AdminNotes string     `gorm:"size:500" json:"admin_notes,omitempty"`
	ReviewerID *int64     `json:"reviewer_id,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (PaymentRequest) TableName() string {
	return "payment_requests"
}
