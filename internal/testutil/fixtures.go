package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("test_%d@example.com", time.Now().UnixNano())
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", time.Now().UnixNano()),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         model.RoleUser,
		Plan:         model.PlanFree,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithUserPlan 设置当前生效套餐
func WithUserPlan(plan string) func(*model.User) {
	return func(u *model.User) {
		u.Plan = plan
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	limit := 5
	plan := &model.Plan{
		Key:             fmt.Sprintf("plan_%d", time.Now().UnixNano()),
		Name:            "测试套餐",
		Price:           99.00,
		Currency:        "CNY",
		DiscountPercent: 0,
		ShopLimit:       &limit,
		DurationMonths:  1,
		IsActive:        true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	// IsActive 带有 default:true，零值 false 会被 GORM 在 INSERT 时忽略（且 RETURNING 会回写
	// 默认值到结构体），需在 Create 前记录意图并显式落库
	inactive := !plan.IsActive

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	if inactive {
		if err := db.Model(plan).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to create test plan: %v", err)
		}
	}

	return plan
}

// WithPlanKey 设置套餐 key
func WithPlanKey(key string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Key = key
	}
}

// WithPrice 设置价格与折扣
func WithPrice(price float64, discountPercent int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Price = price
		p.DiscountPercent = discountPercent
	}
}

// WithShopLimit 设置店铺上限（nil 表示不限）
func WithShopLimit(limit *int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.ShopLimit = limit
	}
}

// WithDuration 设置订阅时长（月）
func WithDuration(months int) func(*model.Plan) {
	return func(p *model.Plan) {
		p.DurationMonths = months
	}
}

// WithInactive 设为下架
func WithInactive() func(*model.Plan) {
	return func(p *model.Plan) {
		p.IsActive = false
	}
}

// TestPaymentRequest 创建测试支付申请（默认 pending）
func TestPaymentRequest(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.PaymentRequest)) *model.PaymentRequest {
	t.Helper()

	pendingKey := userID
	payment := &model.PaymentRequest{
		UserID:     userID,
		PlanKey:    "basic",
		PlanName:   "基础版",
		Amount:     99.00,
		Currency:   "CNY",
		Channel:    "wechat",
		Status:     model.PaymentStatusPending,
		PendingKey: &pendingKey,
	}

	for _, opt := range opts {
		opt(payment)
	}

	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("Failed to create test payment request: %v", err)
	}

	return payment
}

// WithPaymentPlan 设置申请的套餐
func WithPaymentPlan(key, name string, amount float64) func(*model.PaymentRequest) {
	return func(p *model.PaymentRequest) {
		p.PlanKey = key
		p.PlanName = name
		p.Amount = amount
	}
}

// WithPaymentStatus 设置申请状态（非 pending 时清空 pending_key）
func WithPaymentStatus(status model.PaymentStatus) func(*model.PaymentRequest) {
	return func(p *model.PaymentRequest) {
		p.Status = status
		if status != model.PaymentStatusPending {
			p.PendingKey = nil
		}
	}
}

// WithProofURL 设置转账凭证
func WithProofURL(url string) func(*model.PaymentRequest) {
	return func(p *model.PaymentRequest) {
		p.ProofURL = url
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Subscription)) *model.Subscription {
	t.Helper()

	now := time.Now()
	sub := &model.Subscription{
		UserID:    userID,
		PlanKey:   "basic",
		PlanName:  "基础版",
		Price:     99.00,
		Currency:  "CNY",
		Status:    model.SubscriptionStatusActive,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 1, 0),
	}

	for _, opt := range opts {
		opt(sub)
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// WithSubscriptionStatus 设置订阅状态
func WithSubscriptionStatus(status string) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.Status = status
	}
}

// WithExpiresAt 设置到期时间
func WithExpiresAt(expiresAt time.Time) func(*model.Subscription) {
	return func(s *model.Subscription) {
		s.ExpiresAt = expiresAt
	}
}

// TestShop 创建测试店铺
func TestShop(t *testing.T, db *gorm.DB, ownerID int64, opts ...func(*model.Shop)) *model.Shop {
	t.Helper()

	shop := &model.Shop{
		OwnerID: ownerID,
		Name:    fmt.Sprintf("测试店铺 %d", time.Now().UnixNano()%10000),
		Slug:    fmt.Sprintf("shop-%d", time.Now().UnixNano()),
		Status:  "active",
	}

	for _, opt := range opts {
		opt(shop)
	}

	if err := db.Create(shop).Error; err != nil {
		t.Fatalf("Failed to create test shop: %v", err)
	}

	return shop
}

// WithSlug 设置店铺 slug
func WithSlug(slug string) func(*model.Shop) {
	return func(s *model.Shop) {
		s.Slug = slug
	}
}

// SetSetting 写入平台设置
func SetSetting(t *testing.T, db *gorm.DB, key, value string) {
	t.Helper()

	if err := db.Save(&model.Setting{Key: key, Value: value}).Error; err != nil {
		t.Fatalf("Failed to set setting %s: %v", key, err)
	}
}
