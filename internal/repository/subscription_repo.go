package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByUserID(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 在 tx 内读取后分支：没有订阅则创建，有则整行刷新为新套餐。
// 生效期一律从 now 起算 durationMonths 个月，不在旧到期时间上叠加。
func (r *SubscriptionRepository) Upsert(tx *gorm.DB, userID int64, plan *model.PaymentRequest, durationMonths int, now time.Time) error {
	expiresAt := now.AddDate(0, durationMonths, 0)

	var sub model.Subscription
	err := tx.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		sub = model.Subscription{
			UserID:    userID,
			PlanKey:   plan.PlanKey,
			PlanName:  plan.PlanName,
			Price:     plan.Amount,
			Currency:  plan.Currency,
			Status:    model.SubscriptionStatusActive,
			StartedAt: now,
			ExpiresAt: expiresAt,
		}
		return tx.Create(&sub).Error
	}

	return tx.Model(&sub).Updates(map[string]interface{}{
		"plan_key":   plan.PlanKey,
		"plan_name":  plan.PlanName,
		"price":      plan.Amount,
		"currency":   plan.Currency,
		"status":     model.SubscriptionStatusActive,
		"started_at": now,
		"expires_at": expiresAt,
	}).Error
}

// Cancel 在 tx 内将订阅置为 cancelled 并把到期时间强制为 now
func (r *SubscriptionRepository) Cancel(tx *gorm.DB, userID int64, now time.Time) (int64, error) {
	res := tx.Model(&model.Subscription{}).
		Where("user_id = ? AND status = ?", userID, model.SubscriptionStatusActive).
		Updates(map[string]interface{}{
			"status":     model.SubscriptionStatusCancelled,
			"expires_at": now,
		})
	return res.RowsAffected, res.Error
}

// ListDue 已过期但仍标记 active 的订阅
func (r *SubscriptionRepository) ListDue(now time.Time, limit int) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := r.db.Where("status = ? AND expires_at < ?", model.SubscriptionStatusActive, now).
		Limit(limit).Find(&subs).Error
	return subs, err
}

// MarkExpired 在 tx 内的条件更新，防止与并发审批互踩
func (r *SubscriptionRepository) MarkExpired(tx *gorm.DB, id int64, now time.Time) (int64, error) {
	res := tx.Model(&model.Subscription{}).
		Where("id = ? AND status = ? AND expires_at < ?", id, model.SubscriptionStatusActive, now).
		Update("status", model.SubscriptionStatusExpired)
	return res.RowsAffected, res.Error
}
