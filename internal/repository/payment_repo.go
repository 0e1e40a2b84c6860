package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(payment *model.PaymentRequest) error {
	return r.db.Create(payment).Error
}

func (r *PaymentRepository) GetByID(id int64) (*model.PaymentRequest, error) {
	var payment model.PaymentRequest
	err := r.db.Where("id = ?", id).First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ExistsPendingByUser 该用户是否已有待审核申请
func (r *PaymentRepository) ExistsPendingByUser(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.PaymentRequest{}).
		Where("user_id = ? AND status = ?", userID, model.PaymentStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ExistsByPlanKey 套餐是否被任何支付申请引用（删除套餐前的引用检查）
func (r *PaymentRepository) ExistsByPlanKey(planKey string) (bool, error) {
	var count int64
	err := r.db.Model(&model.PaymentRequest{}).Where("plan_key = ?", planKey).Count(&count).Error
	return count > 0, err
}

// AttachProof 条件更新：仅当申请属于该用户且仍为 pending 时写入凭证。
// 返回实际更新的行数，0 表示前置条件不成立。
func (r *PaymentRepository) AttachProof(id, userID int64, proofURL string) (int64, error) {
	res := r.db.Model(&model.PaymentRequest{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, model.PaymentStatusPending).
		Update("proof_url", proofURL)
	return res.RowsAffected, res.Error
}

// MarkReviewed 在 tx 内执行的条件状态迁移：仅当仍为 pending 时生效，
// 同时清空 pending_key 释放"每用户一条待审核"的唯一索引占位。
// 返回实际更新的行数，0 表示已被并发审核抢先处理。
func (r *PaymentRepository) MarkReviewed(tx *gorm.DB, id int64, to model.PaymentStatus, reviewerID int64, notes string, reviewedAt time.Time) (int64, error) {
	res := tx.Model(&model.PaymentRequest{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":      to,
			"pending_key": nil,
			"reviewer_id": reviewerID,
			"admin_notes": notes,
			"reviewed_at": reviewedAt,
		})
	return res.RowsAffected, res.Error
}

// ListByUser 用户自己的支付申请，按创建时间倒序
func (r *PaymentRepository) ListByUser(userID int64, page, pageSize int) ([]*model.PaymentRequest, int64, error) {
	var payments []*model.PaymentRequest
	var total int64

	query := r.db.Model(&model.PaymentRequest{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}

// ListPending 待审核队列（管理端），先提交先审
func (r *PaymentRepository) ListPending(page, pageSize int) ([]*model.PaymentRequest, int64, error) {
	var payments []*model.PaymentRequest
	var total int64

	query := r.db.Model(&model.PaymentRequest{}).Where("status = ?", model.PaymentStatusPending)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&payments).Error
	return payments, total, err
}
