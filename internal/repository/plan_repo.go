package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) Update(plan *model.Plan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(key string) error {
	return r.db.Where("`key` = ?", key).Delete(&model.Plan{}).Error
}

func (r *PlanRepository) GetByKey(key string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("`key` = ?", key).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetActiveByKey 只返回上架中的套餐
func (r *PlanRepository) GetActiveByKey(key string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("`key` = ? AND is_active = ?", key, true).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListActive 上架套餐，按展示顺序升序
func (r *PlanRepository) ListActive() ([]*model.Plan, error) {
	var plans []*model.Plan
	err := r.db.Where("is_active = ?", true).Order("sort_order ASC").Find(&plans).Error
	return plans, err
}

// ListAll 全部套餐（管理端）
func (r *PlanRepository) ListAll() ([]*model.Plan, error) {
	var plans []*model.Plan
	err := r.db.Order("sort_order ASC").Find(&plans).Error
	return plans, err
}
