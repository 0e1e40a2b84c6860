package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/repository"
)

var (
	ErrPlanNotFound   = errors.New("套餐不存在或已下架")
	ErrPlanReferenced = errors.New("套餐已被支付申请引用，不能删除")
)

const (
	activePlansCacheKey = "plans:active"
	activePlansCacheTTL = 5 * time.Minute
)

type PlanService struct {
	planRepo    *repository.PlanRepository
	paymentRepo *repository.PaymentRepository
	rdb         *redis.Client
}

func NewPlanService(planRepo *repository.PlanRepository, paymentRepo *repository.PaymentRepository, rdb *redis.Client) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		paymentRepo: paymentRepo,
		rdb:         rdb,
	}
}

// GetActivePlans 上架套餐列表（公开接口，带 Redis 缓存）
func (s *PlanService) GetActivePlans(ctx context.Context) ([]*dto.PlanItem, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, activePlansCacheKey).Result(); err == nil {
			var items []*dto.PlanItem
			if json.Unmarshal([]byte(cached), &items) == nil {
				return items, nil
			}
		}
	}

	plans, err := s.planRepo.ListActive()
	if err != nil {
		return nil, err
	}

	items := make([]*dto.PlanItem, 0, len(plans))
	for _, p := range plans {
		items = append(items, buildPlanItem(p))
	}

	if s.rdb != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := s.rdb.Set(ctx, activePlansCacheKey, data, activePlansCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache active plans: %v", err)
			}
		}
	}

	return items, nil
}

// ListAll 全部套餐（管理端，不走缓存）
func (s *PlanService) ListAll() ([]*dto.PlanItem, error) {
	plans, err := s.planRepo.ListAll()
	if err != nil {
		return nil, err
	}
	items := make([]*dto.PlanItem, 0, len(plans))
	for _, p := range plans {
		items = append(items, buildPlanItem(p))
	}
	return items, nil
}

// Save 创建或按 key 更新套餐（管理端）
func (s *PlanService) Save(ctx context.Context, req *dto.SavePlanRequest) error {
	plan, err := s.planRepo.GetByKey(req.Key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		plan = &model.Plan{Key: req.Key, IsActive: true}
	}

	plan.Name = req.Name
	plan.Price = req.Price
	if req.Currency != "" {
		plan.Currency = req.Currency
	}
	plan.DiscountPercent = req.DiscountPercent
	plan.ShopLimit = req.ShopLimit
	plan.DurationMonths = req.DurationMonths
	plan.SortOrder = req.SortOrder
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}

	if plan.ID == 0 {
		err = s.planRepo.Create(plan)
	} else {
		err = s.planRepo.Update(plan)
	}
	if err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

// Delete 删除套餐。被任何支付申请引用（含已审核的历史记录）时拒绝删除。
func (s *PlanService) Delete(ctx context.Context, key string) error {
	if _, err := s.planRepo.GetByKey(key); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPlanNotFound
		}
		return err
	}

	referenced, err := s.paymentRepo.ExistsByPlanKey(key)
	if err != nil {
		return err
	}
	if referenced {
		return ErrPlanReferenced
	}

	if err := s.planRepo.Delete(key); err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *PlanService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, activePlansCacheKey).Err(); err != nil {
		log.Printf("Failed to invalidate plan cache: %v", err)
	}
}

func buildPlanItem(p *model.Plan) *dto.PlanItem {
	return &dto.PlanItem{
		Key:             p.Key,
		Name:            p.Name,
		Price:           p.Price,
		FinalPrice:      p.FinalPrice(),
		Currency:        p.Currency,
		DiscountPercent: p.DiscountPercent,
		ShopLimit:       p.ShopLimit,
		DurationMonths:  p.DurationMonths,
		SortOrder:       p.SortOrder,
	}
}
