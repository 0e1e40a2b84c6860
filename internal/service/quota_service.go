package service

import (
	"errors"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/repository"
)

var ErrShopQuotaExceeded = errors.New("店铺数量已达当前套餐上限，升级套餐可创建更多店铺")

type QuotaService struct {
	planRepo    *repository.PlanRepository
	shopRepo    *repository.ShopRepository
	userRepo    *repository.UserRepository
	settingRepo *repository.SettingRepository
	cfg         *config.Config
}

func NewQuotaService(
	planRepo *repository.PlanRepository,
	shopRepo *repository.ShopRepository,
	userRepo *repository.UserRepository,
	settingRepo *repository.SettingRepository,
	cfg *config.Config,
) *QuotaService {
	return &QuotaService{
		planRepo:    planRepo,
		shopRepo:    shopRepo,
		userRepo:    userRepo,
		settingRepo: settingRepo,
		cfg:         cfg,
	}
}

// CanCreateShop 按用户当前套餐计算店铺配额。
// 免费档上限独立于套餐表，读平台设置（缺失时用配置默认值）；
// 套餐 key 悬空时同样按免费档兜底。
func (s *QuotaService) CanCreateShop(userID int64) (*dto.ShopQuota, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	current, err := s.shopRepo.CountByOwner(userID)
	if err != nil {
		return nil, err
	}

	quota := &dto.ShopQuota{
		Plan:    user.Plan,
		Current: current,
	}

	if user.Plan != model.PlanFree {
		if plan, err := s.planRepo.GetByKey(user.Plan); err == nil {
			if plan.ShopLimit == nil {
				quota.Unlimited = true
				quota.Allowed = true
				return quota, nil
			}
			quota.Limit = *plan.ShopLimit
			quota.Allowed = current < quota.Limit
			return quota, nil
		}
	}

	quota.Limit = s.settingRepo.GetInt(model.SettingFreeShopLimit, s.cfg.Quota.FreeShopLimit)
	quota.Allowed = current < quota.Limit
	return quota, nil
}
