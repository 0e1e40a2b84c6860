package service

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/repository"
)

var ErrNoActiveSubscription = errors.New("没有生效中的订阅")

type SubscriptionService struct {
	db               *gorm.DB
	subscriptionRepo *repository.SubscriptionRepository
	userRepo         *repository.UserRepository
}

func NewSubscriptionService(
	db *gorm.DB,
	subscriptionRepo *repository.SubscriptionRepository,
	userRepo *repository.UserRepository,
) *SubscriptionService {
	return &SubscriptionService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
	}
}

// GetByUserID 用户当前订阅
func (s *SubscriptionService) GetByUserID(userID int64) (*model.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return sub, nil
}

// Cancel 管理员取消订阅：订阅置 cancelled、到期时间强制为 now、
// 用户套餐指针回落到免费档，同一事务内完成。
func (s *SubscriptionService) Cancel(userID int64) error {
	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		rows, err := s.subscriptionRepo.Cancel(tx, userID, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrNoActiveSubscription
		}
		return s.userRepo.SetPlan(tx, userID, model.PlanFree)
	})
}

// ExpireDue 处理到期订阅：标记 expired 并降级用户套餐。
// 每条订阅单独一个事务，条件更新防止与并发审批互踩。
func (s *SubscriptionService) ExpireDue(now time.Time) (int, error) {
	subs, err := s.subscriptionRepo.ListDue(now, 200)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, sub := range subs {
		expired := false
		err := s.db.Transaction(func(tx *gorm.DB) error {
			rows, err := s.subscriptionRepo.MarkExpired(tx, sub.ID, now)
			if err != nil {
				return err
			}
			if rows == 0 {
				// 在扫描和处理之间被审批刷新了，跳过
				return nil
			}
			expired = true
			return s.userRepo.SetPlan(tx, sub.UserID, model.PlanFree)
		})
		if err != nil {
			log.Printf("Failed to expire subscription %d: %v", sub.ID, err)
			continue
		}
		if expired {
			count++
		}
	}
	return count, nil
}
