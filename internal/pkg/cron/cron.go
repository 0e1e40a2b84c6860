package cron

import (
	"log"
	"time"

	"github.com/qs3c/shop_go_server/internal/service"
)

type Service struct {
	subscriptionService *service.SubscriptionService
	interval            time.Duration
	stopChan            chan struct{}
}

func NewService(subscriptionService *service.SubscriptionService, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Service{
		subscriptionService: subscriptionService,
		interval:            interval,
		stopChan:            make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runExpireLoop()
	log.Println("Cron service started (subscription expiry)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runExpireLoop 周期性处理到期订阅
func (s *Service) runExpireLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// 启动时先跑一次，避免进程重启期间积压
	s.expireOnce()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.expireOnce()
		}
	}
}

func (s *Service) expireOnce() {
	count, err := s.subscriptionService.ExpireDue(time.Now())
	if err != nil {
		log.Printf("Subscription expiry failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Subscription expiry: %d subscriptions downgraded", count)
	}
}
