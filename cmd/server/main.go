package main

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/api"
	"github.com/qs3c/shop_go_server/internal/api/handler"
	"github.com/qs3c/shop_go_server/internal/database"
	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/pkg/email"
	"github.com/qs3c/shop_go_server/internal/pkg/oauth"
	"github.com/qs3c/shop_go_server/internal/pkg/oss"
	"github.com/qs3c/shop_go_server/internal/pkg/pubsub"
	"github.com/qs3c/shop_go_server/internal/pkg/ws"
	"github.com/qs3c/shop_go_server/internal/repository"
	"github.com/qs3c/shop_go_server/internal/service"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 OSS
	ossClient, err := oss.NewClient(&cfg.OSS)
	if err != nil {
		log.Fatalf("Failed to init oss client: %v", err)
	}

	// 初始化 WebSocket Hub，订阅审核结果事件并推送
	wsHub := ws.NewHub()
	subscriber := pubsub.NewSubscriber(rdb)
	go func() {
		err := subscriber.Subscribe(context.Background(), func(event *pubsub.PaymentEvent) {
			if err := wsHub.SendToUser(event.UserID, &ws.Message{Type: event.Type, Data: event}); err != nil {
				log.Printf("Failed to push payment event to user %d: %v", event.UserID, err)
			}
		})
		if err != nil {
			log.Printf("Payment event subscriber stopped: %v", err)
		}
	}()
	log.Println("WebSocket hub started")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	shopRepo := repository.NewShopRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// 启动时初始化管理员、默认套餐与平台设置
	if err := bootstrap(cfg, userRepo, planRepo, settingRepo); err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}

	// 初始化 Service
	publisher := pubsub.NewPublisher(rdb)
	emailService := email.NewService(&cfg.Email)
	authService := service.NewAuthService(userRepo, cfg)
	planService := service.NewPlanService(planRepo, paymentRepo, rdb)
	quotaService := service.NewQuotaService(planRepo, shopRepo, userRepo, settingRepo, cfg)
	paymentService := service.NewPaymentService(db, paymentRepo, planRepo, userRepo, subscriptionRepo, ossClient, publisher, emailService, cfg)
	subscriptionService := service.NewSubscriptionService(db, subscriptionRepo, userRepo)
	shopService := service.NewShopService(shopRepo, quotaService, ossClient)

	// 初始化 Handler
	stateStore := oauth.NewStateStore(rdb)
	authHandler := handler.NewAuthHandler(authService, stateStore)
	planHandler := handler.NewPlanHandler(planService)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg)
	shopHandler := handler.NewShopHandler(shopService, quotaService, cfg)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	websocketHandler := handler.NewWebSocketHandler(wsHub, cfg.JWT.Secret)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		planHandler,
		paymentHandler,
		shopHandler,
		subscriptionHandler,
		websocketHandler,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// bootstrap 初始化管理员账号、默认套餐与平台设置（均为幂等操作）
func bootstrap(
	cfg *config.Config,
	userRepo *repository.UserRepository,
	planRepo *repository.PlanRepository,
	settingRepo *repository.SettingRepository,
) error {
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		exists, err := userRepo.ExistsByUsername(cfg.Admin.Username)
		if err != nil {
			return err
		}
		if !exists {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			hashStr := string(hash)
			admin := &model.User{
				Username:     cfg.Admin.Username,
				PasswordHash: &hashStr,
				Role:         model.RoleAdmin,
				Plan:         model.PlanFree,
			}
			if cfg.Admin.Email != "" {
				admin.Email = &cfg.Admin.Email
			}
			if err := userRepo.Create(admin); err != nil {
				return err
			}
			log.Printf("Admin user %s created", cfg.Admin.Username)
		}
	}

	plans, err := planRepo.ListAll()
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		basicLimit := 3
		proLimit := 10
		defaults := []*model.Plan{
			{Key: "basic", Name: "基础版", Price: 99, Currency: "CNY", ShopLimit: &basicLimit, DurationMonths: 1, IsActive: true, SortOrder: 1},
			{Key: "pro", Name: "专业版", Price: 299, Currency: "CNY", ShopLimit: &proLimit, DurationMonths: 1, IsActive: true, SortOrder: 2},
			{Key: "ultimate", Name: "旗舰版", Price: 999, Currency: "CNY", ShopLimit: nil, DurationMonths: 1, IsActive: true, SortOrder: 3},
		}
		for _, p := range defaults {
			if err := planRepo.Create(p); err != nil {
				return err
			}
		}
		log.Printf("Seeded %d default plans", len(defaults))
	}

	freeLimit := cfg.Quota.FreeShopLimit
	if freeLimit <= 0 {
		freeLimit = 1
	}
	return settingRepo.SeedDefaults(map[string]string{
		model.SettingFreeShopLimit: fmt.Sprintf("%d", freeLimit),
	})
}
