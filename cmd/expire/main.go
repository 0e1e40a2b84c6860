package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/database"
	"github.com/qs3c/shop_go_server/internal/pkg/cron"
	"github.com/qs3c/shop_go_server/internal/repository"
	"github.com/qs3c/shop_go_server/internal/service"
)

var (
	interval = flag.Duration("interval", time.Hour, "Expiry check interval")
	once     = flag.Bool("once", false, "Run a single expiry pass and exit")
)

func main() {
	flag.Parse()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	subscriptionRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)
	subscriptionService := service.NewSubscriptionService(db, subscriptionRepo, userRepo)

	if *once {
		count, err := subscriptionService.ExpireDue(time.Now())
		if err != nil {
			log.Fatalf("Subscription expiry failed: %v", err)
		}
		log.Printf("Subscription expiry: %d subscriptions downgraded", count)
		return
	}

	cronService := cron.NewService(subscriptionService, *interval)
	cronService.Start()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	cronService.Stop()
}
