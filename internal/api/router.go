package api

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/api/handler"
	"github.com/qs3c/shop_go_server/internal/api/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	planHandler         *handler.PlanHandler
	paymentHandler      *handler.PaymentHandler
	shopHandler         *handler.ShopHandler
	subscriptionHandler *handler.SubscriptionHandler
	websocketHandler    *handler.WebSocketHandler
	cfg                 *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	planHandler *handler.PlanHandler,
	paymentHandler *handler.PaymentHandler,
	shopHandler *handler.ShopHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	websocketHandler *handler.WebSocketHandler,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:         authHandler,
		planHandler:         planHandler,
		paymentHandler:      paymentHandler,
		shopHandler:         shopHandler,
		subscriptionHandler: subscriptionHandler,
		websocketHandler:    websocketHandler,
		cfg:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// WebSocket
		api.GET("/ws", r.websocketHandler.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.GET("/github", r.authHandler.GithubAuth)
			auth.GET("/github/callback", r.authHandler.GithubCallback)
		}

		// 公开接口 - 套餐
		api.GET("/plans", r.planHandler.List)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 支付申请
			payments := authenticated.Group("/payments")
			{
				payments.POST("", r.paymentHandler.Submit)
				payments.GET("", r.paymentHandler.ListOwn)
				payments.GET("/:id", r.paymentHandler.Get)
				payments.POST("/:id/proof", r.paymentHandler.AttachProof)
			}

			// 店铺
			shops := authenticated.Group("/shops")
			{
				shops.GET("/quota", r.shopHandler.GetQuota)
				shops.POST("", r.shopHandler.Create)
				shops.GET("", r.shopHandler.List)
				shops.GET("/:id", r.shopHandler.Get)
				shops.PUT("/:id", r.shopHandler.Update)
				shops.DELETE("/:id", r.shopHandler.Delete)
				shops.POST("/:id/logo", r.shopHandler.UploadLogo)
				shops.POST("/:id/products", r.shopHandler.CreateProduct)
				shops.GET("/:id/products", r.shopHandler.ListProducts)
				shops.DELETE("/:id/products/:productId", r.shopHandler.DeleteProduct)
			}

			// 订阅
			authenticated.GET("/subscription", r.subscriptionHandler.GetOwn)
		}

		// 管理端接口
		admin := api.Group("/admin")
		admin.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireAdmin())
		{
			admin.GET("/plans", r.planHandler.ListAll)
			admin.PUT("/plans", r.planHandler.Save)
			admin.DELETE("/plans/:key", r.planHandler.Delete)

			admin.GET("/payments/pending", r.paymentHandler.ListPending)
			admin.GET("/payments/:id", r.paymentHandler.Get)
			admin.POST("/payments/:id/approve", r.paymentHandler.Approve)
			admin.POST("/payments/:id/reject", r.paymentHandler.Reject)

			admin.POST("/users/:id/subscription/cancel", r.subscriptionHandler.Cancel)
		}
	}

	return engine
}
