package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/shop_go_server/internal/api/middleware"
	"github.com/qs3c/shop_go_server/internal/pkg/response"
	"github.com/qs3c/shop_go_server/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// GetOwn 查看自己的订阅
// GET /api/v1/subscription
func (h *SubscriptionHandler) GetOwn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.subscriptionService.GetByUserID(userID)
	if err != nil {
		switch err {
		case service.ErrNoActiveSubscription:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, sub)
}

// Cancel 取消用户订阅（管理端）
// POST /api/v1/admin/users/:id/subscription/cancel
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的用户ID")
		return
	}

	if err := h.subscriptionService.Cancel(userID); err != nil {
		switch err {
		case service.ErrNoActiveSubscription:
			response.NotFoundError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "订阅已取消", nil)
}
