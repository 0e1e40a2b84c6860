package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/pkg/response"
	"github.com/qs3c/shop_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// List 上架套餐列表（公开）
// GET /api/v1/plans
func (h *PlanHandler) List(c *gin.Context) {
	items, err := h.planService.GetActivePlans(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// ListAll 全部套餐（管理端）
// GET /api/v1/admin/plans
func (h *PlanHandler) ListAll(c *gin.Context) {
	items, err := h.planService.ListAll()
	if err != nil {
		response.ServerError(c, "")
		return
	}
	response.Success(c, items)
}

// Save 创建/更新套餐（管理端）
// PUT /api/v1/admin/plans
func (h *PlanHandler) Save(c *gin.Context) {
	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.planService.Save(c.Request.Context(), &req); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "保存成功", nil)
}

// Delete 删除套餐（管理端）
// DELETE /api/v1/admin/plans/:key
func (h *PlanHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	if err := h.planService.Delete(c.Request.Context(), key); err != nil {
		switch err {
		case service.ErrPlanNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrPlanReferenced:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
