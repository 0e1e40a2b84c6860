package handler

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/api/middleware"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/pkg/response"
	"github.com/qs3c/shop_go_server/internal/service"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	cfg            *config.Config
}

func NewPaymentHandler(paymentService *service.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		cfg:            cfg,
	}
}

// Submit 提交支付申请
// POST /api/v1/payments
func (h *PaymentHandler) Submit(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.paymentService.Submit(userID, &req)
	if err != nil {
		switch err {
		case service.ErrPlanNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrDuplicatePending:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "提交成功，请转账后上传凭证", resp)
}

// AttachProof 补传转账凭证截图
// POST /api/v1/payments/:id/proof
func (h *PaymentHandler) AttachProof(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的支付申请ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ParamError(c, "请上传凭证图片")
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Upload.MaxSize {
		response.ParamError(c, "图片过大")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	allowed := false
	for _, allowedExt := range h.cfg.Upload.AllowedExtensions {
		if ext == allowedExt {
			allowed = true
			break
		}
	}
	if !allowed {
		response.ParamError(c, "仅支持 JPG/PNG/WebP 图片")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.ServerError(c, "图片读取失败")
		return
	}

	resp, err := h.paymentService.AttachProof(paymentID, userID, data, ext)
	if err != nil {
		switch err {
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "凭证上传成功", resp)
}

// ListOwn 自己的支付记录
// GET /api/v1/payments
func (h *PaymentHandler) ListOwn(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, pageSize := parsePage(c)
	items, total, err := h.paymentService.ListOwn(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 支付详情（本人或管理员）
// GET /api/v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的支付申请ID")
		return
	}

	detail, err := h.paymentService.GetDetail(userID, middleware.IsAdmin(c), paymentID)
	if err != nil {
		switch err {
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrPaymentPermission:
			response.PermissionError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, detail)
}

// ListPending 待审核队列（管理端）
// GET /api/v1/admin/payments/pending
func (h *PaymentHandler) ListPending(c *gin.Context) {
	page, pageSize := parsePage(c)
	items, total, err := h.paymentService.ListPending(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Approve 审核通过（管理端）
// POST /api/v1/admin/payments/:id/approve
func (h *PaymentHandler) Approve(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的支付申请ID")
		return
	}

	var req dto.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.Approve(paymentID, adminID, req.Notes); err != nil {
		switch err {
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, err.Error())
		}
		return
	}

	response.SuccessWithMessage(c, "审核通过，订阅已生效", nil)
}

// Reject 审核驳回（管理端）
// POST /api/v1/admin/payments/:id/reject
func (h *PaymentHandler) Reject(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	paymentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的支付申请ID")
		return
	}

	var req dto.ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.paymentService.Reject(paymentID, adminID, strings.TrimSpace(req.Notes)); err != nil {
		switch err {
		case service.ErrRejectNotesRequired:
			response.ParamError(c, err.Error())
		case service.ErrPaymentNotFound:
			response.NotFoundError(c, err.Error())
		case service.ErrAlreadyProcessed:
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已驳回", nil)
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
