package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/shop_go_server/config"
	"github.com/qs3c/shop_go_server/internal/model"
	"github.com/qs3c/shop_go_server/internal/model/dto"
	"github.com/qs3c/shop_go_server/internal/pkg/email"
	"github.com/qs3c/shop_go_server/internal/pkg/pubsub"
	"github.com/qs3c/shop_go_server/internal/repository"
)

var (
	ErrPaymentNotFound     = errors.New("支付申请不存在")
	ErrDuplicatePending    = errors.New("已有待审核的支付申请，请等待审核完成")
	ErrAlreadyProcessed    = errors.New("该支付申请已审核，不能重复处理")
	ErrRejectNotesRequired = errors.New("驳回时必须填写原因")
	ErrApprovalFailed      = errors.New("审批提交失败，请稍后重试")
	ErrPaymentPermission   = errors.New("无权查看该支付申请")
)

// ProofStorage 凭证图片存储（OSS）
type ProofStorage interface {
	UploadProof(paymentID int64, data []byte, ext string) (string, error)
	Delete(objectKey string) error
	GetSignedURL(objectKey string, expireSeconds ...int64) (string, error)
	ExtractObjectKey(url string) string
}

type PaymentService struct {
	db               *gorm.DB
	paymentRepo      *repository.PaymentRepository
	planRepo         *repository.PlanRepository
	userRepo         *repository.UserRepository
	subscriptionRepo *repository.SubscriptionRepository
	storage          ProofStorage
	publisher        *pubsub.Publisher
	emailService     *email.Service
	cfg              *config.Config
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	subscriptionRepo *repository.SubscriptionRepository,
	storage ProofStorage,
	publisher *pubsub.Publisher,
	emailService *email.Service,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		db:               db,
		paymentRepo:      paymentRepo,
		planRepo:         planRepo,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		storage:          storage,
		publisher:        publisher,
		emailService:     emailService,
		cfg:              cfg,
	}
}

// Submit 提交支付申请。金额按当前套餐价与折扣冻结到申请上，
// 之后套餐改价不影响已提交的申请。
func (s *PaymentService) Submit(userID int64, req *dto.SubmitPaymentRequest) (*dto.SubmitPaymentResponse, error) {
	plan, err := s.planRepo.GetActiveByKey(req.PlanKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	exists, err := s.paymentRepo.ExistsPendingByUser(userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePending
	}

	pendingKey := userID
	payment := &model.PaymentRequest{
		UserID:     userID,
		PlanKey:    plan.Key,
		PlanName:   plan.Name,
		Amount:     math.Round(plan.FinalPrice()*100) / 100,
		Currency:   plan.Currency,
		Channel:    req.Channel,
		Phone:      req.Phone,
		Status:     model.PaymentStatusPending,
		PendingKey: &pendingKey,
	}

	if err := s.paymentRepo.Create(payment); err != nil {
		// 并发提交时由 pending_key 唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicatePending
		}
		return nil, err
	}

	return &dto.SubmitPaymentResponse{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
	}, nil
}

// AttachProof 补传转账凭证。图片先落 OSS 再做归属/状态检查，
// 检查不通过时删除刚上传的孤儿图（尽力而为，不与 OSS 事务化）。
func (s *PaymentService) AttachProof(paymentID, userID int64, data []byte, ext string) (*dto.AttachProofResponse, error) {
	proofURL, err := s.storage.UploadProof(paymentID, data, ext)
	if err != nil {
		return nil, err
	}

	rows, err := s.paymentRepo.AttachProof(paymentID, userID, proofURL)
	if err != nil || rows == 0 {
		if delErr := s.storage.Delete(s.storage.ExtractObjectKey(proofURL)); delErr != nil {
			log.Printf("Failed to delete orphan proof for payment %d: %v", paymentID, delErr)
		}
		if err != nil {
			return nil, err
		}

		// 区分"申请不存在/不属于该用户"与"已审核"
		payment, getErr := s.paymentRepo.GetByID(paymentID)
		if getErr != nil || payment.UserID != userID {
			return nil, ErrPaymentNotFound
		}
		return nil, ErrAlreadyProcessed
	}

	return &dto.AttachProofResponse{PaymentID: paymentID, ProofURL: proofURL}, nil
}

// Approve 审核通过。状态迁移、用户套餐指针、订阅刷新在同一事务内提交，
// 任何一步失败整体回滚，申请保持 pending。
func (s *PaymentService) Approve(paymentID, adminID int64, notes string) error {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	if !payment.Status.CanTransition(model.PaymentStatusApproved) {
		return ErrAlreadyProcessed
	}

	// 时长以申请冻结的套餐 key 为准；套餐已被删除/改名时回退为 1 个月
	durationMonths := 1
	if plan, err := s.planRepo.GetByKey(payment.PlanKey); err == nil && plan.DurationMonths > 0 {
		durationMonths = plan.DurationMonths
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 状态守卫与写入在同一条 UPDATE 上，并发审批只有一个能更新到行
		rows, err := s.paymentRepo.MarkReviewed(tx, paymentID, model.PaymentStatusApproved, adminID, notes, now)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadyProcessed
		}

		if err := s.userRepo.SetPlan(tx, payment.UserID, payment.PlanKey); err != nil {
			return err
		}

		// 生效期一律从审批时刻起算，不在旧到期时间上叠加
		return s.subscriptionRepo.Upsert(tx, payment.UserID, payment, durationMonths, now)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return ErrAlreadyProcessed
		}
		// 管理员操作静默失效属于事故，必须留痕
		log.Printf("ERROR: approve payment %d by admin %d failed, rolled back: %v", paymentID, adminID, err)
		return ErrApprovalFailed
	}

	expiresAt := now.AddDate(0, durationMonths, 0)
	s.notifyReviewed(payment, pubsub.EventPaymentApproved, notes, expiresAt.Format(time.RFC3339))
	return nil
}

// Reject 审核驳回。只改申请状态，不触碰用户套餐与订阅。
func (s *PaymentService) Reject(paymentID, adminID int64, notes string) error {
	if notes == "" {
		return ErrRejectNotesRequired
	}

	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPaymentNotFound
		}
		return err
	}
	if !payment.Status.CanTransition(model.PaymentStatusRejected) {
		return ErrAlreadyProcessed
	}

	rows, err := s.paymentRepo.MarkReviewed(s.db, paymentID, model.PaymentStatusRejected, adminID, notes, time.Now())
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAlreadyProcessed
	}

	s.notifyReviewed(payment, pubsub.EventPaymentRejected, notes, "")
	return nil
}

// ListOwn 用户自己的支付记录
func (s *PaymentService) ListOwn(userID int64, page, pageSize int) ([]*dto.PaymentItem, int64, error) {
	payments, total, err := s.paymentRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, s.buildPaymentItem(p, ""))
	}
	return items, total, nil
}

// ListPending 待审核队列（管理端）
func (s *PaymentService) ListPending(page, pageSize int) ([]*dto.PaymentItem, int64, error) {
	payments, total, err := s.paymentRepo.ListPending(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.PaymentItem, 0, len(payments))
	for _, p := range payments {
		username := ""
		if user, err := s.userRepo.GetByID(p.UserID); err == nil {
			username = user.Username
		}
		items = append(items, s.buildPaymentItem(p, username))
	}
	return items, total, nil
}

// GetDetail 支付详情。管理员可看任意记录并拿到带签名的凭证链接，
// 普通用户只能看自己的。
func (s *PaymentService) GetDetail(requesterID int64, isAdmin bool, paymentID int64) (*dto.PaymentDetail, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	if !isAdmin && payment.UserID != requesterID {
		return nil, ErrPaymentPermission
	}

	username := ""
	if user, err := s.userRepo.GetByID(payment.UserID); err == nil {
		username = user.Username
	}

	detail := &dto.PaymentDetail{PaymentItem: *s.buildPaymentItem(payment, username)}
	if payment.ProofURL != "" {
		detail.ProofURL = payment.ProofURL
		if isAdmin && s.storage != nil {
			if signed, err := s.storage.GetSignedURL(s.storage.ExtractObjectKey(payment.ProofURL)); err == nil {
				detail.ProofURL = signed
			}
		}
	}
	return detail, nil
}

func (s *PaymentService) buildPaymentItem(p *model.PaymentRequest, username string) *dto.PaymentItem {
	item := &dto.PaymentItem{
		PaymentID:  p.ID,
		UserID:     p.UserID,
		Username:   username,
		PlanKey:    p.PlanKey,
		PlanName:   p.PlanName,
		Amount:     p.Amount,
		Currency:   p.Currency,
		Channel:    p.Channel,
		Phone:      p.Phone,
		HasProof:   p.ProofURL != "",
		Status:     string(p.Status),
		AdminNotes: p.AdminNotes,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
	if p.ReviewedAt != nil {
		item.ReviewedAt = p.ReviewedAt.Format(time.RFC3339)
	}
	return item
}

// notifyReviewed 审核结果通知（WebSocket + 邮件），尽力而为，失败只记日志
func (s *PaymentService) notifyReviewed(payment *model.PaymentRequest, eventType, notes, expiresAt string) {
	if s.publisher != nil {
		event := &pubsub.PaymentEvent{
			Type:      eventType,
			UserID:    payment.UserID,
			PaymentID: payment.ID,
			PlanKey:   payment.PlanKey,
			PlanName:  payment.PlanName,
			Notes:     notes,
			ExpiresAt: expiresAt,
		}
		if err := s.publisher.PublishPaymentEvent(context.Background(), event); err != nil {
			log.Printf("Failed to publish payment event for payment %d: %v", payment.ID, err)
		}
	}

	if s.emailService == nil {
		return
	}
	user, err := s.userRepo.GetByID(payment.UserID)
	if err != nil || user.Email == nil {
		return
	}
	if eventType == pubsub.EventPaymentApproved {
		err = s.emailService.SendPaymentApproved(*user.Email, payment.PlanName, expiresAt)
	} else {
		err = s.emailService.SendPaymentRejected(*user.Email, payment.PlanName, notes)
	}
	if err != nil {
		log.Printf("Failed to send review mail for payment %d: %v", payment.ID, err)
	}
}
