package dto

// SubmitPaymentRequest 提交支付申请
type SubmitPaymentRequest struct {
	PlanKey string `json:"plan_key" binding:"required"`
	Channel string `json:"channel" binding:"required,oneof=wechat alipay bank"`
	Phone   string `json:"phone" binding:"required,max=20"`
}

// SubmitPaymentResponse 提交支付申请响应
type SubmitPaymentResponse struct {
	PaymentID int64   `json:"payment_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// ReviewPaymentRequest 审批支付申请（approve 时备注可选，reject 时必填）
type ReviewPaymentRequest struct {
	Notes string `json:"notes"`
}

// PaymentItem 支付申请列表项
type PaymentItem struct {
	PaymentID  int64   `json:"payment_id"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username,omitempty"`
	PlanKey    string  `json:"plan_key"`
	PlanName   string  `json:"plan_name"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Channel    string  `json:"channel"`
	Phone      string  `json:"phone,omitempty"`
	HasProof   bool    `json:"has_proof"`
	Status     string  `json:"status"`
	AdminNotes string  `json:"admin_notes,omitempty"`
	CreatedAt  string  `json:"created_at"`
	ReviewedAt string  `json:"reviewed_at,omitempty"`
}

// PaymentDetail 支付申请详情
type PaymentDetail struct {
	PaymentItem
	ProofURL string `json:"proof_url,omitempty"` // 管理员侧为带签名的临时链接
}

// AttachProofResponse 补传凭证响应
type AttachProofResponse struct {
	PaymentID int64  `json:"payment_id"`
	ProofURL  string `json:"proof_url"`
}
