package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/qs3c/shop_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendPaymentApproved 审核通过通知
func (s *Service) SendPaymentApproved(to, planName, expiresAt string) error {
	subject := "订阅开通成功 - 多店通开店平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #16a34a;">订阅开通成功</h2>
        <p>您好，</p>
        <p>您提交的「%s」套餐支付申请已通过审核，订阅已生效：</p>
        <div style="background-color: #f3f4f6; padding: 15px; margin: 20px 0;">
            <p style="margin: 0;">套餐：<strong>%s</strong></p>
            <p style="margin: 0;">有效期至：<strong>%s</strong></p>
        </div>
        <p>现在就可以在控制台创建店铺、上架商品了。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName, planName, expiresAt)

	return s.sendHTML(to, subject, body)
}

// SendPaymentRejected 审核驳回通知
func (s *Service) SendPaymentRejected(to, planName, notes string) error {
	subject := "订阅支付审核未通过 - 多店通开店平台"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #dc2626;">审核未通过</h2>
        <p>您好，</p>
        <p>您提交的「%s」套餐支付申请未通过审核，原因如下：</p>
        <div style="background-color: #fef2f2; padding: 15px; margin: 20px 0;">
            %s
        </div>
        <p>如有疑问请联系平台客服，确认转账信息后可重新提交申请。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, planName, notes)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)

	headers := []string{
		fmt.Sprintf("From: %s", s.cfg.From),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	msg := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg))
}
