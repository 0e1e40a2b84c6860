package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelPaymentEvents = "payment_events"
)

// 事件类型
const (
	EventPaymentApproved = "payment_approved"
	EventPaymentRejected = "payment_rejected"
)

// PaymentEvent 审核结果事件，经 Redis 广播后推给提交用户的 WebSocket 连接
type PaymentEvent struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"`
	PaymentID int64  `json:"payment_id"`
	PlanKey   string `json:"plan_key"`
	PlanName  string `json:"plan_name"`
	Notes     string `json:"notes,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Message   string `json:"message,omitempty"`
}

// 事件对应的用户提示
var eventMessages = map[string]string{
	EventPaymentApproved: "订阅支付已通过审核",
	EventPaymentRejected: "订阅支付未通过审核",
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishPaymentEvent 发布审核结果事件
func (p *Publisher) PublishPaymentEvent(ctx context.Context, event *PaymentEvent) error {
	if event.Message == "" {
		if msg, ok := eventMessages[event.Type]; ok {
			event.Message = msg
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal payment event: %w", err)
	}

	return p.client.Publish(ctx, ChannelPaymentEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅审核结果事件
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*PaymentEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelPaymentEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event PaymentEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
