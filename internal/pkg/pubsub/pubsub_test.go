package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return client, cleanup
}

func TestPaymentEvent_JSON(t *testing.T) {
	event := &PaymentEvent{
		Type:      EventPaymentApproved,
		UserID:    1,
		PaymentID: 2,
		PlanKey:   "pro",
		PlanName:  "专业版",
		ExpiresAt: "2026-10-01T00:00:00Z",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	// Verify snake_case keys
	var raw map[string]interface{}
	err = json.Unmarshal(data, &raw)
	require.NoError(t, err)

	assert.Contains(t, raw, "user_id")
	assert.Contains(t, raw, "payment_id")
	assert.Contains(t, raw, "plan_key")

	var decoded PaymentEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.Type, decoded.Type)
	assert.Equal(t, event.PaymentID, decoded.PaymentID)
}

func TestEventMessages(t *testing.T) {
	for _, eventType := range []string{EventPaymentApproved, EventPaymentRejected} {
		msg, ok := eventMessages[eventType]
		assert.True(t, ok, "event %s should have a message", eventType)
		assert.NotEmpty(t, msg)
	}
}

func TestPublishSubscribe_RoundTrip(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(rdb)
	subscriber := NewSubscriber(rdb)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	received := make(chan *PaymentEvent, 1)
	go func() {
		_ = subscriber.Subscribe(ctx, func(event *PaymentEvent) {
			received <- event
		})
	}()

	// Give the subscriber a moment to attach
	time.Sleep(50 * time.Millisecond)

	event := &PaymentEvent{
		Type:      EventPaymentApproved,
		UserID:    42,
		PaymentID: 7,
		PlanKey:   "basic",
		PlanName:  "基础版",
	}
	require.NoError(t, publisher.PublishPaymentEvent(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, int64(42), got.UserID)
		assert.Equal(t, int64(7), got.PaymentID)
		// Default message is filled in at publish time
		assert.Equal(t, eventMessages[EventPaymentApproved], got.Message)
	case <-ctx.Done():
		t.Fatal("timed out waiting for payment event")
	}
}

func TestPublishPaymentEvent_KeepsCustomMessage(t *testing.T) {
	rdb, cleanup := setupTestRedis(t)
	defer cleanup()

	publisher := NewPublisher(rdb)

	event := &PaymentEvent{
		Type:    EventPaymentRejected,
		UserID:  1,
		Message: "自定义提示",
	}
	require.NoError(t, publisher.PublishPaymentEvent(context.Background(), event))
	assert.Equal(t, "自定义提示", event.Message)
}
