package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

const notificationChannelPrefix = "notifications:"

// NotificationChannel returns the pub/sub channel for a user's notifications.
func NotificationChannel(userID uuid.UUID) string {
	return notificationChannelPrefix + userID.String()
}

// publisher implements outbound.NotificationPort and outbound.BroadcastPort
// on top of Redis pub/sub. Delivery is fire-and-forget.
type publisher struct {
	client *redis.Client
}

// Publisher is both a notification and a broadcast sink.
type Publisher interface {
	outbound.NotificationPort
	outbound.BroadcastPort
}

// NewPublisher creates a new pub/sub publisher adapter.
func NewPublisher(client *redis.Client) Publisher {
	return &publisher{client: client}
}

func (p *publisher) Notify(ctx context.Context, userID uuid.UUID, notification *outbound.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return p.client.Publish(ctx, NotificationChannel(userID), payload).Err()
}

func (p *publisher) Broadcast(ctx context.Context, topic string, payload []byte) error {
	return p.client.Publish(ctx, topic, payload).Err()
}
