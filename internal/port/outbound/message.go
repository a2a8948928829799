package outbound

import "context"

// EventPublisherPort defines event publishing operations.
type EventPublisherPort interface {
	// Publish publishes a domain event.
	Publish(ctx context.Context, event interface{}) error
}

// BroadcastPort fans state changes out to real-time gateways.
type BroadcastPort interface {
	// Broadcast publishes a payload on a topic. Delivery is best effort.
	Broadcast(ctx context.Context, topic string, payload []byte) error
}
