package events

import (
	"context"
	"fmt"
)

// Publisher adapts the bus to the outbound event publisher port.
type Publisher struct {
	bus *Bus
}

// NewPublisher creates a publisher backed by the given bus.
func NewPublisher(bus *Bus) *Publisher {
	return &Publisher{bus: bus}
}

// Publish dispatches a domain event on the bus.
func (p *Publisher) Publish(ctx context.Context, event interface{}) error {
	e, ok := event.(Event)
	if !ok {
		return fmt.Errorf("publish: %T does not implement events.Event", event)
	}
	p.bus.Publish(ctx, e)
	return nil
}
