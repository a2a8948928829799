package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Handler outcomes passed to a Recorder.
const (
	StatusHandled = "handled"
	StatusFailed  = "failed"
	StatusPanic   = "panic"
)

// Recorder counts handler outcomes per event type.
type Recorder interface {
	RecordEventHandled(eventType, status string)
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithRecorder reports every handler outcome to r.
func WithRecorder(r Recorder) BusOption {
	return func(b *Bus) {
		if r != nil {
			b.recorder = r
		}
	}
}

// Bus dispatches events to registered handlers in the publisher's goroutine.
// A failing or panicking handler is logged and does not stop the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	recorder Recorder
}

// NewBus creates a new event bus.
func NewBus(logger *zap.Logger, opts ...BusOption) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger.Named("events"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register subscribes handler to every type it lists.
func (b *Bus) Register(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, eventType := range handler.Handles() {
		b.handlers[eventType] = append(b.handlers[eventType], handler)
		b.logger.Debug("registered event handler", zap.String("event_type", eventType))
	}
}

// Publish hands event to its handlers in registration order. Handlers get a
// context that keeps the caller's values but not its cancellation, so a
// finished request does not cut notifications short.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("subject_id", event.SubjectID().String()),
	}
	if len(handlers) == 0 {
		b.logger.Debug("no handlers registered for event", fields...)
		return
	}
	b.logger.Debug("publishing event", append(fields, zap.Int("handler_count", len(handlers)))...)

	hctx := context.WithoutCancel(ctx)
	for _, handler := range handlers {
		status := StatusHandled
		if err := b.dispatch(hctx, handler, event); err != nil {
			status = StatusFailed
			if _, ok := err.(panicError); ok {
				status = StatusPanic
			}
			b.logger.Error("event handler failed", append(fields, zap.Error(err))...)
		}
		if b.recorder != nil {
			b.recorder.RecordEventHandled(event.EventType(), status)
		}
	}
}

type panicError struct{ value any }

func (p panicError) Error() string { return fmt.Sprintf("handler panic: %v", p.value) }

func (b *Bus) dispatch(ctx context.Context, handler Handler, event Event) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError{value: rec}
		}
	}()
	return handler.Handle(ctx, event)
}
