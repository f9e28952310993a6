package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/clock"
)

// Handler consumes a dispatched event. Handlers must not block; slow work
// belongs in a worker fed by a handler.
type Handler func(ctx context.Context, event Event)

// Dispatcher is a synchronous in-process pub/sub hub. Publishing never fails
// and never interrupts the request that triggered it.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *zap.Logger
	clock    clock.Clock
}

// NewDispatcher constructs an empty dispatcher.
func NewDispatcher(logger *zap.Logger, clk clock.Clock) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		logger:   logger,
		clock:    clk,
	}
}

// Subscribe registers a handler for the event type.
func (d *Dispatcher) Subscribe(eventType string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// Publish delivers the payload to every subscriber of the event type.
func (d *Dispatcher) Publish(ctx context.Context, eventType, actor string, payload any) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: d.clock.Now(),
		Payload:   payload,
	}

	d.mu.RLock()
	handlers := d.handlers[eventType]
	d.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("event handler panicked",
						zap.String("event_type", eventType),
						zap.Any("panic", r))
				}
			}()
			handler(ctx, event)
		}()
	}
}
