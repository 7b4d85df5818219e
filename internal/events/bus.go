package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"servicehub/internal/domain"
)

// Subscriber receives booking lifecycle events. Handlers run synchronously in
// publish order; a handler error is logged and dropped so a collaborator
// failure can never roll a booking back.
type Subscriber interface {
	Name() string
	OnBookingCreated(ctx context.Context, ev domain.BookingCreated) error
	OnBookingUpdated(ctx context.Context, ev domain.BookingUpdated) error
	OnBookingStatusChanged(ctx context.Context, ev domain.BookingStatusChanged) error
	OnBookingDeleted(ctx context.Context, ev domain.BookingDeleted) error
}

type Bus struct {
	mu   sync.RWMutex
	subs []Subscriber
	log  *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, s)
}

func (b *Bus) subscribers() []Subscriber {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Subscriber, len(b.subs))
	copy(out, b.subs)
	return out
}

func (b *Bus) PublishBookingCreated(ctx context.Context, ev domain.BookingCreated) {
	for _, s := range b.subscribers() {
		if err := s.OnBookingCreated(ctx, ev); err != nil {
			b.logDropped(s, "booking_created", err)
		}
	}
}

func (b *Bus) PublishBookingUpdated(ctx context.Context, ev domain.BookingUpdated) {
	for _, s := range b.subscribers() {
		if err := s.OnBookingUpdated(ctx, ev); err != nil {
			b.logDropped(s, "booking_updated", err)
		}
	}
}

func (b *Bus) PublishBookingStatusChanged(ctx context.Context, ev domain.BookingStatusChanged) {
	for _, s := range b.subscribers() {
		if err := s.OnBookingStatusChanged(ctx, ev); err != nil {
			b.logDropped(s, "booking_status_changed", err)
		}
	}
}

func (b *Bus) PublishBookingDeleted(ctx context.Context, ev domain.BookingDeleted) {
	for _, s := range b.subscribers() {
		if err := s.OnBookingDeleted(ctx, ev); err != nil {
			b.logDropped(s, "booking_deleted", err)
		}
	}
}

func (b *Bus) logDropped(s Subscriber, event string, err error) {
	b.log.Warn("event subscriber failed",
		zap.String("subscriber", s.Name()),
		zap.String("event", event),
		zap.Error(err),
	)
}

// NopSubscriber is an embeddable default so a collaborator implements only
// the hooks it cares about.
type NopSubscriber struct{}

func (NopSubscriber) OnBookingCreated(context.Context, domain.BookingCreated) error { return nil }
func (NopSubscriber) OnBookingUpdated(context.Context, domain.BookingUpdated) error { return nil }
func (NopSubscriber) OnBookingStatusChanged(context.Context, domain.BookingStatusChanged) error {
	return nil
}
func (NopSubscriber) OnBookingDeleted(context.Context, domain.BookingDeleted) error { return nil }
