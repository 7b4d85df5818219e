package events

import (
	"context"

	"go.uber.org/zap"

	"servicehub/internal/domain"
)

// The real payment, calendar and notification integrations live outside this
// service. These subscribers are the in-process boundary: they record what
// would be handed off so the wiring is observable without the integrations.

// PaymentCapture reacts to new and confirmed bookings by requesting an
// external payment order.
type PaymentCapture struct {
	NopSubscriber
	Log *zap.Logger
}

func (PaymentCapture) Name() string { return "payment_capture" }

func (p PaymentCapture) OnBookingCreated(_ context.Context, ev domain.BookingCreated) error {
	p.Log.Info("payment order requested",
		zap.String("reference", ev.Booking.Reference),
		zap.Float64("total", ev.Booking.TotalCost),
		zap.Float64("deposit", ev.Booking.DepositAmount),
	)
	return nil
}

func (p PaymentCapture) OnBookingStatusChanged(_ context.Context, ev domain.BookingStatusChanged) error {
	if ev.New == domain.BookingConfirmed {
		p.Log.Info("payment capture requested",
			zap.String("reference", ev.Booking.Reference),
			zap.Float64("total", ev.Booking.TotalCost),
		)
	}
	return nil
}

// CalendarSync mirrors bookings into external calendars. A deleted booking is
// treated the same as a cancelled one.
type CalendarSync struct {
	NopSubscriber
	Log *zap.Logger
}

func (CalendarSync) Name() string { return "calendar_sync" }

func (c CalendarSync) OnBookingUpdated(_ context.Context, ev domain.BookingUpdated) error {
	c.Log.Info("calendar entry updated", zap.String("reference", ev.Booking.Reference))
	return nil
}

func (c CalendarSync) OnBookingStatusChanged(_ context.Context, ev domain.BookingStatusChanged) error {
	c.Log.Info("calendar entry status mirrored",
		zap.String("reference", ev.Booking.Reference),
		zap.String("status", string(ev.New)),
	)
	return nil
}

func (c CalendarSync) OnBookingDeleted(_ context.Context, ev domain.BookingDeleted) error {
	c.Log.Info("calendar entry removed", zap.String("reference", ev.Reference))
	return nil
}

// Notifier covers email/SMS fan-out on every lifecycle change.
type Notifier struct {
	NopSubscriber
	Log *zap.Logger
}

func (Notifier) Name() string { return "notifier" }

func (n Notifier) OnBookingCreated(_ context.Context, ev domain.BookingCreated) error {
	n.Log.Info("booking notification queued",
		zap.String("reference", ev.Booking.Reference),
		zap.String("client_email", ev.Booking.ClientEmail),
	)
	return nil
}

func (n Notifier) OnBookingStatusChanged(_ context.Context, ev domain.BookingStatusChanged) error {
	n.Log.Info("status notification queued",
		zap.String("reference", ev.Booking.Reference),
		zap.String("old", string(ev.Old)),
		zap.String("new", string(ev.New)),
	)
	return nil
}
