package booking

import (
	"context"
	"time"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking, recheck bool) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error)
	HasConflict(ctx context.Context, workerID int64, date time.Time, start, end string, excludeID int64) (bool, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type WorkerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetServiceLink(ctx context.Context, workerID, serviceID int64) (*domain.WorkerService, error)
}

// AvailabilityChecker is the schedule+conflict gate run before any write
// that moves a booking's time.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, workerID int64, date time.Time, start, end string, excludeBookingID int64) (bool, error)
}

// EventPublisher fans lifecycle events out to collaborators. Fire-and-forget:
// implementations must never return control-flow errors into the booking path.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev domain.BookingCreated)
	PublishBookingUpdated(ctx context.Context, ev domain.BookingUpdated)
	PublishBookingStatusChanged(ctx context.Context, ev domain.BookingStatusChanged)
	PublishBookingDeleted(ctx context.Context, ev domain.BookingDeleted)
}
