package availability

import (
	"context"
	"time"

	"servicehub/internal/domain"
)

type WorkerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	ListWorkersOffering(ctx context.Context, serviceID int64) ([]int64, error)
}

type ScheduleRepository interface {
	ListSlots(ctx context.Context, workerID int64, dayOfWeek int) ([]domain.AvailabilitySlot, error)
	GetException(ctx context.Context, workerID int64, date time.Time) (*domain.AvailabilityException, error)
}

type ConflictRepository interface {
	HasConflict(ctx context.Context, workerID int64, date time.Time, start, end string, excludeID int64) (bool, error)
}
