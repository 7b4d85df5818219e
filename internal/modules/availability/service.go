package availability

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/validator"
)

// Service decides whether a worker is free for a requested window. It is
// read-only: the serializing check-then-write for actual booking happens in
// the booking repository.
type Service struct {
	workers   WorkerRepository
	schedules ScheduleRepository
	conflicts ConflictRepository
}

func NewService(workers WorkerRepository, schedules ScheduleRepository, conflicts ConflictRepository) *Service {
	return &Service{workers: workers, schedules: schedules, conflicts: conflicts}
}

// IsAvailable reports whether [start, end) on date is bookable for the
// worker. The weekly schedule (or a date exception overriding it) must cover
// the window, and no active booking may overlap it. excludeBookingID skips
// one booking in the conflict scan — used when rescheduling a booking against
// itself.
func (s *Service) IsAvailable(ctx context.Context, workerID int64, date time.Time, start, end string, excludeBookingID int64) (bool, error) {
	if !validWindow(start, end) {
		return false, ErrValidation
	}

	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrWorkerNotFound
		}
		return false, err
	}
	if !worker.IsAvailable {
		return false, nil
	}

	covered, err := s.scheduleCovers(ctx, workerID, date, start, end)
	if err != nil {
		return false, err
	}
	if !covered {
		return false, nil
	}

	conflict, err := s.conflicts.HasConflict(ctx, workerID, dateOnly(date), start, end, excludeBookingID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

// FindAvailableWorkers returns workers with an enabled link to the service
// that are free for the window. Used by the "any worker" availability check.
func (s *Service) FindAvailableWorkers(ctx context.Context, serviceID int64, date time.Time, start, end string) ([]domain.Worker, error) {
	if !validWindow(start, end) {
		return nil, ErrValidation
	}

	ids, err := s.workers.ListWorkersOffering(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Worker, 0)
	for _, id := range ids {
		ok, err := s.IsAvailable(ctx, id, date, start, end, 0)
		if err != nil {
			if errors.Is(err, ErrWorkerNotFound) {
				continue
			}
			return nil, err
		}
		if !ok {
			continue
		}
		w, err := s.workers.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, nil
}

// scheduleCovers checks the window against the worker's schedule for the
// date. A date exception fully overrides the weekly slots: a blocked day
// rejects everything, custom hours replace the weekly windows, and an open
// exception without hours admits the whole day.
func (s *Service) scheduleCovers(ctx context.Context, workerID int64, date time.Time, start, end string) (bool, error) {
	ex, err := s.schedules.GetException(ctx, workerID, dateOnly(date))
	if err != nil {
		return false, err
	}
	if ex != nil {
		if !ex.IsAvailable {
			return false, nil
		}
		if ex.StartTime == "" && ex.EndTime == "" {
			return true, nil
		}
		return start >= ex.StartTime && end <= ex.EndTime, nil
	}

	slots, err := s.schedules.ListSlots(ctx, workerID, int(date.Weekday()))
	if err != nil {
		return false, err
	}
	return unionCovers(slots, start, end), nil
}

// unionCovers reports whether the union of the slots contains [start, end).
// Slots may overlap or touch; they are merged first.
func unionCovers(slots []domain.AvailabilitySlot, start, end string) bool {
	type span struct{ s, e int }

	spans := make([]span, 0, len(slots))
	for _, sl := range slots {
		s0, ok0 := clockMinutes(sl.StartTime)
		e0, ok1 := clockMinutes(sl.EndTime)
		if !ok0 || !ok1 || e0 <= s0 {
			continue
		}
		spans = append(spans, span{s0, e0})
	}
	if len(spans) == 0 {
		return false
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].s < spans[j].s })

	merged := spans[:1]
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.s <= last.e {
			if sp.e > last.e {
				last.e = sp.e
			}
			continue
		}
		merged = append(merged, sp)
	}

	ws, _ := clockMinutes(start)
	we, _ := clockMinutes(end)
	for _, sp := range merged {
		if ws >= sp.s && we <= sp.e {
			return true
		}
	}
	return false
}

func validWindow(start, end string) bool {
	return validator.Clock(start) && validator.Clock(end) && start < end
}

func clockMinutes(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
