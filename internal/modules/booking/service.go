package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"servicehub/internal/config"
	"servicehub/internal/domain"
	"servicehub/internal/modules/availability"
	"servicehub/internal/modules/pricing"
	"servicehub/internal/pkg/validator"
	"servicehub/internal/repository"
)

type Service struct {
	bookings BookingRepository
	services ServiceRepository
	workers  WorkerRepository
	avail    AvailabilityChecker
	events   EventPublisher
	pricing  config.PricingConfig
}

func NewService(
	bookings BookingRepository,
	services ServiceRepository,
	workers WorkerRepository,
	avail AvailabilityChecker,
	events EventPublisher,
	pricingCfg config.PricingConfig,
) *Service {
	return &Service{
		bookings: bookings,
		services: services,
		workers:  workers,
		avail:    avail,
		events:   events,
		pricing:  pricingCfg,
	}
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.WorkerID <= 0 {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.Client.Name) == "" || strings.TrimSpace(req.Client.Email) == "" {
		return nil, ErrValidation
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrValidation
	}
	date = dateOnly(date)

	var svc *domain.Service
	if req.ServiceID != nil {
		svc, err = s.services.GetByID(ctx, *req.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrServiceNotFound
			}
			return nil, err
		}
		if !svc.IsActive {
			return nil, ErrValidation
		}
	}

	end := req.EndTime
	if end == "" && svc != nil {
		end, err = addMinutes(req.StartTime, svc.DurationMinutes)
		if err != nil {
			return nil, ErrValidation
		}
	}
	durationMinutes, ok := windowMinutes(req.StartTime, end)
	if !ok {
		return nil, ErrValidation
	}

	available, err := s.avail.IsAvailable(ctx, req.WorkerID, date, req.StartTime, end, 0)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}
	if !available {
		return nil, ErrConflict
	}

	worker, err := s.workers.GetByID(ctx, req.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	breakdown, err := s.quote(ctx, svc, worker, durationMinutes, req.PriceOverride)
	if err != nil {
		return nil, err
	}

	b := &domain.Booking{
		Reference:        uuid.NewString(),
		UserID:           req.UserID,
		WorkerID:         req.WorkerID,
		ServiceID:        req.ServiceID,
		BookingDate:      date,
		StartTime:        req.StartTime,
		EndTime:          end,
		DurationMinutes:  durationMinutes,
		Status:           domain.BookingPending,
		TotalCost:        breakdown.Total,
		DepositAmount:    breakdown.Deposit,
		CommissionAmount: breakdown.Commission,
		WorkerEarnings:   breakdown.WorkerEarnings,
		ClientName:       req.Client.Name,
		ClientEmail:      req.Client.Email,
		ClientPhone:      req.Client.Phone,
		ClientAddress:    req.Client.Address,
		ClientLat:        req.Client.Lat,
		ClientLng:        req.Client.Lng,
		Notes:            req.Notes,
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.events.PublishBookingCreated(ctx, domain.BookingCreated{Booking: b})
	return b, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, f repository.BookingFilters) ([]domain.Booking, int64, error) {
	return s.bookings.List(ctx, f)
}

// Update applies a partial patch. A worker/date/time change re-runs the
// availability gate (excluding the booking itself) and reprices; a status
// change must be legal in the lifecycle graph.
func (s *Service) Update(ctx context.Context, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	oldStatus := b.Status
	timeChanged := false

	if req.WorkerID != nil && *req.WorkerID != b.WorkerID {
		if *req.WorkerID <= 0 {
			return nil, ErrValidation
		}
		b.WorkerID = *req.WorkerID
		timeChanged = true
	}
	if req.Date != nil {
		d, err := time.Parse("2006-01-02", *req.Date)
		if err != nil {
			return nil, ErrValidation
		}
		d = dateOnly(d)
		if !d.Equal(b.BookingDate) {
			b.BookingDate = d
			timeChanged = true
		}
	}
	if req.StartTime != nil && *req.StartTime != b.StartTime {
		b.StartTime = *req.StartTime
		timeChanged = true
	}
	if req.EndTime != nil && *req.EndTime != b.EndTime {
		b.EndTime = *req.EndTime
		timeChanged = true
	}

	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	if req.ClientName != nil {
		if strings.TrimSpace(*req.ClientName) == "" {
			return nil, ErrValidation
		}
		b.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		if strings.TrimSpace(*req.ClientEmail) == "" {
			return nil, ErrValidation
		}
		b.ClientEmail = *req.ClientEmail
	}
	if req.ClientPhone != nil {
		b.ClientPhone = *req.ClientPhone
	}
	if req.ClientAddress != nil {
		b.ClientAddress = *req.ClientAddress
	}

	if timeChanged {
		durationMinutes, ok := windowMinutes(b.StartTime, b.EndTime)
		if !ok {
			return nil, ErrValidation
		}
		b.DurationMinutes = durationMinutes

		available, err := s.avail.IsAvailable(ctx, b.WorkerID, b.BookingDate, b.StartTime, b.EndTime, b.ID)
		if err != nil {
			if isNotFound(err) {
				return nil, ErrWorkerNotFound
			}
			return nil, err
		}
		if !available {
			return nil, ErrConflict
		}

		if err := s.reprice(ctx, b); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		newStatus := domain.BookingStatus(*req.Status)
		if newStatus != oldStatus {
			if !domain.CanTransition(oldStatus, newStatus) {
				return nil, ErrIllegalTransition
			}
			b.Status = newStatus
		}
	}

	if err := s.bookings.Update(ctx, b, timeChanged); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrConflict
		}
		return nil, err
	}

	if b.Status != oldStatus {
		s.events.PublishBookingStatusChanged(ctx, domain.BookingStatusChanged{
			Booking: b,
			Old:     oldStatus,
			New:     b.Status,
		})
	}
	s.events.PublishBookingUpdated(ctx, domain.BookingUpdated{Booking: b})
	return b, nil
}

// Delete removes the booking row. Subscribers treat this as a cancellation
// for their own cleanup.
func (s *Service) Delete(ctx context.Context, id int64) error {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.events.PublishBookingDeleted(ctx, domain.BookingDeleted{
		BookingID: b.ID,
		WorkerID:  b.WorkerID,
		Reference: b.Reference,
	})
	return nil
}

// CheckConflict exposes the bare overlap probe for callers that do not want
// to mutate anything.
func (s *Service) CheckConflict(ctx context.Context, workerID int64, date time.Time, start, end string, excludeID int64) (bool, error) {
	if !validator.Clock(start) || !validator.Clock(end) || end <= start {
		return false, ErrValidation
	}
	return s.bookings.HasConflict(ctx, workerID, dateOnly(date), start, end, excludeID)
}

// quote resolves the breakdown, honoring an explicit override only when the
// normal rate chain fails.
func (s *Service) quote(ctx context.Context, svc *domain.Service, worker *domain.Worker, durationMinutes int, override *float64) (pricing.Breakdown, error) {
	var link *domain.WorkerService
	if svc != nil {
		l, err := s.workers.GetServiceLink(ctx, worker.ID, svc.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.Breakdown{}, err
		}
		if err == nil && l.IsEnabled {
			link = l
		}
	}

	breakdown, err := pricing.Quote(svc, link, worker, durationMinutes, s.pricing)
	if err == nil {
		return breakdown, nil
	}
	if !errors.Is(err, pricing.ErrUnresolvable) {
		return pricing.Breakdown{}, err
	}
	if override == nil {
		return pricing.Breakdown{}, ErrPricingUnresolvable
	}
	breakdown, err = pricing.QuoteFromCost(*override, durationMinutes, s.pricing)
	if err != nil {
		return pricing.Breakdown{}, ErrPricingUnresolvable
	}
	return breakdown, nil
}

func (s *Service) reprice(ctx context.Context, b *domain.Booking) error {
	var svc *domain.Service
	if b.ServiceID != nil {
		var err error
		svc, err = s.services.GetByID(ctx, *b.ServiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrServiceNotFound
			}
			return err
		}
	}
	worker, err := s.workers.GetByID(ctx, b.WorkerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkerNotFound
		}
		return err
	}

	breakdown, err := s.quote(ctx, svc, worker, b.DurationMinutes, nil)
	if err != nil {
		return err
	}
	b.TotalCost = breakdown.Total
	b.DepositAmount = breakdown.Deposit
	b.CommissionAmount = breakdown.Commission
	b.WorkerEarnings = breakdown.WorkerEarnings
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, availability.ErrWorkerNotFound)
}

func windowMinutes(start, end string) (int, bool) {
	if !validator.Clock(start) || !validator.Clock(end) || end <= start {
		return 0, false
	}
	st, _ := time.Parse("15:04", start)
	et, _ := time.Parse("15:04", end)
	return int(et.Sub(st).Minutes()), true
}

func addMinutes(start string, d int) (string, error) {
	if !validator.Clock(start) || d <= 0 {
		return "", ErrValidation
	}
	t, _ := time.Parse("15:04", start)
	endMin := t.Hour()*60 + t.Minute() + d
	if endMin >= 24*60 {
		return "", ErrValidation
	}
	return fmt.Sprintf("%02d:%02d", endMin/60, endMin%60), nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
