package worker

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/validator"
	"servicehub/internal/repository"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("worker not found")
	ErrServiceNotFound = errors.New("service not found")
)

type WorkerRepository interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	Update(ctx context.Context, w *domain.Worker) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.WorkerFilters) ([]domain.Worker, int64, error)
	UpsertService(ctx context.Context, ws *domain.WorkerService) error
	GetServiceLink(ctx context.Context, workerID, serviceID int64) (*domain.WorkerService, error)
	ListServicesForWorker(ctx context.Context, workerID int64) ([]domain.WorkerService, error)
	RemoveService(ctx context.Context, workerID, serviceID int64) error
}

type ScheduleRepository interface {
	CreateSlot(ctx context.Context, s *domain.AvailabilitySlot) error
	DeleteSlot(ctx context.Context, workerID, slotID int64) error
	ListAllSlots(ctx context.Context, workerID int64) ([]domain.AvailabilitySlot, error)
	UpsertException(ctx context.Context, e *domain.AvailabilityException) error
	DeleteException(ctx context.Context, workerID, exceptionID int64) error
}

type CatalogReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type Service struct {
	workers   WorkerRepository
	schedules ScheduleRepository
	catalog   CatalogReader
}

func NewService(workers WorkerRepository, schedules ScheduleRepository, catalog CatalogReader) *Service {
	return &Service{workers: workers, schedules: schedules, catalog: catalog}
}

func (s *Service) Create(ctx context.Context, req CreateWorkerRequest) (*domain.Worker, error) {
	if req.UserID <= 0 || req.HourlyRate < 0 || req.ExperienceYears < 0 {
		return nil, ErrValidation
	}

	w := &domain.Worker{
		UserID:           req.UserID,
		Bio:              req.Bio,
		Skills:           req.Skills,
		HourlyRate:       req.HourlyRate,
		ServiceAreas:     req.ServiceAreas,
		Phone:            req.Phone,
		Address:          req.Address,
		ExperienceYears:  req.ExperienceYears,
		Certifications:   req.Certifications,
		Languages:        req.Languages,
		AvailabilityNote: req.AvailabilityNote,
		IsAvailable:      true,
	}
	w.RecalculateCompletion()

	if err := s.workers.Create(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Worker, error) {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return w, nil
}

func (s *Service) List(ctx context.Context, f repository.WorkerFilters) ([]domain.Worker, int64, error) {
	return s.workers.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateWorkerRequest) (*domain.Worker, error) {
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		w.Bio = *req.Bio
	}
	if req.Skills != nil {
		w.Skills = *req.Skills
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, ErrValidation
		}
		w.HourlyRate = *req.HourlyRate
	}
	if req.ServiceAreas != nil {
		w.ServiceAreas = *req.ServiceAreas
	}
	if req.Phone != nil {
		w.Phone = *req.Phone
	}
	if req.Address != nil {
		w.Address = *req.Address
	}
	if req.ExperienceYears != nil {
		if *req.ExperienceYears < 0 {
			return nil, ErrValidation
		}
		w.ExperienceYears = *req.ExperienceYears
	}
	if req.Certifications != nil {
		w.Certifications = *req.Certifications
	}
	if req.Languages != nil {
		w.Languages = *req.Languages
	}
	if req.AvailabilityNote != nil {
		w.AvailabilityNote = *req.AvailabilityNote
	}
	if req.IsAvailable != nil {
		w.IsAvailable = *req.IsAvailable
	}
	w.RecalculateCompletion()

	if err := s.workers.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.workers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

/* ---------- offered services ---------- */

// AssignService links a catalog service to the worker, optionally with a
// custom price that overrides the base price for this worker only.
func (s *Service) AssignService(ctx context.Context, workerID int64, req AssignServiceRequest) (*domain.WorkerService, error) {
	if _, err := s.Get(ctx, workerID); err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetByID(ctx, req.ServiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if req.CustomPrice != nil && *req.CustomPrice < 0 {
		return nil, ErrValidation
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}
	ws := &domain.WorkerService{
		WorkerID:    workerID,
		ServiceID:   req.ServiceID,
		CustomPrice: req.CustomPrice,
		IsEnabled:   enabled,
	}
	if err := s.workers.UpsertService(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *Service) ListServices(ctx context.Context, workerID int64) ([]domain.WorkerService, error) {
	if _, err := s.Get(ctx, workerID); err != nil {
		return nil, err
	}
	return s.workers.ListServicesForWorker(ctx, workerID)
}

func (s *Service) RemoveService(ctx context.Context, workerID, serviceID int64) error {
	if err := s.workers.RemoveService(ctx, workerID, serviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

/* ---------- weekly schedule ---------- */

func (s *Service) AddSlot(ctx context.Context, workerID int64, req SlotRequest) (*domain.AvailabilitySlot, error) {
	if _, err := s.Get(ctx, workerID); err != nil {
		return nil, err
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, ErrValidation
	}
	if !validator.Clock(req.StartTime) || !validator.Clock(req.EndTime) || req.EndTime <= req.StartTime {
		return nil, ErrValidation
	}

	// Overlapping slots are allowed: free time is the union of slots.
	slot := &domain.AvailabilitySlot{
		WorkerID:    workerID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}
	if err := s.schedules.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) ListSlots(ctx context.Context, workerID int64) ([]domain.AvailabilitySlot, error) {
	if _, err := s.Get(ctx, workerID); err != nil {
		return nil, err
	}
	return s.schedules.ListAllSlots(ctx, workerID)
}

func (s *Service) DeleteSlot(ctx context.Context, workerID, slotID int64) error {
	if err := s.schedules.DeleteSlot(ctx, workerID, slotID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

/* ---------- date exceptions ---------- */

func (s *Service) SetException(ctx context.Context, workerID int64, req ExceptionRequest) (*domain.AvailabilityException, error) {
	if _, err := s.Get(ctx, workerID); err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrValidation
	}

	hasHours := req.StartTime != "" || req.EndTime != ""
	if hasHours {
		if !validator.Clock(req.StartTime) || !validator.Clock(req.EndTime) || req.EndTime <= req.StartTime {
			return nil, ErrValidation
		}
	}

	e := &domain.AvailabilityException{
		WorkerID:    workerID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		IsAvailable: req.IsAvailable,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := s.schedules.UpsertException(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) DeleteException(ctx context.Context, workerID, exceptionID int64) error {
	if err := s.schedules.DeleteException(ctx, workerID, exceptionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
