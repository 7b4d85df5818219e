package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("service not found")
	ErrServiceInUse = errors.New("service has bookings")
)

type ServiceRepository interface {
	Create(ctx context.Context, s *domain.Service) error
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.ServiceFilters) ([]domain.Service, int64, error)
}

type BookingCounter interface {
	CountByService(ctx context.Context, serviceID int64) (int64, error)
}

type Service struct {
	services ServiceRepository
	bookings BookingCounter
}

func NewService(services ServiceRepository, bookings BookingCounter) *Service {
	return &Service{services: services, bookings: bookings}
}

func (s *Service) Create(ctx context.Context, req CreateServiceRequest) (*domain.Service, error) {
	if req.DurationMinutes <= 0 || req.BasePrice < 0 {
		return nil, ErrValidation
	}
	if req.PriceType != domain.PriceHourly && req.PriceType != domain.PriceFixed {
		return nil, ErrValidation
	}

	svc := &domain.Service{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceType:       req.PriceType,
		BasePrice:       req.BasePrice,
		Category:        req.Category,
		IsActive:        true,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return svc, nil
}

func (s *Service) List(ctx context.Context, f repository.ServiceFilters) ([]domain.Service, int64, error) {
	return s.services.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrValidation
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.PriceType != nil {
		if *req.PriceType != domain.PriceHourly && *req.PriceType != domain.PriceFixed {
			return nil, ErrValidation
		}
		svc.PriceType = *req.PriceType
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, ErrValidation
		}
		svc.BasePrice = *req.BasePrice
	}
	if req.Category != nil {
		svc.Category = *req.Category
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// Delete refuses to remove a service that any booking still references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	cnt, err := s.bookings.CountByService(ctx, id)
	if err != nil {
		return err
	}
	if cnt > 0 {
		return ErrServiceInUse
	}

	if err := s.services.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
