package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"servicehub/internal/domain"
	"servicehub/internal/repository"
)

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) Create(ctx context.Context, s *domain.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

func (m *mockServiceRepo) Update(ctx context.Context, s *domain.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockServiceRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockServiceRepo) List(ctx context.Context, f repository.ServiceFilters) ([]domain.Service, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Service), args.Get(1).(int64), args.Error(2)
}

type mockBookingCounter struct{ mock.Mock }

func (m *mockBookingCounter) CountByService(ctx context.Context, serviceID int64) (int64, error) {
	args := m.Called(ctx, serviceID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCreate_DefaultsToActive(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := NewService(repo, new(mockBookingCounter))

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Service")).Return(nil)

	out, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "Deep clean", DurationMinutes: 90, PriceType: domain.PriceHourly, BasePrice: 50,
	})

	require.NoError(t, err)
	assert.True(t, out.IsActive)
	assert.Equal(t, domain.PriceHourly, out.PriceType)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(new(mockServiceRepo), new(mockBookingCounter))

	_, err := svc.Create(context.Background(), CreateServiceRequest{
		Name: "x", DurationMinutes: 0, PriceType: domain.PriceHourly, BasePrice: 50,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), CreateServiceRequest{
		Name: "x", DurationMinutes: 60, PriceType: "per_item", BasePrice: 50,
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), CreateServiceRequest{
		Name: "x", DurationMinutes: 60, PriceType: domain.PriceFixed, BasePrice: -1,
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdate_PartialPatch(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := NewService(repo, new(mockBookingCounter))

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{
		ID: 1, Name: "Deep clean", DurationMinutes: 90, PriceType: domain.PriceHourly,
		BasePrice: 50, IsActive: true,
	}, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	price := 60.0
	inactive := false
	out, err := svc.Update(context.Background(), 1, UpdateServiceRequest{
		BasePrice: &price, IsActive: &inactive,
	})

	require.NoError(t, err)
	assert.Equal(t, 60.0, out.BasePrice)
	assert.False(t, out.IsActive)
	assert.Equal(t, "Deep clean", out.Name) // untouched fields survive
}

func TestDelete_RefusedWhileReferenced(t *testing.T) {
	repo := new(mockServiceRepo)
	counter := new(mockBookingCounter)
	svc := NewService(repo, counter)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1}, nil)
	counter.On("CountByService", mock.Anything, int64(1)).Return(int64(3), nil)

	err := svc.Delete(context.Background(), 1)

	assert.ErrorIs(t, err, ErrServiceInUse)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDelete_Unreferenced(t *testing.T) {
	repo := new(mockServiceRepo)
	counter := new(mockBookingCounter)
	svc := NewService(repo, counter)

	repo.On("GetByID", mock.Anything, int64(1)).Return(&domain.Service{ID: 1}, nil)
	counter.On("CountByService", mock.Anything, int64(1)).Return(int64(0), nil)
	repo.On("Delete", mock.Anything, int64(1)).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 1))
}

func TestGet_NotFound(t *testing.T) {
	repo := new(mockServiceRepo)
	svc := NewService(repo, new(mockBookingCounter))

	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 9)

	assert.ErrorIs(t, err, ErrNotFound)
}
