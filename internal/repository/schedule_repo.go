package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

// ScheduleRepository holds the recurring weekly slots and one-off exceptions
// the availability engine reads.
type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

type availabilitySlotModel struct {
	ID          int64  `gorm:"column:id;primaryKey"`
	WorkerID    int64  `gorm:"column:worker_id;index"`
	DayOfWeek   int    `gorm:"column:day_of_week"`
	StartTime   string `gorm:"column:start_time;size:5"`
	EndTime     string `gorm:"column:end_time;size:5"`
	IsAvailable bool   `gorm:"column:is_available"`
}

func (availabilitySlotModel) TableName() string { return "availability_slots" }

type availabilityExceptionModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	WorkerID    int64     `gorm:"column:worker_id;uniqueIndex:idx_exception_worker_date"`
	Date        time.Time `gorm:"column:date;uniqueIndex:idx_exception_worker_date"`
	IsAvailable bool      `gorm:"column:is_available"`
	StartTime   string    `gorm:"column:start_time;size:5"`
	EndTime     string    `gorm:"column:end_time;size:5"`
}

func (availabilityExceptionModel) TableName() string { return "availability_exceptions" }

func toDomainSlot(m availabilitySlotModel) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{
		ID:          m.ID,
		WorkerID:    m.WorkerID,
		DayOfWeek:   m.DayOfWeek,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
		IsAvailable: m.IsAvailable,
	}
}

func toDomainException(m availabilityExceptionModel) domain.AvailabilityException {
	return domain.AvailabilityException{
		ID:          m.ID,
		WorkerID:    m.WorkerID,
		Date:        m.Date,
		IsAvailable: m.IsAvailable,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
	}
}

func (r *ScheduleRepository) CreateSlot(ctx context.Context, s *domain.AvailabilitySlot) error {
	m := availabilitySlotModel{
		WorkerID:    s.WorkerID,
		DayOfWeek:   s.DayOfWeek,
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		IsAvailable: s.IsAvailable,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toDomainSlot(m)
	return nil
}

func (r *ScheduleRepository) DeleteSlot(ctx context.Context, workerID, slotID int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND worker_id = ?", slotID, workerID).
		Delete(&availabilitySlotModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSlots returns the enabled weekly windows for a worker on a weekday.
func (r *ScheduleRepository) ListSlots(ctx context.Context, workerID int64, dayOfWeek int) ([]domain.AvailabilitySlot, error) {
	var models []availabilitySlotModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND day_of_week = ? AND is_available = ?", workerID, dayOfWeek, true).
		Order("start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AvailabilitySlot, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainSlot(m))
	}
	return out, nil
}

func (r *ScheduleRepository) ListAllSlots(ctx context.Context, workerID int64) ([]domain.AvailabilitySlot, error) {
	var models []availabilitySlotModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("day_of_week ASC, start_time ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.AvailabilitySlot, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainSlot(m))
	}
	return out, nil
}

func (r *ScheduleRepository) UpsertException(ctx context.Context, e *domain.AvailabilityException) error {
	var existing availabilityExceptionModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date = ?", e.WorkerID, e.Date).
		First(&existing).Error

	m := availabilityExceptionModel{
		WorkerID:    e.WorkerID,
		Date:        e.Date,
		IsAvailable: e.IsAvailable,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
	}
	switch {
	case err == nil:
		m.ID = existing.ID
		err = r.db.WithContext(ctx).Save(&m).Error
	case err == gorm.ErrRecordNotFound:
		err = r.db.WithContext(ctx).Create(&m).Error
	}
	if err != nil {
		return err
	}
	*e = toDomainException(m)
	return nil
}

// GetException returns nil (no error) when the date has no override.
func (r *ScheduleRepository) GetException(ctx context.Context, workerID int64, date time.Time) (*domain.AvailabilityException, error) {
	var m availabilityExceptionModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND date = ?", workerID, date).
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e := toDomainException(m)
	return &e, nil
}

func (r *ScheduleRepository) DeleteException(ctx context.Context, workerID, exceptionID int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND worker_id = ?", exceptionID, workerID).
		Delete(&availabilityExceptionModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
