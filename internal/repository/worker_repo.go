package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"servicehub/internal/domain"
)

type WorkerRepository struct {
	db *gorm.DB
}

func NewWorkerRepository(db *gorm.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

type workerModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	UserID            int64     `gorm:"column:user_id;uniqueIndex"`
	Bio               *string   `gorm:"column:bio;type:text"`
	Skills            *string   `gorm:"column:skills;type:text"` // JSON array
	HourlyRate        float64   `gorm:"column:hourly_rate"`
	ServiceAreas      *string   `gorm:"column:service_areas;type:text"` // JSON array
	Phone             string    `gorm:"column:phone"`
	Address           string    `gorm:"column:address"`
	ExperienceYears   int       `gorm:"column:experience_years"`
	Certifications    string    `gorm:"column:certifications"`
	Languages         string    `gorm:"column:languages"`
	AvailabilityNote  string    `gorm:"column:availability_note"`
	IsAvailable       bool      `gorm:"column:is_available;index"`
	Rating            float64   `gorm:"column:rating"`
	TotalBookings     int       `gorm:"column:total_bookings"`
	ProfileCompletion int       `gorm:"column:profile_completion"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (workerModel) TableName() string { return "workers" }

func encodeStrings(v []string) *string {
	if len(v) == 0 {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

func decodeStrings(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil
	}
	return out
}

func toDomainWorker(m workerModel) *domain.Worker {
	var bio string
	if m.Bio != nil {
		bio = *m.Bio
	}
	return &domain.Worker{
		ID:                m.ID,
		UserID:            m.UserID,
		Bio:               bio,
		Skills:            decodeStrings(m.Skills),
		HourlyRate:        m.HourlyRate,
		ServiceAreas:      decodeStrings(m.ServiceAreas),
		Phone:             m.Phone,
		Address:           m.Address,
		ExperienceYears:   m.ExperienceYears,
		Certifications:    m.Certifications,
		Languages:         m.Languages,
		AvailabilityNote:  m.AvailabilityNote,
		IsAvailable:       m.IsAvailable,
		Rating:            m.Rating,
		TotalBookings:     m.TotalBookings,
		ProfileCompletion: m.ProfileCompletion,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toWorkerModel(w *domain.Worker) workerModel {
	var bio *string
	if w.Bio != "" {
		v := w.Bio
		bio = &v
	}
	return workerModel{
		ID:                w.ID,
		UserID:            w.UserID,
		Bio:               bio,
		Skills:            encodeStrings(w.Skills),
		HourlyRate:        w.HourlyRate,
		ServiceAreas:      encodeStrings(w.ServiceAreas),
		Phone:             w.Phone,
		Address:           w.Address,
		ExperienceYears:   w.ExperienceYears,
		Certifications:    w.Certifications,
		Languages:         w.Languages,
		AvailabilityNote:  w.AvailabilityNote,
		IsAvailable:       w.IsAvailable,
		Rating:            w.Rating,
		TotalBookings:     w.TotalBookings,
		ProfileCompletion: w.ProfileCompletion,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func (r *WorkerRepository) Create(ctx context.Context, w *domain.Worker) error {
	m := toWorkerModel(w)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	var m workerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainWorker(m), nil
}

func (r *WorkerRepository) Update(ctx context.Context, w *domain.Worker) error {
	m := toWorkerModel(w)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		return err
	}
	*w = *toDomainWorker(m)
	return nil
}

func (r *WorkerRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&workerModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type WorkerFilters struct {
	Skill         string
	ServiceArea   string
	AvailableOnly bool
	Limit         int
	Offset        int
}

func (r *WorkerRepository) List(ctx context.Context, f WorkerFilters) ([]domain.Worker, int64, error) {
	q := r.db.WithContext(ctx).Model(&workerModel{})
	if f.Skill != "" {
		q = q.Where("skills LIKE ?", "%"+f.Skill+"%")
	}
	if f.ServiceArea != "" {
		q = q.Where("service_areas LIKE ?", "%"+f.ServiceArea+"%")
	}
	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var models []workerModel
	if err := q.Order("rating DESC, id ASC").Limit(limit).Offset(f.Offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Worker, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainWorker(m))
	}
	return out, total, nil
}

/* ---------- worker-service links ---------- */

type workerServiceModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	WorkerID    int64     `gorm:"column:worker_id;uniqueIndex:idx_worker_service"`
	ServiceID   int64     `gorm:"column:service_id;uniqueIndex:idx_worker_service"`
	CustomPrice *float64  `gorm:"column:custom_price"`
	IsEnabled   bool      `gorm:"column:is_enabled"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (workerServiceModel) TableName() string { return "worker_services" }

func toDomainWorkerService(m workerServiceModel) *domain.WorkerService {
	return &domain.WorkerService{
		ID:          m.ID,
		WorkerID:    m.WorkerID,
		ServiceID:   m.ServiceID,
		CustomPrice: m.CustomPrice,
		IsEnabled:   m.IsEnabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *WorkerRepository) UpsertService(ctx context.Context, ws *domain.WorkerService) error {
	var existing workerServiceModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND service_id = ?", ws.WorkerID, ws.ServiceID).
		First(&existing).Error

	m := workerServiceModel{
		WorkerID:    ws.WorkerID,
		ServiceID:   ws.ServiceID,
		CustomPrice: ws.CustomPrice,
		IsEnabled:   ws.IsEnabled,
	}
	switch {
	case err == nil:
		m.ID = existing.ID
		m.CreatedAt = existing.CreatedAt
		err = r.db.WithContext(ctx).Save(&m).Error
	case err == gorm.ErrRecordNotFound:
		err = r.db.WithContext(ctx).Create(&m).Error
	}
	if err != nil {
		return err
	}
	*ws = *toDomainWorkerService(m)
	return nil
}

func (r *WorkerRepository) GetServiceLink(ctx context.Context, workerID, serviceID int64) (*domain.WorkerService, error) {
	var m workerServiceModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ? AND service_id = ?", workerID, serviceID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return toDomainWorkerService(m), nil
}

func (r *WorkerRepository) ListServicesForWorker(ctx context.Context, workerID int64) ([]domain.WorkerService, error) {
	var models []workerServiceModel
	err := r.db.WithContext(ctx).
		Where("worker_id = ?", workerID).
		Order("service_id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.WorkerService, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainWorkerService(m))
	}
	return out, nil
}

// ListWorkersOffering returns worker ids with an enabled link to the service.
func (r *WorkerRepository) ListWorkersOffering(ctx context.Context, serviceID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&workerServiceModel{}).
		Where("service_id = ? AND is_enabled = ?", serviceID, true).
		Order("worker_id ASC").
		Pluck("worker_id", &ids).Error
	return ids, err
}

func (r *WorkerRepository) RemoveService(ctx context.Context, workerID, serviceID int64) error {
	tx := r.db.WithContext(ctx).
		Where("worker_id = ? AND service_id = ?", workerID, serviceID).
		Delete(&workerServiceModel{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
