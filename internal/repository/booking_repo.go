package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"servicehub/internal/domain"
)

// ErrSlotTaken is returned when the conflict-guarded insert/update finds an
// overlapping active booking for the same worker and date, or when the
// database-level no-overlap constraint fires first.
var ErrSlotTaken = errors.New("slot already taken")

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	Reference        string    `gorm:"column:reference;uniqueIndex"`
	UserID           int64     `gorm:"column:user_id;index"`
	WorkerID         int64     `gorm:"column:worker_id;index:idx_bookings_worker_date"`
	ServiceID        *int64    `gorm:"column:service_id;index"`
	BookingDate      time.Time `gorm:"column:booking_date;index:idx_bookings_worker_date"`
	StartTime        string    `gorm:"column:start_time;size:5"`
	EndTime          string    `gorm:"column:end_time;size:5"`
	DurationMinutes  int       `gorm:"column:duration_minutes"`
	Status           string    `gorm:"column:status;index"`
	TotalCost        float64   `gorm:"column:total_cost"`
	DepositAmount    float64   `gorm:"column:deposit_amount"`
	CommissionAmount float64   `gorm:"column:commission_amount"`
	WorkerEarnings   float64   `gorm:"column:worker_earnings"`
	ClientName       string    `gorm:"column:client_name"`
	ClientEmail      string    `gorm:"column:client_email"`
	ClientPhone      string    `gorm:"column:client_phone"`
	ClientAddress    string    `gorm:"column:client_address"`
	ClientLat        float64   `gorm:"column:client_lat"`
	ClientLng        float64   `gorm:"column:client_lng"`
	Notes            *string   `gorm:"column:notes;type:text"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var notes string
	if m.Notes != nil {
		notes = *m.Notes
	}
	return &domain.Booking{
		ID:               m.ID,
		Reference:        m.Reference,
		UserID:           m.UserID,
		WorkerID:         m.WorkerID,
		ServiceID:        m.ServiceID,
		BookingDate:      m.BookingDate,
		StartTime:        m.StartTime,
		EndTime:          m.EndTime,
		DurationMinutes:  m.DurationMinutes,
		Status:           domain.BookingStatus(m.Status),
		TotalCost:        m.TotalCost,
		DepositAmount:    m.DepositAmount,
		CommissionAmount: m.CommissionAmount,
		WorkerEarnings:   m.WorkerEarnings,
		ClientName:       m.ClientName,
		ClientEmail:      m.ClientEmail,
		ClientPhone:      m.ClientPhone,
		ClientAddress:    m.ClientAddress,
		ClientLat:        m.ClientLat,
		ClientLng:        m.ClientLng,
		Notes:            notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	var notes *string
	if b.Notes != "" {
		v := b.Notes
		notes = &v
	}
	return bookingModel{
		ID:               b.ID,
		Reference:        b.Reference,
		UserID:           b.UserID,
		WorkerID:         b.WorkerID,
		ServiceID:        b.ServiceID,
		BookingDate:      b.BookingDate,
		StartTime:        b.StartTime,
		EndTime:          b.EndTime,
		DurationMinutes:  b.DurationMinutes,
		Status:           string(b.Status),
		TotalCost:        b.TotalCost,
		DepositAmount:    b.DepositAmount,
		CommissionAmount: b.CommissionAmount,
		WorkerEarnings:   b.WorkerEarnings,
		ClientName:       b.ClientName,
		ClientEmail:      b.ClientEmail,
		ClientPhone:      b.ClientPhone,
		ClientAddress:    b.ClientAddress,
		ClientLat:        b.ClientLat,
		ClientLng:        b.ClientLng,
		Notes:            notes,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// conflictQuery counts active bookings overlapping [start, end) for the
// worker on the given date, using the half-open interval test.
func conflictQuery(tx *gorm.DB, workerID int64, date time.Time, start, end string, excludeID int64) *gorm.DB {
	q := tx.Model(&bookingModel{}).
		Where("worker_id = ?", workerID).
		Where("booking_date = ?", date).
		Where("status NOT IN ?", []string{string(domain.BookingCancelled), string(domain.BookingCompleted)}).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

// HasConflict is the read-only overlap probe used by the availability engine.
func (r *BookingRepository) HasConflict(ctx context.Context, workerID int64, date time.Time, start, end string, excludeID int64) (bool, error) {
	var cnt int64
	tx := conflictQuery(r.db.WithContext(ctx), workerID, date, start, end, excludeID).Count(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// Create inserts the booking with the conflict check and the write in one
// transaction. On postgres the idx_no_double_booking exclusion constraint is
// the backstop for two transactions racing past the check.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := conflictQuery(tx, b.WorkerID, b.BookingDate, b.StartTime, b.EndTime, 0).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrSlotTaken
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		return mapConstraintErr(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

// Update saves the booking. When recheck is set (worker, date or times
// changed) the overlap scan runs in the same transaction, excluding the
// booking's own row.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking, recheck bool) error {
	m := toBookingModel(b)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if recheck {
			var cnt int64
			if err := conflictQuery(tx, b.WorkerID, b.BookingDate, b.StartTime, b.EndTime, b.ID).Count(&cnt).Error; err != nil {
				return err
			}
			if cnt > 0 {
				return ErrSlotTaken
			}
		}
		return tx.Save(&m).Error
	})
	if err != nil {
		return mapConstraintErr(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type BookingFilters struct {
	UserID    int64
	WorkerID  int64
	ServiceID int64
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
	SortBy    string // booking_date | created_at | total_cost
	SortDesc  bool
}

var bookingSortColumns = map[string]string{
	"booking_date": "booking_date",
	"created_at":   "created_at",
	"total_cost":   "total_cost",
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilters) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&bookingModel{})

	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.WorkerID > 0 {
		q = q.Where("worker_id = ?", f.WorkerID)
	}
	if f.ServiceID > 0 {
		q = q.Where("service_id = ?", f.ServiceID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("booking_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("booking_date <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := bookingSortColumns[f.SortBy]
	if !ok {
		col = "booking_date"
	}
	order := col + " ASC, start_time ASC"
	if f.SortDesc {
		order = col + " DESC, start_time DESC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var models []bookingModel
	if err := q.Order(order).Limit(limit).Offset(f.Offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

// CountByService backs the catalog's referential guard.
func (r *BookingRepository) CountByService(ctx context.Context, serviceID int64) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&bookingModel{}).Where("service_id = ?", serviceID).Count(&cnt)
	return cnt, tx.Error
}

// mapConstraintErr translates a postgres unique/exclusion violation raised by
// the no-overlap index into ErrSlotTaken.
func mapConstraintErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" || pgErr.Code == "23P01" {
			return ErrSlotTaken
		}
	}
	return err
}
