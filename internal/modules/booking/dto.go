package booking

import "servicehub/internal/domain"

type CreateBookingRequest struct {
	UserID    int64  `json:"user_id"` // 0 = guest
	WorkerID  int64  `json:"worker_id" binding:"required"`
	ServiceID *int64 `json:"service_id"`

	Date      string `json:"date" binding:"required"`       // "2006-01-02"
	StartTime string `json:"start_time" binding:"required"` // "15:04"
	EndTime   string `json:"end_time"`                      // defaults to start + service duration

	Client domain.ClientDetails `json:"client"`
	Notes  string               `json:"notes"`

	// PriceOverride is the explicit service cost a caller may supply when no
	// rate is resolvable (ad-hoc booking for a worker without a rate).
	PriceOverride *float64 `json:"price_override"`
}

// UpdateBookingRequest is a partial patch. Only the fields listed here may
// be changed through the API.
type UpdateBookingRequest struct {
	WorkerID  *int64  `json:"worker_id"`
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Status    *string `json:"status"`
	Notes     *string `json:"notes"`

	ClientName    *string `json:"client_name"`
	ClientEmail   *string `json:"client_email"`
	ClientPhone   *string `json:"client_phone"`
	ClientAddress *string `json:"client_address"`
}

type CheckConflictRequest struct {
	WorkerID  int64  `json:"worker_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	ExcludeID int64  `json:"exclude_booking_id"`
}
