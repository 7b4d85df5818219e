package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRefunded   BookingStatus = "refunded"
)

// statusTransitions is the lifecycle graph. completed, cancelled and
// refunded are terminal. in_progress is an optional intermediate: a
// confirmed booking may complete directly.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCompleted, BookingCancelled, BookingRefunded},
	BookingInProgress: {BookingCompleted},
}

func CanTransition(from, to BookingStatus) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the statuses that occupy a worker's time slot.
// Cancelled and completed bookings never block a new booking.
func ActiveStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed, BookingInProgress, BookingRefunded}
}

// ClientDetails is contact data supplied at booking time. user_id may be 0
// (guest checkout), so name and email here are required instead.
type ClientDetails struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address string  `json:"address,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

type Booking struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	UserID    int64  `json:"user_id"`
	WorkerID  int64  `json:"worker_id" validate:"required"`
	ServiceID *int64 `json:"service_id,omitempty"` // nil = ad-hoc booking

	BookingDate     time.Time `json:"booking_date"`
	StartTime       string    `json:"start_time" validate:"required"` // "15:04"
	EndTime         string    `json:"end_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes"`

	Status BookingStatus `json:"status"`

	TotalCost        float64 `json:"total_cost"`
	DepositAmount    float64 `json:"deposit_amount"`
	CommissionAmount float64 `json:"commission_amount"`
	WorkerEarnings   float64 `json:"worker_earnings"`

	ClientName    string  `json:"client_name"`
	ClientEmail   string  `json:"client_email"`
	ClientPhone   string  `json:"client_phone,omitempty"`
	ClientAddress string  `json:"client_address,omitempty"`
	ClientLat     float64 `json:"client_lat,omitempty"`
	ClientLng     float64 `json:"client_lng,omitempty"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) Client() ClientDetails {
	return ClientDetails{
		Name:    b.ClientName,
		Email:   b.ClientEmail,
		Phone:   b.ClientPhone,
		Address: b.ClientAddress,
		Lat:     b.ClientLat,
		Lng:     b.ClientLng,
	}
}
