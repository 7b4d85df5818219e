package domain

import (
	"strings"
	"time"
)

// Worker is a provider profile. Identity (login, password) lives in an
// external user service; UserID is the reference to it.
type Worker struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id" validate:"required"`

	Bio              string   `json:"bio,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	HourlyRate       float64  `json:"hourly_rate" validate:"gte=0"`
	ServiceAreas     []string `json:"service_areas,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	Address          string   `json:"address,omitempty"`
	ExperienceYears  int      `json:"experience_years" validate:"gte=0"`
	Certifications   string   `json:"certifications,omitempty"`
	Languages        string   `json:"languages,omitempty"`
	AvailabilityNote string   `json:"availability_note,omitempty"`

	IsAvailable       bool    `json:"is_available"`
	Rating            float64 `json:"rating" validate:"gte=0,lte=5"`
	TotalBookings     int     `json:"total_bookings"`
	ProfileCompletion int     `json:"profile_completion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecalculateCompletion scores the profile 0-100 from the fields a client
// sees before booking.
func (w *Worker) RecalculateCompletion() {
	fields := []bool{
		strings.TrimSpace(w.Bio) != "",
		len(w.Skills) > 0,
		w.HourlyRate > 0,
		len(w.ServiceAreas) > 0,
		w.Phone != "",
		w.Address != "",
		w.ExperienceYears > 0,
		w.Certifications != "",
		w.Languages != "",
		w.AvailabilityNote != "",
	}
	done := 0
	for _, ok := range fields {
		if ok {
			done++
		}
	}
	w.ProfileCompletion = done * 100 / len(fields)
}

// WorkerService links a worker to a catalog service. CustomPrice, when set,
// strictly overrides the service base price for this worker.
type WorkerService struct {
	ID          int64     `json:"id"`
	WorkerID    int64     `json:"worker_id" validate:"required"`
	ServiceID   int64     `json:"service_id" validate:"required"`
	CustomPrice *float64  `json:"custom_price,omitempty"`
	IsEnabled   bool      `json:"is_enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AvailabilitySlot is one recurring weekly window. Slots may overlap; free
// time is the union of enabled slots for the day.
type AvailabilitySlot struct {
	ID          int64  `json:"id"`
	WorkerID    int64  `json:"worker_id" validate:"required"`
	DayOfWeek   int    `json:"day_of_week" validate:"gte=0,lte=6"` // 0 = Sunday
	StartTime   string `json:"start_time" validate:"required"`     // "15:04"
	EndTime     string `json:"end_time" validate:"required"`
	IsAvailable bool   `json:"is_available"`
}

// AvailabilityException overrides the weekly schedule for a single date:
// either a full-day block (IsAvailable=false, no times) or custom hours.
type AvailabilityException struct {
	ID          int64     `json:"id"`
	WorkerID    int64     `json:"worker_id" validate:"required"`
	Date        time.Time `json:"date"`
	IsAvailable bool      `json:"is_available"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
}
