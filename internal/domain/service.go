package domain

import "time"

type PriceType string

const (
	PriceHourly PriceType = "hourly"
	PriceFixed  PriceType = "fixed"
)

// Service is a bookable offering from the catalog. A service row may not be
// deleted while any booking still references it.
type Service struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name" validate:"required"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,gt=0"`
	PriceType       PriceType `json:"price_type" validate:"required,oneof=hourly fixed"`
	BasePrice       float64   `json:"base_price" validate:"gte=0"`
	Category        string    `json:"category,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
