package catalog

import "servicehub/internal/domain"

type CreateServiceRequest struct {
	Name            string           `json:"name" binding:"required"`
	Description     string           `json:"description"`
	DurationMinutes int              `json:"duration_minutes" binding:"required,gt=0"`
	PriceType       domain.PriceType `json:"price_type" binding:"required"`
	BasePrice       float64          `json:"base_price"`
	Category        string           `json:"category"`
}

type UpdateServiceRequest struct {
	Name            *string           `json:"name"`
	Description     *string           `json:"description"`
	DurationMinutes *int              `json:"duration_minutes"`
	PriceType       *domain.PriceType `json:"price_type"`
	BasePrice       *float64          `json:"base_price"`
	Category        *string           `json:"category"`
	IsActive        *bool             `json:"is_active"`
}
