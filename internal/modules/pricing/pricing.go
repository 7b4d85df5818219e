package pricing

import (
	"errors"
	"math"

	"servicehub/internal/config"
	"servicehub/internal/domain"
)

// ErrUnresolvable means no rate could be determined for the booking. A quote
// never silently falls back to zero; a free booking requires the service to
// be explicitly priced at 0.
var ErrUnresolvable = errors.New("no rate resolvable for booking")

// Breakdown is the full money split for one booking.
type Breakdown struct {
	ServiceCost    float64 `json:"service_cost"`
	SystemFee      float64 `json:"system_fee"`
	Commission     float64 `json:"commission"`
	Total          float64 `json:"total"`
	Deposit        float64 `json:"deposit"`
	WorkerEarnings float64 `json:"worker_earnings"`
}

// Quote computes the price breakdown. Rate priority: the worker's custom
// price for the service, then the service base price, then the worker's
// default hourly rate. svc and link may be nil (ad-hoc booking).
func Quote(svc *domain.Service, link *domain.WorkerService, worker *domain.Worker, durationMinutes int, cfg config.PricingConfig) (Breakdown, error) {
	if durationMinutes <= 0 {
		return Breakdown{}, ErrUnresolvable
	}
	hours := float64(durationMinutes) / 60

	rate, explicit := resolveRate(svc, link, worker)
	if !explicit && rate <= 0 {
		return Breakdown{}, ErrUnresolvable
	}

	var serviceCost float64
	if svc != nil && svc.PriceType == domain.PriceFixed {
		// Fixed-price services cost the same regardless of duration.
		serviceCost = rate
	} else {
		serviceCost = rate * hours
	}

	systemFee := cfg.SystemFeePerHour * hours
	commission := serviceCost * cfg.CommissionRatePct / 100
	total := serviceCost + systemFee
	deposit := total * cfg.DepositRatePct / 100

	b := Breakdown{
		ServiceCost:    round2(serviceCost),
		SystemFee:      round2(systemFee),
		Commission:     round2(commission),
		Total:          round2(total),
		Deposit:        round2(deposit),
		WorkerEarnings: round2(serviceCost - commission),
	}
	return b, nil
}

// QuoteFromCost computes the breakdown from a caller-supplied service cost.
// Used when no rate is resolvable and the caller passed an explicit override.
func QuoteFromCost(serviceCost float64, durationMinutes int, cfg config.PricingConfig) (Breakdown, error) {
	if serviceCost < 0 || durationMinutes <= 0 {
		return Breakdown{}, ErrUnresolvable
	}
	hours := float64(durationMinutes) / 60
	systemFee := cfg.SystemFeePerHour * hours
	commission := serviceCost * cfg.CommissionRatePct / 100
	total := serviceCost + systemFee
	deposit := total * cfg.DepositRatePct / 100

	return Breakdown{
		ServiceCost:    round2(serviceCost),
		SystemFee:      round2(systemFee),
		Commission:     round2(commission),
		Total:          round2(total),
		Deposit:        round2(deposit),
		WorkerEarnings: round2(serviceCost - commission),
	}, nil
}

// resolveRate picks the effective rate. explicit reports whether the rate was
// deliberately configured, which is what permits a legitimate zero price.
func resolveRate(svc *domain.Service, link *domain.WorkerService, worker *domain.Worker) (rate float64, explicit bool) {
	if link != nil && link.CustomPrice != nil {
		return *link.CustomPrice, true
	}
	if svc != nil {
		return svc.BasePrice, true
	}
	if worker != nil && worker.HourlyRate > 0 {
		return worker.HourlyRate, false
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
