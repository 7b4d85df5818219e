package booking

import "errors"

var (
	ErrValidation          = errors.New("validation error")
	ErrConflict            = errors.New("booking slot conflict")
	ErrIllegalTransition   = errors.New("illegal status transition")
	ErrNotFound            = errors.New("booking not found")
	ErrWorkerNotFound      = errors.New("worker not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrPricingUnresolvable = errors.New("pricing unresolvable")
)
