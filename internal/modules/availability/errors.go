package availability

import "errors"

var (
	ErrValidation     = errors.New("invalid availability query")
	ErrWorkerNotFound = errors.New("worker not found")
)
