package availability

import "servicehub/internal/domain"

// CheckRequest asks whether a window is bookable. WorkerID omitted means
// "any worker offering the service"; ServiceID is then required.
type CheckRequest struct {
	WorkerID        int64  `json:"worker_id"`
	ServiceID       int64  `json:"service_id"`
	Date            string `json:"date" binding:"required"`       // "2006-01-02"
	StartTime       string `json:"start_time" binding:"required"` // "15:04"
	DurationMinutes int    `json:"duration_minutes" binding:"required,gt=0"`
}

type CheckResponse struct {
	Available bool             `json:"available"`
	Message   string           `json:"message"`
	Workers   []WorkerCandidate `json:"workers,omitempty"`
}

type WorkerCandidate struct {
	ID         int64   `json:"id"`
	HourlyRate float64 `json:"hourly_rate"`
	Rating     float64 `json:"rating"`
}

func toCandidates(workers []domain.Worker) []WorkerCandidate {
	out := make([]WorkerCandidate, 0, len(workers))
	for _, w := range workers {
		out = append(out, WorkerCandidate{ID: w.ID, HourlyRate: w.HourlyRate, Rating: w.Rating})
	}
	return out
}
