package availability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"servicehub/internal/pkg/response"
	"servicehub/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/availability/check", h.Check)
}

func (h *Handler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "date must be YYYY-MM-DD")
		return
	}
	if !validator.Clock(req.StartTime) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start_time must be HH:MM")
		return
	}
	end, ok := addMinutes(req.StartTime, req.DurationMinutes)
	if !ok {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "window must end on the same day")
		return
	}

	if req.WorkerID > 0 {
		available, err := h.service.IsAvailable(c.Request.Context(), req.WorkerID, date, req.StartTime, end, 0)
		switch {
		case err == ErrValidation:
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid time window")
		case err == ErrWorkerNotFound:
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Worker not found")
		case err != nil:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability check failed")
		default:
			msg := "Worker is available for the requested slot"
			if !available {
				msg = "Worker is not available for the requested slot"
			}
			response.Success(c, http.StatusOK, CheckResponse{Available: available, Message: msg})
		}
		return
	}

	if req.ServiceID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "worker_id or service_id is required")
		return
	}

	workers, err := h.service.FindAvailableWorkers(c.Request.Context(), req.ServiceID, date, req.StartTime, end)
	if err != nil {
		if err == ErrValidation {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid time window")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Availability check failed")
		return
	}

	resp := CheckResponse{
		Available: len(workers) > 0,
		Message:   fmt.Sprintf("%d worker(s) available for the requested slot", len(workers)),
		Workers:   toCandidates(workers),
	}
	response.Success(c, http.StatusOK, resp)
}

// addMinutes computes start + d as a same-day "HH:MM"; ok is false when the
// window would reach or spill past midnight, since 24:00 is not a valid
// wall-clock value.
func addMinutes(start string, d int) (string, bool) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return "", false
	}
	endMin := t.Hour()*60 + t.Minute() + d
	if d <= 0 || endMin >= 24*60 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", endMin/60, endMin%60), true
}
