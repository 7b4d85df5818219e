package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/events"
	"servicehub/internal/middleware"
	"servicehub/internal/modules/availability"
	"servicehub/internal/modules/booking"
	"servicehub/internal/modules/catalog"
	"servicehub/internal/modules/worker"
	jwtsvc "servicehub/internal/pkg/jwt"
	"servicehub/internal/repository"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwtsvc.Service
}

type testResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, repository.Models()...))

	bookingRepo := repository.NewBookingRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	log := zap.NewNop()
	bus := events.NewBus(log)
	bus.Subscribe(events.PaymentCapture{Log: log})
	bus.Subscribe(events.CalendarSync{Log: log})
	bus.Subscribe(events.Notifier{Log: log})

	pricingCfg := config.PricingConfig{CommissionRatePct: 10, SystemFeePerHour: 0, DepositRatePct: 30}

	availService := availability.NewService(workerRepo, scheduleRepo, bookingRepo)
	availHandler := availability.NewHandler(availService)

	bookingService := booking.NewService(bookingRepo, serviceRepo, workerRepo, availService, bus, pricingCfg)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(serviceRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	workerService := worker.NewService(workerRepo, scheduleRepo, serviceRepo)
	workerHandler := worker.NewHandler(workerService)

	j := jwtsvc.New("e2e-test-secret", time.Hour)

	r := gin.New()
	v1 := r.Group("/api/v1")
	availHandler.RegisterRoutes(v1)
	bookingHandler.RegisterRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(j))

	admin := v1.Group("/")
	admin.Use(middleware.Auth(j), middleware.RequireRole(jwtsvc.RoleAdmin))

	catalogHandler.RegisterRoutes(v1, admin)
	workerHandler.RegisterRoutes(v1, protected)

	return &testSuite{router: r, db: db, jwt: j}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp testResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	}
	return w, resp
}

func (s *testSuite) adminToken(t *testing.T) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(1, jwtsvc.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (s *testSuite) workerToken(t *testing.T) string {
	t.Helper()
	token, err := s.jwt.GenerateToken(2, jwtsvc.RoleWorker)
	require.NoError(t, err)
	return token
}

// seedWorkerWithService creates a service, a worker offering it, and a
// Saturday 08:00-20:00 weekly slot. Returns (serviceID, workerID).
func (s *testSuite) seedWorkerWithService(t *testing.T) (int64, int64) {
	t.Helper()
	admin := s.adminToken(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/services", gin.H{
		"name":             "Standard clean",
		"duration_minutes": 60,
		"price_type":       "hourly",
		"base_price":       40,
		"category":         "cleaning",
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	serviceID := int64(resp.Data["service"].(map[string]interface{})["id"].(float64))

	w, resp = s.request(t, http.MethodPost, "/api/v1/workers", gin.H{
		"user_id":     2,
		"bio":         "cleaner",
		"skills":      []string{"cleaning"},
		"hourly_rate": 35,
	}, s.workerToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	workerID := int64(resp.Data["worker"].(map[string]interface{})["id"].(float64))

	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/workers/%d/services", workerID), gin.H{
		"service_id": serviceID,
	}, s.workerToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 2024-06-01 is a Saturday (weekday 6).
	w, _ = s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/workers/%d/slots", workerID), gin.H{
		"day_of_week": 6,
		"start_time":  "08:00",
		"end_time":    "20:00",
	}, s.workerToken(t))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return serviceID, workerID
}

func TestBookingFlow(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)

	// The slot is free before anything is booked.
	w, resp := s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"worker_id":        workerID,
		"date":             "2024-06-01",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp.Data["available"])

	// Guest books 09:00-10:00.
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:00",
		"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	b := resp.Data["booking"].(map[string]interface{})
	bookingID := int64(b["id"].(float64))
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, "10:00", b["end_time"]) // derived from the service duration
	assert.Equal(t, 40.0, b["total_cost"])
	assert.Equal(t, 4.0, b["commission_amount"])
	assert.Equal(t, 36.0, b["worker_earnings"])
	assert.Equal(t, 12.0, b["deposit_amount"])
	assert.NotEmpty(t, b["reference"])
	assert.EqualValues(t, 0, b["user_id"]) // guest

	// The same window is now reported busy.
	w, resp = s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"worker_id":        workerID,
		"date":             "2024-06-01",
		"start_time":       "09:30",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp.Data["available"])

	// An overlapping booking is refused.
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:30",
		"client":     gin.H{"name": "Bob", "email": "bob@example.com"},
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// A back-to-back booking touching at 10:00 is fine.
	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "10:00",
		"client":     gin.H{"name": "Bob", "email": "bob@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	secondID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// A confirmed booking may complete directly, skipping in_progress.
	for _, status := range []string{"confirmed", "completed"} {
		w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", secondID), gin.H{
			"status": status,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, status, resp.Data["booking"].(map[string]interface{})["status"])
	}

	// Walk the lifecycle: pending -> confirmed -> in_progress -> completed.
	for _, status := range []string{"confirmed", "in_progress", "completed"} {
		w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", bookingID), gin.H{
			"status": status,
		}, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, status, resp.Data["booking"].(map[string]interface{})["status"])
	}

	// completed is terminal.
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", bookingID), gin.H{
		"status": "cancelled",
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ILLEGAL_TRANSITION", resp.Error.Code)

	// A completed booking frees the slot for new work.
	w, resp = s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"worker_id":        workerID,
		"date":             "2024-06-01",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp.Data["available"])
}

func TestRescheduleFlow(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:00",
		"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := int64(resp.Data["booking"].(map[string]interface{})["id"].(float64))

	// Shifting into its own window succeeds: the booking excludes itself.
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", bookingID), gin.H{
		"start_time": "09:30",
		"end_time":   "10:30",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b := resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, "09:30", b["start_time"])
	assert.Equal(t, 40.0, b["total_cost"]) // same duration, same price

	// Doubling the window reprices the booking.
	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", bookingID), gin.H{
		"start_time": "12:00",
		"end_time":   "14:00",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b = resp.Data["booking"].(map[string]interface{})
	assert.Equal(t, 80.0, b["total_cost"])
	assert.EqualValues(t, 120, b["duration_minutes"])

	// Rescheduling onto another booking is refused.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "15:00",
		"client":     gin.H{"name": "Bob", "email": "bob@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = s.request(t, http.MethodPatch, fmt.Sprintf("/api/v1/bookings/%d", bookingID), gin.H{
		"start_time": "15:30",
		"end_time":   "16:30",
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)
}

func TestCatalogGuards(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)
	admin := s.adminToken(t)

	// Mutating the catalog requires the admin role.
	w, resp := s.request(t, http.MethodPost, "/api/v1/services", gin.H{
		"name": "x", "duration_minutes": 30, "price_type": "fixed", "base_price": 10,
	}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)

	w, resp = s.request(t, http.MethodPost, "/api/v1/services", gin.H{
		"name": "x", "duration_minutes": 30, "price_type": "fixed", "base_price": 10,
	}, s.workerToken(t))
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	// Deleting a service with bookings is refused.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:00",
		"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/services/%d", serviceID), nil, admin)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "SERVICE_IN_USE", resp.Error.Code)

	// An unreferenced service deletes cleanly.
	w, resp = s.request(t, http.MethodPost, "/api/v1/services", gin.H{
		"name": "One-off", "duration_minutes": 30, "price_type": "fixed", "base_price": 10,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	otherID := int64(resp.Data["service"].(map[string]interface{})["id"].(float64))

	w, _ = s.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/services/%d", otherID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestBlockedDayException(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)

	w, _ := s.request(t, http.MethodPost, fmt.Sprintf("/api/v1/workers/%d/exceptions", workerID), gin.H{
		"date":         "2024-06-01",
		"is_available": false,
	}, s.workerToken(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The weekly slot no longer matters on the blocked date.
	w, resp := s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"worker_id":        workerID,
		"date":             "2024-06-01",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp.Data["available"])

	w, resp = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:00",
		"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
	}, "")
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "BOOKING_CONFLICT", resp.Error.Code)

	// The following Saturday is untouched.
	w, resp = s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"worker_id":        workerID,
		"date":             "2024-06-08",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp.Data["available"])
}

func TestAnyWorkerSearch(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)

	w, resp := s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"service_id":       serviceID,
		"date":             "2024-06-01",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, resp.Data["available"])

	workers := resp.Data["workers"].([]interface{})
	require.Len(t, workers, 1)
	assert.EqualValues(t, workerID, workers[0].(map[string]interface{})["id"].(float64))

	// Book the only worker out; the search comes back empty.
	w, _ = s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
		"worker_id":  workerID,
		"service_id": serviceID,
		"date":       "2024-06-01",
		"start_time": "09:00",
		"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = s.request(t, http.MethodPost, "/api/v1/availability/check", gin.H{
		"service_id":       serviceID,
		"date":             "2024-06-01",
		"start_time":       "09:00",
		"duration_minutes": 60,
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, resp.Data["available"])
}

func TestListBookingsFilter(t *testing.T) {
	s := setupSuite(t)
	serviceID, workerID := s.seedWorkerWithService(t)

	for _, start := range []string{"09:00", "11:00", "13:00"} {
		w, _ := s.request(t, http.MethodPost, "/api/v1/bookings", gin.H{
			"worker_id":  workerID,
			"service_id": serviceID,
			"date":       "2024-06-01",
			"start_time": start,
			"client":     gin.H{"name": "Alice", "email": "alice@example.com"},
		}, "")
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, resp := s.request(t, http.MethodGet, fmt.Sprintf("/api/v1/bookings?worker_id=%d&limit=2", workerID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	items := resp.Data["bookings"].([]interface{})
	assert.Len(t, items, 2)
	pagination := resp.Data["pagination"].(map[string]interface{})
	assert.EqualValues(t, 3, pagination["total"])
	assert.EqualValues(t, 2, pagination["total_pages"])
}
