package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"servicehub/internal/database"
	"servicehub/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, Models()...))
	return db
}

var testDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func makeBooking(workerID int64, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		Reference:       fmt.Sprintf("ref-%d-%s-%s", workerID, start, status),
		WorkerID:        workerID,
		BookingDate:     testDate,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: 60,
		Status:          status,
		ClientName:      "Alice",
		ClientEmail:     "alice@example.com",
	}
}

func TestBookingRepository_CreateRejectsOverlap(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBooking(1, "09:00", "10:00", domain.BookingPending)))

	cases := []struct {
		start, end string
		wantErr    bool
	}{
		{"09:30", "10:30", true},  // overlaps tail
		{"08:30", "09:30", true},  // overlaps head
		{"09:00", "10:00", true},  // identical window
		{"08:00", "11:00", true},  // engulfs
		{"09:15", "09:45", true},  // contained
		{"10:00", "11:00", false}, // touches at the end, half-open
		{"08:00", "09:00", false}, // touches at the start
	}
	for _, c := range cases {
		err := repo.Create(ctx, makeBooking(1, c.start, c.end, domain.BookingPending))
		if c.wantErr {
			assert.ErrorIs(t, err, ErrSlotTaken, "window %s-%s", c.start, c.end)
		} else {
			assert.NoError(t, err, "window %s-%s", c.start, c.end)
		}
	}
}

func TestBookingRepository_OtherWorkerUnaffected(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBooking(1, "09:00", "10:00", domain.BookingPending)))
	assert.NoError(t, repo.Create(ctx, makeBooking(2, "09:00", "10:00", domain.BookingPending)))
}

func TestBookingRepository_CancelledAndCompletedDoNotBlock(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBooking(1, "09:00", "10:00", domain.BookingCancelled)))
	require.NoError(t, repo.Create(ctx, makeBooking(1, "11:00", "12:00", domain.BookingCompleted)))

	assert.NoError(t, repo.Create(ctx, makeBooking(1, "09:00", "10:00", domain.BookingPending)))
	assert.NoError(t, repo.Create(ctx, makeBooking(1, "11:30", "12:30", domain.BookingPending)))
}

func TestBookingRepository_RefundedStillBlocks(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, makeBooking(1, "09:00", "10:00", domain.BookingRefunded)))

	err := repo.Create(ctx, makeBooking(1, "09:30", "10:30", domain.BookingPending))
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookingRepository_UpdateRecheckExcludesSelf(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	b := makeBooking(1, "09:00", "10:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))
	require.NotZero(t, b.ID)

	// Shifting within its own window must not collide with itself.
	b.StartTime, b.EndTime = "09:30", "10:30"
	assert.NoError(t, repo.Update(ctx, b, true))

	// But it must collide with a neighbour.
	other := makeBooking(1, "11:00", "12:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, other))

	b.StartTime, b.EndTime = "11:30", "12:30"
	assert.ErrorIs(t, repo.Update(ctx, b, true), ErrSlotTaken)
}

func TestBookingRepository_UpdateWithoutRecheckSkipsScan(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	b := makeBooking(1, "09:00", "10:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))

	// A status-only save must not re-run the overlap scan.
	b.Status = domain.BookingConfirmed
	require.NoError(t, repo.Update(ctx, b, false))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, got.Status)
}

func TestBookingRepository_HasConflict(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	b := makeBooking(1, "09:00", "10:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b))

	conflict, err := repo.HasConflict(ctx, 1, testDate, "09:30", "10:30", 0)
	require.NoError(t, err)
	assert.True(t, conflict)

	conflict, err = repo.HasConflict(ctx, 1, testDate, "10:00", "11:00", 0)
	require.NoError(t, err)
	assert.False(t, conflict)

	// A different date never conflicts.
	conflict, err = repo.HasConflict(ctx, 1, testDate.AddDate(0, 0, 1), "09:30", "10:30", 0)
	require.NoError(t, err)
	assert.False(t, conflict)

	// Excluding the booking itself clears the conflict.
	conflict, err = repo.HasConflict(ctx, 1, testDate, "09:30", "10:30", b.ID)
	require.NoError(t, err)
	assert.False(t, conflict)
}

func TestBookingRepository_DeleteMissing(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))

	err := repo.Delete(context.Background(), 12345)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookingRepository_ListFiltersAndPagination(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	b1 := makeBooking(1, "09:00", "10:00", domain.BookingPending)
	b1.UserID = 7
	require.NoError(t, repo.Create(ctx, b1))

	b2 := makeBooking(1, "11:00", "12:00", domain.BookingConfirmed)
	b2.UserID = 7
	require.NoError(t, repo.Create(ctx, b2))

	b3 := makeBooking(2, "09:00", "10:00", domain.BookingPending)
	require.NoError(t, repo.Create(ctx, b3))

	out, total, err := repo.List(ctx, BookingFilters{UserID: 7})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, out, 2)
	assert.Equal(t, "09:00", out[0].StartTime) // ascending by default

	out, total, err = repo.List(ctx, BookingFilters{WorkerID: 1, Status: string(domain.BookingConfirmed)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, out, 1)
	assert.Equal(t, b2.ID, out[0].ID)

	out, total, err = repo.List(ctx, BookingFilters{WorkerID: 1, Limit: 1, SortDesc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, out, 1)
	assert.Equal(t, "11:00", out[0].StartTime)
}

func TestBookingRepository_CountByService(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	sID := int64(5)
	b := makeBooking(1, "09:00", "10:00", domain.BookingPending)
	b.ServiceID = &sID
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.Create(ctx, makeBooking(1, "11:00", "12:00", domain.BookingPending)))

	cnt, err := repo.CountByService(ctx, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	cnt, err = repo.CountByService(ctx, 99)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
}

func TestBookingRepository_RoundTrip(t *testing.T) {
	repo := NewBookingRepository(openTestDB(t))
	ctx := context.Background()

	sID := int64(5)
	b := makeBooking(3, "14:00", "15:30", domain.BookingPending)
	b.ServiceID = &sID
	b.UserID = 0 // guest
	b.DurationMinutes = 90
	b.TotalCost = 75
	b.CommissionAmount = 7.5
	b.DepositAmount = 22.5
	b.WorkerEarnings = 67.5
	b.ClientPhone = "+1555000"
	b.Notes = "ring the doorbell twice"
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Reference, got.Reference)
	assert.Zero(t, got.UserID)
	require.NotNil(t, got.ServiceID)
	assert.EqualValues(t, 5, *got.ServiceID)
	assert.Equal(t, "14:00", got.StartTime)
	assert.Equal(t, "15:30", got.EndTime)
	assert.Equal(t, 75.0, got.TotalCost)
	assert.Equal(t, "ring the doorbell twice", got.Notes)
	assert.True(t, got.BookingDate.Equal(testDate))
}
