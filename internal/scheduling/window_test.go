package scheduling

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func bookingWindow(t *testing.T, id uint, start, end string) models.Booking {
	t.Helper()
	b := models.Booking{
		RequiredStartTime: mustTime(t, start),
		RequiredEndTime:   mustTime(t, end),
		Status:            models.BookingStatusApproved,
	}
	b.ID = id
	return b
}

func TestAggregateWindow_MinStartMaxEnd(t *testing.T) {
	bookings := []models.Booking{
		bookingWindow(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z"),
		bookingWindow(t, 2, "2024-01-01T09:00:00Z", "2024-01-01T11:00:00Z"),
	}

	w, err := AggregateWindow(bookings)
	require.NoError(t, err)
	assert.Equal(t, mustTime(t, "2024-01-01T08:00:00Z"), w.Start)
	assert.Equal(t, mustTime(t, "2024-01-01T11:00:00Z"), w.End)
}

func TestAggregateWindow_SingleBooking(t *testing.T) {
	bookings := []models.Booking{
		bookingWindow(t, 7, "2024-03-10T06:30:00Z", "2024-03-10T09:15:00Z"),
	}

	w, err := AggregateWindow(bookings)
	require.NoError(t, err)
	assert.Equal(t, bookings[0].RequiredStartTime, w.Start)
	assert.Equal(t, bookings[0].RequiredEndTime, w.End)
}

func TestAggregateWindow_OrderIndependent(t *testing.T) {
	bookings := []models.Booking{
		bookingWindow(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z"),
		bookingWindow(t, 2, "2024-01-01T07:00:00Z", "2024-01-01T09:00:00Z"),
		bookingWindow(t, 3, "2024-01-01T09:30:00Z", "2024-01-01T12:00:00Z"),
		bookingWindow(t, 4, "2024-01-01T08:30:00Z", "2024-01-01T08:45:00Z"),
	}

	want, err := AggregateWindow(bookings)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]models.Booking, len(bookings))
		copy(shuffled, bookings)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := AggregateWindow(shuffled)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAggregateWindow_EmptySelection(t *testing.T) {
	_, err := AggregateWindow(nil)
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestAggregateWindow_MissingTimestamp(t *testing.T) {
	valid := bookingWindow(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z")
	broken := models.Booking{RequiredEndTime: mustTime(t, "2024-01-01T10:00:00Z")}
	broken.ID = 99

	_, err := AggregateWindow([]models.Booking{valid, broken})

	var badWindow *InvalidWindowError
	require.ErrorAs(t, err, &badWindow)
	assert.Equal(t, uint(99), badWindow.BookingID)
}

func TestAggregateWindow_InvertedWindow(t *testing.T) {
	broken := bookingWindow(t, 12, "2024-01-01T10:00:00Z", "2024-01-01T08:00:00Z")

	_, err := AggregateWindow([]models.Booking{broken})

	var badWindow *InvalidWindowError
	require.ErrorAs(t, err, &badWindow)
	assert.Equal(t, uint(12), badWindow.BookingID)
}

func TestWindowOverlaps(t *testing.T) {
	w := Window{
		Start: mustTime(t, "2024-01-01T10:00:00Z"),
		End:   mustTime(t, "2024-01-01T12:00:00Z"),
	}

	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"fully inside", "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z", true},
		{"overlaps start", "2024-01-01T09:00:00Z", "2024-01-01T10:30:00Z", true},
		{"overlaps end", "2024-01-01T11:00:00Z", "2024-01-01T13:00:00Z", true},
		{"covers whole window", "2024-01-01T09:00:00Z", "2024-01-01T13:00:00Z", true},
		{"touches start", "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z", false},
		{"touches end", "2024-01-01T12:00:00Z", "2024-01-01T14:00:00Z", false},
		{"before", "2024-01-01T07:00:00Z", "2024-01-01T08:00:00Z", false},
		{"after", "2024-01-01T13:00:00Z", "2024-01-01T14:00:00Z", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.Overlaps(mustTime(t, tt.start), mustTime(t, tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

// tripFinderFunc adapts a plain function to the TripFinder interface.
type tripFinderFunc func(driverID, vehicleID uint, w Window) (*models.Trip, error)

func (f tripFinderFunc) FindOverlapping(ctx context.Context, driverID, vehicleID uint, w Window) (*models.Trip, error) {
	return f(driverID, vehicleID, w)
}

func TestConflictChecker_NilWhenFree(t *testing.T) {
	checker := NewConflictChecker(tripFinderFunc(func(driverID, vehicleID uint, w Window) (*models.Trip, error) {
		return nil, nil
	}))

	err := checker.Check(context.Background(), 1, 2, Window{})
	assert.NoError(t, err)
}

func TestConflictChecker_ReportsTrip(t *testing.T) {
	existing := &models.Trip{}
	existing.ID = 4
	checker := NewConflictChecker(tripFinderFunc(func(driverID, vehicleID uint, w Window) (*models.Trip, error) {
		return existing, nil
	}))

	err := checker.Check(context.Background(), 1, 2, Window{})

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, uint(4), conflict.TripID)
}

func TestConflictChecker_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	checker := NewConflictChecker(tripFinderFunc(func(driverID, vehicleID uint, w Window) (*models.Trip, error) {
		return nil, storeErr
	}))

	err := checker.Check(context.Background(), 1, 2, Window{})
	assert.ErrorIs(t, err, storeErr)
}
