package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavinesh/fleetbook-backend/internal/models"
	"github.com/kavinesh/fleetbook-backend/internal/scheduling"
	"github.com/kavinesh/fleetbook-backend/internal/services"
)

// fakeStore backs the assignment endpoint tests without a database.
type fakeStore struct {
	mu       sync.Mutex
	nextID   uint
	trips    []*models.Trip
	drivers  map[uint]*models.User
	vehicles map[uint]*models.Vehicle
	bookings map[uint]*models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:   1,
		drivers:  make(map[uint]*models.User),
		vehicles: make(map[uint]*models.Vehicle),
		bookings: make(map[uint]*models.Booking),
	}
}

func (s *fakeStore) DriverByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drivers[id]; ok {
		return d, nil
	}
	return nil, scheduling.ErrNotFound
}

func (s *fakeStore) VehicleByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.vehicles[id]; ok {
		return v, nil
	}
	return nil, scheduling.ErrNotFound
}

func (s *fakeStore) BookingsByIDs(ctx context.Context, ids []uint) ([]models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Booking
	for _, id := range ids {
		if b, ok := s.bookings[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *fakeStore) FindOverlapping(ctx context.Context, driverID, vehicleID uint, w scheduling.Window) (*models.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, trip := range s.trips {
		if trip.DriverID != driverID && trip.VehicleID != vehicleID {
			continue
		}
		if w.Overlaps(trip.StartTime, trip.EndTime) {
			return trip, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) AssignTrip(ctx context.Context, trip *models.Trip, bookingIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	trip.ID = s.nextID
	s.nextID++
	for _, id := range bookingIDs {
		b := s.bookings[id]
		b.Status = models.BookingStatusAssigned
		tripID := trip.ID
		b.TripID = &tripID
		trip.Bookings = append(trip.Bookings, *b)
	}
	s.trips = append(s.trips, trip)
	return nil
}

func (s *fakeStore) seedDriver(id uint) {
	u := &models.User{Name: "Driver", Role: models.RoleDriver}
	u.ID = id
	s.drivers[id] = u
}

func (s *fakeStore) seedVehicle(id uint) {
	v := &models.Vehicle{Number: "TN37EX1575", VehicleTypeID: 1}
	v.ID = id
	s.vehicles[id] = v
}

func (s *fakeStore) seedBooking(t *testing.T, id uint, start, end string, status models.BookingStatus) {
	t.Helper()
	startAt, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	endAt, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	b := &models.Booking{
		RequiredStartTime: startAt,
		RequiredEndTime:   endAt,
		Status:            status,
	}
	b.ID = id
	s.bookings[id] = b
}

func assignRouter(store *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	assigner := scheduling.NewAssigner(store, store, store, store)
	hub := services.NewHub()
	r := gin.New()
	r.POST("/api/trips/assign", AssignTrip(nil, assigner, hub, nil))
	return r
}

func postAssign(t *testing.T, r *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/trips/assign", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAssignTripHandler_Success(t *testing.T) {
	store := newFakeStore()
	store.seedDriver(1)
	store.seedVehicle(1)
	store.seedBooking(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z", models.BookingStatusApproved)
	store.seedBooking(t, 2, "2024-01-01T09:00:00Z", "2024-01-01T11:00:00Z", models.BookingStatusApproved)

	r := assignRouter(store)
	w := postAssign(t, r, gin.H{"bookingIds": []uint{1, 2}, "driverId": 1, "vehicleId": 1})

	require.Equal(t, 201, w.Code, w.Body.String())

	var resp struct {
		Message string      `json:"message"`
		Trip    models.Trip `json:"trip"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Trip assigned successfully", resp.Message)
	assert.Equal(t, "2024-01-01T08:00:00Z", resp.Trip.StartTime.Format(time.RFC3339))
	assert.Equal(t, "2024-01-01T11:00:00Z", resp.Trip.EndTime.Format(time.RFC3339))
	assert.Len(t, resp.Trip.Bookings, 2)
}

func TestAssignTripHandler_Conflict(t *testing.T) {
	store := newFakeStore()
	store.seedDriver(1)
	store.seedVehicle(1)
	store.seedBooking(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T11:00:00Z", models.BookingStatusApproved)
	store.seedBooking(t, 2, "2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z", models.BookingStatusApproved)

	r := assignRouter(store)

	w := postAssign(t, r, gin.H{"bookingIds": []uint{1}, "driverId": 1, "vehicleId": 1})
	require.Equal(t, 201, w.Code, w.Body.String())

	w = postAssign(t, r, gin.H{"bookingIds": []uint{2}, "driverId": 1, "vehicleId": 1})
	require.Equal(t, 409, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["overlappingTripId"])
}

func TestAssignTripHandler_UnapprovedBookings(t *testing.T) {
	store := newFakeStore()
	store.seedDriver(1)
	store.seedVehicle(1)
	store.seedBooking(t, 1, "2024-01-01T08:00:00Z", "2024-01-01T10:00:00Z", models.BookingStatusPending)
	store.seedBooking(t, 2, "2024-01-01T09:00:00Z", "2024-01-01T11:00:00Z", models.BookingStatusApproved)

	r := assignRouter(store)
	w := postAssign(t, r, gin.H{"bookingIds": []uint{1, 2}, "driverId": 1, "vehicleId": 1})

	require.Equal(t, 400, w.Code, w.Body.String())

	var resp struct {
		Error      string `json:"error"`
		InvalidIDs []uint `json:"invalidIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []uint{1}, resp.InvalidIDs)
}

func TestAssignTripHandler_BadRequests(t *testing.T) {
	store := newFakeStore()
	store.seedDriver(1)
	store.seedVehicle(1)
	r := assignRouter(store)

	cases := []struct {
		name string
		body gin.H
	}{
		{"empty booking list", gin.H{"bookingIds": []uint{}, "driverId": 1, "vehicleId": 1}},
		{"missing driver", gin.H{"bookingIds": []uint{1}, "vehicleId": 1}},
		{"unknown driver", gin.H{"bookingIds": []uint{1}, "driverId": 42, "vehicleId": 1}},
		{"unknown bookings", gin.H{"bookingIds": []uint{99}, "driverId": 1, "vehicleId": 1}},
	}
	for _, tc := range cases {
		w := postAssign(t, r, tc.body)
		assert.Equal(t, 400, w.Code, "%s: %s", tc.name, w.Body.String())
	}
}
