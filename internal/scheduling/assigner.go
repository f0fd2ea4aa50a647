package scheduling

import (
	"context"
	"errors"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// AssignmentRequest is the wire-level input for a trip assignment.
type AssignmentRequest struct {
	BookingIDs []uint `json:"bookingIds"`
	DriverID   uint   `json:"driverId"`
	VehicleID  uint   `json:"vehicleId"`
}

// UserStore resolves drivers for assignment.
type UserStore interface {
	// DriverByID returns the user only if it exists, has the driver
	// role, and is not soft-deleted; ErrNotFound otherwise.
	DriverByID(ctx context.Context, id uint) (*models.User, error)
}

// VehicleStore resolves vehicles for assignment.
type VehicleStore interface {
	VehicleByID(ctx context.Context, id uint) (*models.Vehicle, error)
}

// BookingStore fetches the bookings selected for a trip.
type BookingStore interface {
	BookingsByIDs(ctx context.Context, ids []uint) ([]models.Booking, error)
}

// TripStore persists trips. AssignTrip must create the trip and move all
// selected bookings to "assigned" atomically, repeating the overlap
// check inside the same transaction so that concurrent assignments for
// the same driver or vehicle cannot both commit.
type TripStore interface {
	TripFinder
	AssignTrip(ctx context.Context, trip *models.Trip, bookingIDs []uint) error
}

// Assigner orchestrates trip assignment: validation, window aggregation,
// conflict detection, and the atomic create-and-assign write. All
// collaborators are injected so the engine can be exercised without a
// database.
type Assigner struct {
	users    UserStore
	vehicles VehicleStore
	bookings BookingStore
	trips    TripStore
	conflict *ConflictChecker
}

func NewAssigner(users UserStore, vehicles VehicleStore, bookings BookingStore, trips TripStore) *Assigner {
	return &Assigner{
		users:    users,
		vehicles: vehicles,
		bookings: bookings,
		trips:    trips,
		conflict: NewConflictChecker(trips),
	}
}

// Assign validates the request, computes the covering window, rejects
// double-bookings, and atomically creates the trip while transitioning
// every selected booking to "assigned". Each step short-circuits on
// failure and no partial state is ever committed.
func (a *Assigner) Assign(ctx context.Context, req AssignmentRequest) (*models.Trip, error) {
	if len(req.BookingIDs) == 0 || req.DriverID == 0 || req.VehicleID == 0 {
		return nil, ErrInvalidRequest
	}

	driver, err := a.users.DriverByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidDriver
		}
		return nil, err
	}

	vehicle, err := a.vehicles.VehicleByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidVehicle
		}
		return nil, err
	}

	bookings, err := a.bookings.BookingsByIDs(ctx, req.BookingIDs)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, ErrNoBookingsFound
	}

	var notApproved []uint
	for _, b := range bookings {
		if b.Status != models.BookingStatusApproved {
			notApproved = append(notApproved, b.ID)
		}
	}
	if len(notApproved) > 0 {
		return nil, &NotApprovedError{IDs: notApproved}
	}

	window, err := AggregateWindow(bookings)
	if err != nil {
		return nil, err
	}

	// Fast read-only verdict before taking locks. The store repeats this
	// check inside the assignment transaction.
	if err := a.conflict.Check(ctx, req.DriverID, req.VehicleID, window); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		DriverID:  req.DriverID,
		Driver:    driver,
		VehicleID: req.VehicleID,
		Vehicle:   vehicle,
		StartTime: window.Start,
		EndTime:   window.End,
		Status:    models.TripStatusScheduled,
	}
	if err := a.trips.AssignTrip(ctx, trip, req.BookingIDs); err != nil {
		return nil, err
	}
	return trip, nil
}
