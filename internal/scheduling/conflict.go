package scheduling

import (
	"context"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// TripFinder looks up an existing trip that would double-book the driver
// or the vehicle inside the window. A nil trip means no conflict.
type TripFinder interface {
	FindOverlapping(ctx context.Context, driverID, vehicleID uint, w Window) (*models.Trip, error)
}

// ConflictChecker decides whether a candidate driver/vehicle pairing can
// take on a window without overlapping any of their existing trips. It
// is a pure existence check and never modifies state.
type ConflictChecker struct {
	trips TripFinder
}

func NewConflictChecker(trips TripFinder) *ConflictChecker {
	return &ConflictChecker{trips: trips}
}

// Check returns nil when the window is free, or a *ConflictError naming
// the first overlapping trip found. Scan order is irrelevant: any
// overlapping trip rejects the assignment.
func (c *ConflictChecker) Check(ctx context.Context, driverID, vehicleID uint, w Window) error {
	trip, err := c.trips.FindOverlapping(ctx, driverID, vehicleID, w)
	if err != nil {
		return err
	}
	if trip != nil {
		return &ConflictError{TripID: trip.ID}
	}
	return nil
}
