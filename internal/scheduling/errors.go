package scheduling

import (
	"errors"
	"fmt"
)

// Assignment failures are distinct, named conditions so the API layer can
// tell the admin exactly what to fix instead of a generic 500.
var (
	// ErrInvalidRequest covers malformed input: empty booking list or
	// missing driver/vehicle ids.
	ErrInvalidRequest = errors.New("bookingIds must be a non-empty array and driverId/vehicleId are required")

	// ErrInvalidDriver means the driver does not exist, is deleted, or
	// does not have the driver role.
	ErrInvalidDriver = errors.New("invalid driver selected")

	// ErrInvalidVehicle means the vehicle does not exist.
	ErrInvalidVehicle = errors.New("invalid vehicle selected")

	// ErrNoBookingsFound means none of the requested booking ids exist.
	ErrNoBookingsFound = errors.New("no valid bookings found for given bookingIds")

	// ErrEmptySelection is returned by window aggregation over zero bookings.
	ErrEmptySelection = errors.New("no bookings selected")

	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrTransactionFailure means the atomic create-and-assign could not
	// commit, typically a concurrent commit race. Resubmission is the
	// recommended recovery.
	ErrTransactionFailure = errors.New("failed to assign trip")
)

// NotApprovedError reports every selected booking that is not in the
// approved state, not just the first one.
type NotApprovedError struct {
	IDs []uint
}

func (e *NotApprovedError) Error() string {
	return fmt.Sprintf("some bookings are not in approved state: %v", e.IDs)
}

// InvalidWindowError identifies a booking whose required time window is
// missing or inverted.
type InvalidWindowError struct {
	BookingID uint
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("booking %d has an invalid required time window", e.BookingID)
}

// ConflictError reports the first existing trip that would double-book
// the driver or vehicle in the requested window.
type ConflictError struct {
	TripID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("driver or vehicle is already assigned to trip %d in this time window", e.TripID)
}
