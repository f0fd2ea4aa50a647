package scheduling

import (
	"time"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"startTime"`
	End   time.Time `json:"endTime"`
}

// Overlaps reports whether two half-open intervals intersect. Touching
// boundaries (one ends exactly when the other starts) do not overlap,
// so back-to-back trips are permitted.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && w.Start.Before(end)
}

// AggregateWindow computes the minimal interval covering every booking's
// required window: earliest required start to latest required end. Pure
// function; order of the input set does not matter.
func AggregateWindow(bookings []models.Booking) (Window, error) {
	if len(bookings) == 0 {
		return Window{}, ErrEmptySelection
	}

	for _, b := range bookings {
		if b.RequiredStartTime.IsZero() || b.RequiredEndTime.IsZero() || !b.RequiredEndTime.After(b.RequiredStartTime) {
			return Window{}, &InvalidWindowError{BookingID: b.ID}
		}
	}

	w := Window{Start: bookings[0].RequiredStartTime, End: bookings[0].RequiredEndTime}
	for _, b := range bookings[1:] {
		if b.RequiredStartTime.Before(w.Start) {
			w.Start = b.RequiredStartTime
		}
		if b.RequiredEndTime.After(w.End) {
			w.End = b.RequiredEndTime
		}
	}
	return w, nil
}
