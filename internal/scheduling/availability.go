package scheduling

import (
	"context"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// AvailabilitySet holds the drivers and vehicles free to take on a window.
type AvailabilitySet struct {
	Drivers  []models.User    `json:"drivers"`
	Vehicles []models.Vehicle `json:"vehicles"`
}

// AvailabilityStore filters the driver and vehicle pools with the same
// half-open overlap predicate the conflict checker uses.
type AvailabilityStore interface {
	AvailableDrivers(ctx context.Context, w Window) ([]models.User, error)
	AvailableVehicles(ctx context.Context, w Window) ([]models.Vehicle, error)
}

// AvailabilityCache is an optional read-through cache for availability
// results. Implementations may miss freely; correctness never depends
// on the cache since assignment re-checks against the store.
type AvailabilityCache interface {
	Get(ctx context.Context, w Window) (*AvailabilitySet, bool)
	Set(ctx context.Context, w Window, set *AvailabilitySet)
}

// Availability precomputes schedulable candidates for the assignment UI.
type Availability struct {
	store AvailabilityStore
	cache AvailabilityCache
}

func NewAvailability(store AvailabilityStore, cache AvailabilityCache) *Availability {
	return &Availability{store: store, cache: cache}
}

// Query returns every driver and vehicle with no trip overlapping w.
func (a *Availability) Query(ctx context.Context, w Window) (*AvailabilitySet, error) {
	if a.cache != nil {
		if set, ok := a.cache.Get(ctx, w); ok {
			return set, nil
		}
	}

	drivers, err := a.store.AvailableDrivers(ctx, w)
	if err != nil {
		return nil, err
	}
	vehicles, err := a.store.AvailableVehicles(ctx, w)
	if err != nil {
		return nil, err
	}

	set := &AvailabilitySet{Drivers: drivers, Vehicles: vehicles}
	if a.cache != nil {
		a.cache.Set(ctx, w, set)
	}
	return set, nil
}
