package scheduling

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// GormStore implements the assignment engine's store interfaces on a
// PostgreSQL database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DriverByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND role = ? AND is_deleted = ?", id, models.RoleDriver, false).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) VehicleByID(ctx context.Context, id uint) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := s.db.WithContext(ctx).Preload("VehicleType").First(&vehicle, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

func (s *GormStore) BookingsByIDs(ctx context.Context, ids []uint) ([]models.Booking, error) {
	var bookings []models.Booking
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

const overlapCond = "(driver_id = ? OR vehicle_id = ?) AND start_time < ? AND end_time > ?"

func (s *GormStore) FindOverlapping(ctx context.Context, driverID, vehicleID uint, w Window) (*models.Trip, error) {
	var trip models.Trip
	err := s.db.WithContext(ctx).
		Where(overlapCond, driverID, vehicleID, w.End, w.Start).
		First(&trip).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

// AssignTrip creates the trip and moves the bookings to "assigned" in a
// single transaction. The driver and vehicle rows are locked first so
// concurrent assignments for the same driver or vehicle serialize, then
// the overlap check is repeated under those locks. Either both writes
// commit or neither does.
func (s *GormStore) AssignTrip(ctx context.Context, trip *models.Trip, bookingIDs []uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var driver models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&driver, trip.DriverID).Error; err != nil {
			return err
		}
		var vehicle models.Vehicle
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&vehicle, trip.VehicleID).Error; err != nil {
			return err
		}

		var conflict models.Trip
		err := tx.Where(overlapCond, trip.DriverID, trip.VehicleID, trip.EndTime, trip.StartTime).
			First(&conflict).Error
		if err == nil {
			return &ConflictError{TripID: conflict.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Omit("Driver", "Vehicle", "Bookings").Create(trip).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Booking{}).
			Where("id IN ? AND status = ?", bookingIDs, models.BookingStatusApproved).
			Updates(map[string]interface{}{
				"status":  models.BookingStatusAssigned,
				"trip_id": trip.ID,
			})
		if res.Error != nil {
			return res.Error
		}
		// A booking changed status since the pre-check; roll everything back.
		if res.RowsAffected != int64(len(bookingIDs)) {
			return fmt.Errorf("expected %d bookings to assign, got %d", len(bookingIDs), res.RowsAffected)
		}

		return tx.Where("trip_id = ?", trip.ID).Find(&trip.Bookings).Error
	})
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			return conflict
		}
		return fmt.Errorf("%w: %v", ErrTransactionFailure, err)
	}
	return nil
}

func (s *GormStore) AvailableDrivers(ctx context.Context, w Window) ([]models.User, error) {
	var drivers []models.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND is_deleted = ?", models.RoleDriver, false).
		Where("NOT EXISTS (SELECT 1 FROM trips WHERE trips.driver_id = users.id AND trips.deleted_at IS NULL AND trips.start_time < ? AND trips.end_time > ?)", w.End, w.Start).
		Find(&drivers).Error
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

func (s *GormStore) AvailableVehicles(ctx context.Context, w Window) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.WithContext(ctx).
		Preload("VehicleType").
		Where("NOT EXISTS (SELECT 1 FROM trips WHERE trips.vehicle_id = vehicles.id AND trips.deleted_at IS NULL AND trips.start_time < ? AND trips.end_time > ?)", w.End, w.Start).
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}
