package database

import (
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// RunMigrations applies schema fixups AutoMigrate cannot express.
func RunMigrations(db *gorm.DB) error {
	if db.Migrator().HasTable(&models.User{}) {
		db.Exec(`ALTER TABLE users DROP CONSTRAINT IF EXISTS users_role_check`)
		if err := db.Exec(`ALTER TABLE users ADD CONSTRAINT users_role_check CHECK (role IN ('admin', 'booker', 'driver'))`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Booking{}) {
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_status_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_status_check CHECK (status IN ('pending', 'approved', 'rejected', 'cancelled', 'assigned', 'ongoing', 'completed'))`).Error; err != nil {
			return err
		}
		db.Exec(`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS bookings_weight_check`)
		if err := db.Exec(`ALTER TABLE bookings ADD CONSTRAINT bookings_weight_check CHECK (weight > 0)`).Error; err != nil {
			return err
		}
	}

	if db.Migrator().HasTable(&models.Trip{}) {
		db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_status_check`)
		if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_status_check CHECK (status IN ('scheduled', 'ongoing', 'completed'))`).Error; err != nil {
			return err
		}
		// Overlap queries filter by driver/vehicle and window bounds.
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_trips_driver_window ON trips (driver_id, start_time, end_time)`).Error; err != nil {
			return err
		}
		if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_trips_vehicle_window ON trips (vehicle_id, start_time, end_time)`).Error; err != nil {
			return err
		}
	}

	return nil
}
