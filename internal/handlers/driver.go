package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
	"github.com/kavinesh/fleetbook-backend/internal/services"
)

// GetDriverTrips returns the bookings on the driver's scheduled or
// ongoing trips from the last day onward.
func GetDriverTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")
		since := time.Now().AddDate(0, 0, -1)

		var bookings []models.Booking
		err := db.Joins("JOIN trips ON trips.id = bookings.trip_id").
			Where("trips.driver_id = ? AND trips.start_time >= ? AND trips.status IN ?",
				driverID, since, []models.TripStatus{models.TripStatusScheduled, models.TripStatusOngoing}).
			Where("bookings.status IN ?", []models.BookingStatus{models.BookingStatusAssigned, models.BookingStatusOngoing}).
			Preload("VehicleType").
			Find(&bookings).Error
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch driver trips"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetDriverBooking returns one booking on the driver's own trip.
func GetDriverBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var booking models.Booking
		err := db.Joins("JOIN trips ON trips.id = bookings.trip_id").
			Where("bookings.id = ? AND trips.driver_id = ?", c.Param("bookingId"), driverID).
			Preload("VehicleType").
			First(&booking).Error
		if err != nil {
			c.JSON(404, gin.H{"error": "Booking not found on your trips"})
			return
		}

		c.JSON(200, booking)
	}
}

// UpdateTripProgress advances a booking on the driver's trip through the
// lifecycle (assigned -> ongoing -> completed). Starting the first
// booking moves the trip to ongoing; completing the last one completes
// the trip. Both writes happen in one transaction.
func UpdateTripProgress(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input struct {
			Status string `json:"status" binding:"required,oneof=ongoing completed"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Joins("JOIN trips ON trips.id = bookings.trip_id").
				Where("bookings.id = ? AND trips.driver_id = ?", c.Param("bookingId"), driverID).
				First(&booking).Error; err != nil {
				return err
			}

			if err := booking.SetStatus(models.BookingStatus(input.Status)); err != nil {
				return err
			}
			if err := tx.Save(&booking).Error; err != nil {
				return err
			}

			var trip models.Trip
			if err := tx.First(&trip, *booking.TripID).Error; err != nil {
				return err
			}

			switch booking.Status {
			case models.BookingStatusOngoing:
				if trip.Status == models.TripStatusScheduled {
					trip.Status = models.TripStatusOngoing
					if err := tx.Save(&trip).Error; err != nil {
						return err
					}
				}
			case models.BookingStatusCompleted:
				// Trip finishes only when every linked booking is done.
				var remaining int64
				if err := tx.Model(&models.Booking{}).
					Where("trip_id = ? AND status <> ?", trip.ID, models.BookingStatusCompleted).
					Count(&remaining).Error; err != nil {
					return err
				}
				if remaining == 0 {
					trip.Status = models.TripStatusCompleted
					if err := tx.Save(&trip).Error; err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			logrus.WithError(err).WithField("booking_id", c.Param("bookingId")).Warn("trip progress update rejected")
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		hub.SendBookingStatus(booking.UserID, services.BookingStatusChanged{
			BookingID: booking.ID,
			Status:    booking.Status,
		})

		c.JSON(200, booking)
	}
}

// GetMyVehicle returns the vehicle currently assigned to the driver.
func GetMyVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var vehicle models.Vehicle
		if err := db.Preload("VehicleType").
			Where("driver_id = ?", driverID).
			First(&vehicle).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found for this driver"})
			return
		}

		c.JSON(200, vehicle)
	}
}

// CreateFuelLog records a refuelling stop for the driver's vehicle.
func CreateFuelLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.GetUint("userId")

		var input struct {
			VehicleID    uint    `json:"vehicleId" binding:"required"`
			Odometer     float64 `json:"odometer" binding:"required,gt=0"`
			FuelQuantity float64 `json:"fuelQuantity" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		log := models.FuelLog{
			DriverID:     driverID,
			VehicleID:    input.VehicleID,
			Odometer:     input.Odometer,
			FuelQuantity: input.FuelQuantity,
			CreatedBy:    driverID,
			FilledAt:     time.Now(),
		}
		if err := db.Create(&log).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create fuel log"})
			return
		}

		c.JSON(201, log)
	}
}

// GetFuelLogs lists all fuel logs with driver and vehicle (admin only).
func GetFuelLogs(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var logs []models.FuelLog
		if err := db.Preload("Driver").Preload("Vehicle").
			Order("filled_at DESC").
			Find(&logs).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch fuel logs"})
			return
		}

		c.JSON(200, logs)
	}
}
