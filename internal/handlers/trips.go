package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
	"github.com/kavinesh/fleetbook-backend/internal/scheduling"
	"github.com/kavinesh/fleetbook-backend/internal/services"
	"github.com/kavinesh/fleetbook-backend/pkg/utils"
)

// assignTripInput accepts either an explicit driverId/vehicleId pair or a
// mappingId (a vehicle with its current driver), kept for compatibility
// with older clients.
type assignTripInput struct {
	BookingIDs []uint `json:"bookingIds"`
	DriverID   uint   `json:"driverId"`
	VehicleID  uint   `json:"vehicleId"`
	MappingID  uint   `json:"mappingId"`
}

// resolveMapping turns a mappingId into its driver/vehicle pair. Pure
// lookup; the assignment engine only ever sees the resolved pair.
func resolveMapping(db *gorm.DB, mappingID uint) (driverID, vehicleID uint, err error) {
	var vehicle models.Vehicle
	if err := db.First(&vehicle, mappingID).Error; err != nil {
		return 0, 0, err
	}
	if vehicle.DriverID == 0 {
		return 0, 0, errors.New("vehicle has no driver assigned")
	}
	return vehicle.DriverID, vehicle.ID, nil
}

// AssignTrip turns a set of approved bookings into a scheduled trip for
// a driver/vehicle pair (admin only).
func AssignTrip(db *gorm.DB, assigner *scheduling.Assigner, hub *services.Hub, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input assignTripInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.MappingID != 0 && (input.DriverID == 0 || input.VehicleID == 0) {
			driverID, vehicleID, err := resolveMapping(db, input.MappingID)
			if err != nil {
				c.JSON(400, gin.H{"error": "Invalid mapping selected"})
				return
			}
			input.DriverID, input.VehicleID = driverID, vehicleID
		}

		trip, err := assigner.Assign(c.Request.Context(), scheduling.AssignmentRequest{
			BookingIDs: input.BookingIDs,
			DriverID:   input.DriverID,
			VehicleID:  input.VehicleID,
		})
		if err != nil {
			respondAssignmentError(c, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"trip_id":    trip.ID,
			"driver_id":  trip.DriverID,
			"vehicle_id": trip.VehicleID,
			"bookings":   len(trip.Bookings),
		}).Info("trip assigned")

		// Schedule changed; cached candidate pools are stale.
		if rdb != nil {
			services.InvalidateAvailability(c.Request.Context(), rdb)
		}

		hub.SendTripAssigned(trip.DriverID, services.TripAssigned{
			TripID:    trip.ID,
			VehicleID: trip.VehicleID,
			StartTime: trip.StartTime.Format(time.RFC3339),
			EndTime:   trip.EndTime.Format(time.RFC3339),
			Bookings:  len(trip.Bookings),
		})
		if trip.Driver != nil {
			go utils.SendTripAssignedEmail(trip.Driver.Email, trip)
		}

		c.JSON(201, gin.H{"message": "Trip assigned successfully", "trip": trip})
	}
}

// respondAssignmentError maps the engine's error taxonomy onto HTTP
// statuses with distinct, actionable bodies.
func respondAssignmentError(c *gin.Context, err error) {
	var notApproved *scheduling.NotApprovedError
	var badWindow *scheduling.InvalidWindowError
	var conflict *scheduling.ConflictError

	switch {
	case errors.Is(err, scheduling.ErrInvalidRequest),
		errors.Is(err, scheduling.ErrInvalidDriver),
		errors.Is(err, scheduling.ErrInvalidVehicle),
		errors.Is(err, scheduling.ErrNoBookingsFound),
		errors.Is(err, scheduling.ErrEmptySelection):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.As(err, &notApproved):
		c.JSON(400, gin.H{"error": "Some bookings are not in approved state", "invalidIds": notApproved.IDs})
	case errors.As(err, &badWindow):
		c.JSON(400, gin.H{"error": err.Error(), "bookingId": badWindow.BookingID})
	case errors.As(err, &conflict):
		c.JSON(409, gin.H{"error": "Driver or Vehicle is already assigned to another trip in this time window", "overlappingTripId": conflict.TripID})
	case errors.Is(err, scheduling.ErrTransactionFailure):
		c.JSON(409, gin.H{"error": "Failed to assign trip, please try again"})
	default:
		logrus.WithError(err).Error("trip assignment failed")
		c.JSON(500, gin.H{"error": "Failed to assign trip"})
	}
}

// GetTrips lists trips with optional status and driver filters (admin only).
func GetTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Driver").
			Preload("Vehicle").
			Preload("Vehicle.VehicleType").
			Preload("Bookings")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if driverID := c.Query("driverId"); driverID != "" {
			query = query.Where("driver_id = ?", driverID)
		}

		var trips []models.Trip
		if err := query.Order("created_at DESC").Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, trips)
	}
}

func parseWindow(c *gin.Context) (scheduling.Window, bool) {
	startStr := c.Query("startTime")
	endStr := c.Query("endTime")
	if startStr == "" || endStr == "" {
		c.JSON(400, gin.H{"error": "Start and end time are required"})
		return scheduling.Window{}, false
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid startTime"})
		return scheduling.Window{}, false
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid endTime"})
		return scheduling.Window{}, false
	}

	return scheduling.Window{Start: start, End: end}, true
}

// GetAvailableDrivers lists drivers with no trip overlapping the window.
func GetAvailableDrivers(availability *scheduling.Availability) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, ok := parseWindow(c)
		if !ok {
			return
		}

		set, err := availability.Query(c.Request.Context(), window)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch available drivers"})
			return
		}

		c.JSON(200, set.Drivers)
	}
}

// GetAvailableVehicles lists vehicles with no trip overlapping the window.
func GetAvailableVehicles(availability *scheduling.Availability) gin.HandlerFunc {
	return func(c *gin.Context) {
		window, ok := parseWindow(c)
		if !ok {
			return
		}

		set, err := availability.Query(c.Request.Context(), window)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch available vehicles"})
			return
		}

		c.JSON(200, set.Vehicles)
	}
}
