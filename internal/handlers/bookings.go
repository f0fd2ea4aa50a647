package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
	"github.com/kavinesh/fleetbook-backend/internal/services"
	"github.com/kavinesh/fleetbook-backend/pkg/utils"
)

type CreateBookingInput struct {
	Purpose           string    `json:"purpose" binding:"required"`
	Pickup            string    `json:"pickup" binding:"required"`
	Delivery          string    `json:"delivery" binding:"required"`
	ItemDesc          string    `json:"itemDesc" binding:"required"`
	Weight            float64   `json:"weight" binding:"required,gt=0"`
	VehicleTypeID     uint      `json:"vehicleTypeId"`
	RequiredStartTime time.Time `json:"requiredStartTime" binding:"required"`
	RequiredEndTime   time.Time `json:"requiredEndTime" binding:"required"`
}

// CreateBooking handles the creation of a new booking (booker only).
func CreateBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !input.RequiredEndTime.After(input.RequiredStartTime) {
			c.JSON(400, gin.H{"error": "requiredEndTime must be after requiredStartTime"})
			return
		}

		booking := models.Booking{
			Purpose:           input.Purpose,
			Pickup:            input.Pickup,
			Delivery:          input.Delivery,
			ItemDesc:          input.ItemDesc,
			Weight:            input.Weight,
			VehicleTypeID:     input.VehicleTypeID,
			RequiredStartTime: input.RequiredStartTime,
			RequiredEndTime:   input.RequiredEndTime,
			Status:            models.BookingStatusPending,
			UserID:            userId,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		c.JSON(201, gin.H{"message": "Booking created successfully", "booking": booking})
	}
}

// GetUserBookings retrieves all bookings created by the logged-in booker.
func GetUserBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var bookings []models.Booking
		if err := db.Where("user_id = ?", userId).
			Preload("VehicleType").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetAllBookings retrieves all bookings, optionally filtered by status (admin only).
func GetAllBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("User").Preload("VehicleType")

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var bookings []models.Booking
		if err := query.Order("created_at DESC").Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{"bookings": bookings})
	}
}

// GetBookingDetails returns one booking with owner and vehicle type (admin only).
func GetBookingDetails(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var booking models.Booking
		if err := db.Preload("User").Preload("VehicleType").
			First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(200, booking)
	}
}

// CancelBooking lets a booker cancel their own pending booking.
func CancelBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var booking models.Booking
		if err := db.First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.UserID != userId {
			c.JSON(403, gin.H{"error": "You can only cancel your own bookings"})
			return
		}

		if err := booking.SetStatus(models.BookingStatusCancelled); err != nil {
			c.JSON(400, gin.H{"error": "Only pending bookings can be cancelled"})
			return
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to cancel booking"})
			return
		}

		c.JSON(200, gin.H{"message": "Booking cancelled successfully"})
	}
}

// UpdateBookingStatus lets an admin approve or reject a pending booking.
// The owner is notified over the websocket hub and by email.
func UpdateBookingStatus(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status string `json:"status" binding:"required,oneof=approved rejected"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.Preload("User").First(&booking, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if err := booking.SetStatus(models.BookingStatus(input.Status)); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update booking status"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"booking_id": booking.ID,
			"status":     booking.Status,
		}).Info("booking status updated")

		hub.SendBookingStatus(booking.UserID, services.BookingStatusChanged{
			BookingID: booking.ID,
			Status:    booking.Status,
		})
		if booking.User != nil {
			go utils.SendBookingStatusEmail(booking.User.Email, &booking)
		}

		c.JSON(200, booking)
	}
}
