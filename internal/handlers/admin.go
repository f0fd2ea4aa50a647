package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// CreateLocation adds a pickup/delivery location (admin only).
func CreateLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": "Location name is required"})
			return
		}

		location := models.Location{Name: strings.TrimSpace(input.Name)}
		if location.Name == "" {
			c.JSON(400, gin.H{"error": "Location name is required"})
			return
		}

		if err := db.Create(&location).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to add location"})
			return
		}
		c.JSON(201, location)
	}
}

// CreateVehicleType adds a vehicle class with cargo dimensions (admin only).
func CreateVehicleType(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Type    string  `json:"type" binding:"required"`
			Length  float64 `json:"length" binding:"required,gt=0"`
			Breadth float64 `json:"breadth" binding:"required,gt=0"`
			Height  float64 `json:"height" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		vehicleType := models.VehicleType{
			Type:    strings.TrimSpace(input.Type),
			Length:  input.Length,
			Breadth: input.Breadth,
			Height:  input.Height,
		}
		if err := db.Create(&vehicleType).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle type"})
			return
		}
		c.JSON(201, vehicleType)
	}
}

// CreateVehicle registers a vehicle (admin only).
func CreateVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Number        string `json:"number" binding:"required"`
			VehicleTypeID uint   `json:"vehicleTypeId" binding:"required"`
			DriverID      uint   `json:"driverId"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.DriverID != 0 {
			var driver models.User
			if err := db.Where("id = ? AND role = ? AND is_deleted = ?", input.DriverID, models.RoleDriver, false).
				First(&driver).Error; err != nil {
				c.JSON(400, gin.H{"error": "Invalid driver for vehicle"})
				return
			}
		}

		vehicle := models.Vehicle{
			Number:        strings.TrimSpace(input.Number),
			VehicleTypeID: input.VehicleTypeID,
			DriverID:      input.DriverID,
		}
		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create vehicle"})
			return
		}
		c.JSON(201, vehicle)
	}
}

// GetUsers lists all non-deleted users (admin only).
func GetUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Where("is_deleted = ?", false).
			Order("created_at DESC").
			Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(200, users)
	}
}

// DeleteUser soft-deletes a user; history stays intact (admin only).
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		user.IsDeleted = true
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete user"})
			return
		}
		c.JSON(200, gin.H{"message": "User deleted successfully"})
	}
}
