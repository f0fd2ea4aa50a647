package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kavinesh/fleetbook-backend/internal/models"
)

// Dropdown lookups feeding the booking and assignment forms.

func GetVehicleTypes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicleTypes []models.VehicleType
		if err := db.Find(&vehicleTypes).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicle types"})
			return
		}
		c.JSON(200, vehicleTypes)
	}
}

func GetLocations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var locations []models.Location
		if err := db.Find(&locations).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch locations"})
			return
		}
		c.JSON(200, locations)
	}
}

func GetDrivers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.User
		if err := db.Where("role = ? AND is_deleted = ?", models.RoleDriver, false).
			Select("id", "name", "email").
			Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}
		c.JSON(200, drivers)
	}
}

func GetVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var vehicles []models.Vehicle
		if err := db.Preload("VehicleType").Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		// Flatten for the assignment form.
		formatted := make([]gin.H, 0, len(vehicles))
		for _, v := range vehicles {
			t := "N/A"
			if v.VehicleType != nil {
				t = v.VehicleType.Type
			}
			formatted = append(formatted, gin.H{
				"id":       v.ID,
				"number":   v.Number,
				"type":     t,
				"driverId": v.DriverID,
			})
		}
		c.JSON(200, formatted)
	}
}
