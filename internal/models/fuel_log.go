package models

import (
	"time"

	"gorm.io/gorm"
)

// FuelLog records a refuelling stop reported by a driver.
type FuelLog struct {
	gorm.Model
	DriverID     uint      `json:"driverId" gorm:"not null;index"`
	Driver       *User     `json:"driver,omitempty"`
	VehicleID    uint      `json:"vehicleId" gorm:"not null;index"`
	Vehicle      *Vehicle  `json:"vehicle,omitempty"`
	Odometer     float64   `json:"odometer"`
	FuelQuantity float64   `json:"fuelQuantity"`
	CreatedBy    uint      `json:"createdBy"`
	FilledAt     time.Time `json:"filledAt" gorm:"autoCreateTime"`
}
