package models

import (
	"gorm.io/gorm"
)

// VehicleType describes a class of vehicle and its cargo dimensions,
// used by bookers to request an appropriately sized vehicle.
type VehicleType struct {
	gorm.Model
	Type    string  `json:"type" gorm:"unique;not null"`
	Length  float64 `json:"length"`
	Breadth float64 `json:"breadth"`
	Height  float64 `json:"height"`
}

type Vehicle struct {
	gorm.Model
	Number        string       `json:"number" gorm:"unique;not null"`
	VehicleTypeID uint         `json:"vehicleTypeId" gorm:"not null"`
	VehicleType   *VehicleType `json:"vehicleType,omitempty"`
	// Driver currently operating this vehicle; zero when unassigned.
	DriverID uint `json:"driverId" gorm:"index"`
}
