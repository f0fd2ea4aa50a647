package models

import (
	"time"

	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusOngoing   TripStatus = "ongoing"
	TripStatusCompleted TripStatus = "completed"
)

// Trip is one dispatch of a driver and vehicle covering a set of
// bookings. StartTime/EndTime span the earliest required start and
// latest required end of the linked bookings.
type Trip struct {
	gorm.Model
	DriverID  uint       `json:"driverId" gorm:"not null;index"`
	Driver    *User      `json:"driver,omitempty"`
	VehicleID uint       `json:"vehicleId" gorm:"not null;index"`
	Vehicle   *Vehicle   `json:"vehicle,omitempty"`
	StartTime time.Time  `json:"startTime" gorm:"not null"`
	EndTime   time.Time  `json:"endTime" gorm:"not null"`
	Status    TripStatus `json:"status" gorm:"not null;default:'scheduled'"`
	Bookings  []Booking  `json:"bookings,omitempty" gorm:"foreignKey:TripID"`
}
