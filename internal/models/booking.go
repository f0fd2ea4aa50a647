package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusApproved  BookingStatus = "approved"
	BookingStatusRejected  BookingStatus = "rejected"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusAssigned  BookingStatus = "assigned"
	BookingStatusOngoing   BookingStatus = "ongoing"
	BookingStatusCompleted BookingStatus = "completed"
)

// bookingTransitions is the single source of truth for the booking
// lifecycle. Rejected, cancelled and completed are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:  {BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusApproved: {BookingStatusAssigned},
	BookingStatusAssigned: {BookingStatusOngoing},
	BookingStatusOngoing:  {BookingStatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	Purpose           string        `json:"purpose" gorm:"not null"`
	Pickup            string        `json:"pickup" gorm:"not null"`
	Delivery          string        `json:"delivery" gorm:"not null"`
	ItemDesc          string        `json:"itemDesc" gorm:"not null"`
	Weight            float64       `json:"weight" gorm:"not null"`
	VehicleTypeID     uint          `json:"vehicleTypeId"`
	VehicleType       *VehicleType  `json:"vehicleType,omitempty"`
	RequiredStartTime time.Time     `json:"requiredStartTime"`
	RequiredEndTime   time.Time     `json:"requiredEndTime"`
	Status            BookingStatus `json:"status" gorm:"not null;default:'pending'"`
	UserID            uint          `json:"userId" gorm:"not null"`
	User              *User         `json:"user,omitempty"`
	TripID            *uint         `json:"tripId"`
}

// SetStatus applies a lifecycle transition, rejecting illegal ones.
func (b *Booking) SetStatus(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("booking %d: illegal status transition %s -> %s", b.ID, b.Status, to)
	}
	b.Status = to
	return nil
}
