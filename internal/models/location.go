package models

import (
	"gorm.io/gorm"
)

// Location is a named pickup/delivery point offered in booking dropdowns.
type Location struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
