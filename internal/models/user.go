package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleBooker UserRole = "booker"
	RoleDriver UserRole = "driver"
)

// ValidRole reports whether s names one of the registrable roles.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleBooker, RoleDriver:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name         string   `json:"name" gorm:"column:name;not null"`
	Email        string   `json:"email" gorm:"column:email;unique;not null"`
	Password     string   `json:"-" gorm:"-:migration"` // Temporary field for password handling
	PasswordHash string   `json:"-" gorm:"column:password_hash;not null"`
	Role         UserRole `json:"role" gorm:"column:role;not null"`
	IsDeleted    bool     `json:"isDeleted" gorm:"column:is_deleted;default:false"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
