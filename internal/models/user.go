package models

import (
	"time"
)

// Role represents a user's role in the marketplace
type Role string

const (
	RoleUser     Role = "USER"
	RoleSeller   Role = "SELLER"
	RoleMarketer Role = "MARKETER"
	RoleAdmin    Role = "ADMIN"
)

// User represents a user in the system
type User struct {
	Base
	Name         string     `gorm:"type:varchar(100);not null" json:"name"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}
