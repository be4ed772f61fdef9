package models

import (
	"github.com/google/uuid"
)

// MarketerStatus represents the state of a marketer profile
type MarketerStatus string

const (
	MarketerActive    MarketerStatus = "ACTIVE"
	MarketerSuspended MarketerStatus = "SUSPENDED"
)

// Marketer is a user profile that submits content against reward tasks.
// TotalEarnings and CompletedTasks are bumped exactly once per completed
// payout, via atomic SQL increments.
type Marketer struct {
	Base
	UserID         uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User           User           `gorm:"foreignKey:UserID" json:"-"`
	Bio            string         `gorm:"type:text;not null" json:"bio"`
	Specialties    StringSlice    `gorm:"type:jsonb;not null" json:"specialties"`
	Portfolio      string         `gorm:"type:varchar(255)" json:"portfolio"`
	SocialLinks    JSON           `gorm:"type:jsonb" json:"social_links"`
	UpiID          string         `gorm:"type:varchar(100)" json:"upi_id"`
	Rating         float64        `gorm:"type:decimal(3,2);default:0" json:"rating"`
	TotalEarnings  float64        `gorm:"type:decimal(12,2);not null;default:0" json:"total_earnings"`
	CompletedTasks int            `gorm:"not null;default:0" json:"completed_tasks"`
	Status         MarketerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
}
