package models

import (
	"github.com/google/uuid"
)

// ApprovalStatus is the review state shared by sellers and products
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// Seller represents a user's storefront profile
type Seller struct {
	Base
	UserID       uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"-"`
	ShopName     string         `gorm:"type:varchar(100);not null" json:"shop_name"`
	ShopURL      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"shop_url"`
	Description  string         `gorm:"type:text" json:"description"`
	Category     string         `gorm:"type:varchar(50)" json:"category"`
	ContactEmail string         `gorm:"type:varchar(255);not null" json:"contact_email"`
	Website      string         `gorm:"type:varchar(255)" json:"website"`
	SocialLinks  JSON           `gorm:"type:jsonb" json:"social_links"`
	Status       ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
}
