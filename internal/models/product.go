package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a digital product listed by a seller
type Product struct {
	Base
	SellerID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"seller_id"`
	Seller      Seller         `gorm:"foreignKey:SellerID" json:"-"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Category    string         `gorm:"type:varchar(50);not null" json:"category"`
	Price       float64        `gorm:"type:decimal(12,2);not null" json:"price"`
	Image       string         `gorm:"type:varchar(255)" json:"image"`
	FileURLs    StringSlice    `gorm:"type:jsonb" json:"file_urls"`
	Status      ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ApprovedAt  *time.Time     `json:"approved_at"`
}
