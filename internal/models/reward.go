package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a reward task
type TaskStatus string

const (
	TaskActive    TaskStatus = "ACTIVE"
	TaskPaused    TaskStatus = "PAUSED"
	TaskCompleted TaskStatus = "COMPLETED"
)

// SubmissionStatus represents the review state of a content submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// RewardTask is a seller-funded content bounty
type RewardTask struct {
	Base
	SellerID            uuid.UUID  `gorm:"type:uuid;index;not null" json:"seller_id"`
	Seller              Seller     `gorm:"foreignKey:SellerID" json:"-"`
	Title               string     `gorm:"type:varchar(255);not null" json:"title"`
	Description         string     `gorm:"type:text;not null" json:"description"`
	ProductDetails      string     `gorm:"type:text;not null" json:"product_details"`
	ContentType         string     `gorm:"type:varchar(50);not null" json:"content_type"`
	Requirements        string     `gorm:"type:text;not null" json:"requirements"`
	Budget              float64    `gorm:"type:decimal(12,2);not null" json:"budget"`
	Deadline            time.Time  `gorm:"not null" json:"deadline"`
	MaxSubmissions      int        `gorm:"not null;default:10" json:"max_submissions"`
	TotalSubmissions    int        `gorm:"not null;default:0" json:"total_submissions"`
	ApprovedSubmissions int        `gorm:"not null;default:0" json:"approved_submissions"`
	Status              TaskStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
}

// ContentSubmission is a marketer's response to a reward task.
// A marketer may submit at most once per task; the composite unique
// index is the authoritative guard under concurrent requests.
type ContentSubmission struct {
	Base
	TaskID      uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_task_marketer" json:"task_id"`
	Task        RewardTask       `gorm:"foreignKey:TaskID" json:"-"`
	MarketerID  uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_submission_task_marketer" json:"marketer_id"`
	Marketer    Marketer         `gorm:"foreignKey:MarketerID" json:"-"`
	Content     string           `gorm:"type:text;not null" json:"content"`
	MediaURLs   StringSlice      `gorm:"type:jsonb" json:"media_urls"`
	Notes       string           `gorm:"type:text" json:"notes"`
	Status      SubmissionStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Feedback    string           `gorm:"type:text" json:"feedback"`
	SubmittedAt time.Time        `gorm:"default:CURRENT_TIMESTAMP" json:"submitted_at"`
	ReviewedAt  *time.Time       `json:"reviewed_at"`
	ReviewedBy  *uuid.UUID       `gorm:"type:uuid" json:"reviewed_by"`
}
