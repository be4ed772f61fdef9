package models

import (
	"time"

	"github.com/google/uuid"
)

// PayoutStatus represents the status of a payout
type PayoutStatus string

const (
	PayoutPending    PayoutStatus = "PENDING"
	PayoutProcessing PayoutStatus = "PROCESSING"
	PayoutCompleted  PayoutStatus = "COMPLETED"
	PayoutFailed     PayoutStatus = "FAILED"
)

// Payout is a disbursement paying a marketer for one approved submission.
// The unique index on SubmissionID is enforced at the storage layer so two
// concurrent process-payout requests cannot both create a row.
type Payout struct {
	Base
	SubmissionID      uuid.UUID         `gorm:"type:uuid;uniqueIndex;not null" json:"submission_id"`
	Submission        ContentSubmission `gorm:"foreignKey:SubmissionID" json:"-"`
	MarketerID        uuid.UUID         `gorm:"type:uuid;index;not null" json:"marketer_id"`
	Marketer          Marketer          `gorm:"foreignKey:MarketerID" json:"-"`
	InitiatedBy       uuid.UUID         `gorm:"type:uuid;not null" json:"initiated_by"`
	Amount            float64           `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency          string            `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	PaymentMethod     string            `gorm:"type:varchar(50);not null" json:"payment_method"`
	ExternalPaymentID string            `gorm:"type:varchar(100)" json:"external_payment_id"`
	UpiID             string            `gorm:"type:varchar(100)" json:"upi_id"`
	FailureReason     string            `gorm:"type:text" json:"failure_reason"`
	Status            PayoutStatus      `gorm:"type:varchar(20);not null;default:'PROCESSING'" json:"status"`
	ProcessedAt       *time.Time        `json:"processed_at"`
}
