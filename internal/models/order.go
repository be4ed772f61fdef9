package models

import (
	"github.com/google/uuid"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPaid     OrderStatus = "PAID"
	OrderRefunded OrderStatus = "REFUNDED"
)

// Order is an immutable snapshot of a paid cart. It is persisted only
// after the payment rail confirms the checkout.
type Order struct {
	Base
	UserID            uuid.UUID   `gorm:"type:uuid;index;not null" json:"user_id"`
	User              User        `gorm:"foreignKey:UserID" json:"-"`
	Items             []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal          float64     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax               float64     `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total             float64     `gorm:"type:decimal(12,2);not null" json:"total"`
	Currency          string      `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	PaymentReference  string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"payment_reference"`
	ExternalPaymentID string      `gorm:"type:varchar(100)" json:"external_payment_id"`
	Status            OrderStatus `gorm:"type:varchar(20);not null;default:'PAID'" json:"status"`
}

// OrderItem is one purchased line in an order snapshot
type OrderItem struct {
	Base
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null" json:"product_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Price     float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity  int       `gorm:"not null" json:"quantity"`
}

// CheckoutIntent tracks a checkout order created on the payment rail
// before the client completes payment. The order row itself is written
// only once the signature verifies.
type CheckoutIntent struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Reference     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"reference"`
	RailOrderID   string    `gorm:"type:varchar(100);index" json:"rail_order_id"`
	Amount        float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string    `gorm:"type:varchar(3);not null;default:'INR'" json:"currency"`
	ItemsSnapshot JSON      `gorm:"type:jsonb" json:"items_snapshot"`
	CustomerEmail string    `gorm:"type:varchar(255)" json:"customer_email"`
	Consumed      bool      `gorm:"not null;default:false" json:"consumed"`
}
