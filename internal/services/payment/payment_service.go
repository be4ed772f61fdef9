package payment

import (
	"context"
	"fmt"
)

// CheckoutOrder is an order registered with the checkout rail before
// the customer pays
type CheckoutOrder struct {
	RailOrderID string
	Amount      float64
	Currency    string
	Reference   string
	KeyID       string
}

// DisbursementStatus is the rail-side state of a transfer
type DisbursementStatus string

const (
	DisbursementPending   DisbursementStatus = "pending"
	DisbursementCompleted DisbursementStatus = "completed"
	DisbursementFailed    DisbursementStatus = "failed"
)

// Disbursement is the rail's view of an outbound transfer
type Disbursement struct {
	ExternalID string
	Status     DisbursementStatus
	Reason     string
}

// CheckoutProvider is a rail that collects customer payments
type CheckoutProvider interface {
	// CreateOrder registers an order with the rail and returns the
	// rail-side order id the client pays against
	CreateOrder(ctx context.Context, amount float64, currency, reference string) (*CheckoutOrder, error)
	// VerifySignature checks the rail's callback signature for a
	// completed payment
	VerifySignature(railOrderID, paymentID, signature string) bool
}

// DisbursementProvider is a rail that pushes money out
type DisbursementProvider interface {
	// Disburse sends amount to the given UPI address. A non-nil error
	// means the rail could not be reached; a returned Disbursement with
	// DisbursementFailed means the rail declined.
	Disburse(ctx context.Context, upiID string, amount float64, currency, reference string) (*Disbursement, error)
	// Status fetches the rail-side state of a previous disbursement
	Status(ctx context.Context, externalID string) (*Disbursement, error)
}

// Service holds the registered payment rails
type Service struct {
	checkouts     map[string]CheckoutProvider
	disbursements map[string]DisbursementProvider
}

// NewService creates a payment service with empty registries
func NewService() *Service {
	return &Service{
		checkouts:     make(map[string]CheckoutProvider),
		disbursements: make(map[string]DisbursementProvider),
	}
}

// RegisterCheckout registers a checkout rail under a name
func (s *Service) RegisterCheckout(name string, provider CheckoutProvider) {
	s.checkouts[name] = provider
}

// RegisterDisbursement registers a disbursement rail under a name
func (s *Service) RegisterDisbursement(name string, provider DisbursementProvider) {
	s.disbursements[name] = provider
}

// Checkout returns the named checkout rail
func (s *Service) Checkout(name string) (CheckoutProvider, error) {
	provider, ok := s.checkouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown checkout provider: %s", name)
	}
	return provider, nil
}

// Disbursement returns the named disbursement rail
func (s *Service) Disbursement(name string) (DisbursementProvider, error) {
	provider, ok := s.disbursements[name]
	if !ok {
		return nil, fmt.Errorf("unknown disbursement provider: %s", name)
	}
	return provider, nil
}
