package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheckout struct{}

func (fakeCheckout) CreateOrder(ctx context.Context, amount float64, currency, reference string) (*CheckoutOrder, error) {
	return &CheckoutOrder{RailOrderID: "order_1"}, nil
}

func (fakeCheckout) VerifySignature(railOrderID, paymentID, signature string) bool {
	return true
}

type fakeDisbursement struct{}

func (fakeDisbursement) Disburse(ctx context.Context, upiID string, amount float64, currency, reference string) (*Disbursement, error) {
	return &Disbursement{Status: DisbursementCompleted}, nil
}

func (fakeDisbursement) Status(ctx context.Context, externalID string) (*Disbursement, error) {
	return &Disbursement{Status: DisbursementCompleted}, nil
}

func TestProviderRegistry(t *testing.T) {
	svc := NewService()
	svc.RegisterCheckout("razorpay", fakeCheckout{})
	svc.RegisterDisbursement("upi", fakeDisbursement{})

	t.Run("registered checkout rail is returned", func(t *testing.T) {
		provider, err := svc.Checkout("razorpay")
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("registered disbursement rail is returned", func(t *testing.T) {
		provider, err := svc.Disbursement("upi")
		require.NoError(t, err)
		assert.NotNil(t, provider)
	})

	t.Run("unknown checkout rail", func(t *testing.T) {
		_, err := svc.Checkout("stripe")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown checkout provider")
	})

	t.Run("unknown disbursement rail", func(t *testing.T) {
		_, err := svc.Disbursement("ach")
		require.Error(t, err)
	})
}
