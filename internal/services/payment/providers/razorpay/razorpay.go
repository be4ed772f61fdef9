package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/youbairia/marketplace/internal/services/payment"
	"github.com/youbairia/marketplace/internal/utils"
)

// Provider implements the checkout rail against the Razorpay Orders API
type Provider struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// Config holds credentials for the Razorpay provider
type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// NewProvider creates a new Razorpay provider
func NewProvider(config Config) *Provider {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}

	return &Provider{
		keyID:     config.KeyID,
		keySecret: config.KeySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// createOrderRequest is the Orders API request body. Amount is in the
// currency's smallest unit (paise for INR).
type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

// createOrderResponse is the Orders API response body
type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers an order with Razorpay and returns the order id
// the client pays against
func (p *Provider) CreateOrder(ctx context.Context, amount float64, currency, reference string) (*payment.CheckoutOrder, error) {
	body := createOrderRequest{
		Amount:   int64(math.Round(amount * 100)),
		Currency: currency,
		Receipt:  reference,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.keyID, p.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		var railErr apiError
		if err := json.Unmarshal(respBody, &railErr); err == nil && railErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay order creation failed: %s", railErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay order creation failed with status %d", resp.StatusCode)
	}

	var order createOrderResponse
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("invalid razorpay response: %w", err)
	}

	return &payment.CheckoutOrder{
		RailOrderID: order.ID,
		Amount:      amount,
		Currency:    order.Currency,
		Reference:   reference,
		KeyID:       p.keyID,
	}, nil
}

// VerifySignature checks the hex HMAC-SHA256 of "order_id|payment_id"
// that Razorpay sends back after a successful checkout
func (p *Provider) VerifySignature(railOrderID, paymentID, signature string) bool {
	message := railOrderID + "|" + paymentID
	return utils.VerifyHMACHex(message, signature, p.keySecret)
}
