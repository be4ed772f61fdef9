package upi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/youbairia/marketplace/internal/services/payment"
)

// Provider implements the disbursement rail over a UPI payout API
type Provider struct {
	baseURL   string
	apiKey    string
	payeeName string
	client    *http.Client
}

// Config holds configuration for the UPI provider
type Config struct {
	BaseURL   string
	APIKey    string
	PayeeName string
}

// NewProvider creates a new UPI disbursement provider
func NewProvider(config Config) *Provider {
	return &Provider{
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		apiKey:    config.APIKey,
		payeeName: config.PayeeName,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// BuildURI builds a upi:// deep link a payer app can open.
// The amount is rendered with exactly two decimals.
func BuildURI(payeeAddress, payeeName string, amount float64, note, reference string) string {
	params := url.Values{}
	params.Set("pa", payeeAddress)
	params.Set("pn", payeeName)
	params.Set("am", strconv.FormatFloat(amount, 'f', 2, 64))
	params.Set("cu", "INR")
	params.Set("tn", note)
	params.Set("tr", reference)
	return "upi://pay?" + params.Encode()
}

// transferRequest is the payout API request body
type transferRequest struct {
	Address   string  `json:"address"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Reference string  `json:"reference"`
	Narration string  `json:"narration"`
}

// transferResponse is the payout API response body
type transferResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Disburse sends amount to a UPI address. A transport failure returns a
// non-nil error; a declined transfer comes back as DisbursementFailed.
func (p *Provider) Disburse(ctx context.Context, upiID string, amount float64, currency, reference string) (*payment.Disbursement, error) {
	body := transferRequest{
		Address:   upiID,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
		Narration: "Content reward payout",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/transfers", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upi rail request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var transfer transferResponse
	if err := json.Unmarshal(respBody, &transfer); err != nil {
		return nil, fmt.Errorf("invalid upi rail response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("upi rail unavailable: status %d", resp.StatusCode)
	}

	return &payment.Disbursement{
		ExternalID: transfer.ID,
		Status:     mapStatus(resp.StatusCode, transfer.Status),
		Reason:     transfer.Message,
	}, nil
}

// Status fetches the rail-side state of a previous disbursement
func (p *Provider) Status(ctx context.Context, externalID string) (*payment.Disbursement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/transfers/"+url.PathEscape(externalID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upi rail request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upi rail status lookup failed: status %d", resp.StatusCode)
	}

	var transfer transferResponse
	if err := json.Unmarshal(respBody, &transfer); err != nil {
		return nil, fmt.Errorf("invalid upi rail response: %w", err)
	}

	return &payment.Disbursement{
		ExternalID: transfer.ID,
		Status:     mapStatus(resp.StatusCode, transfer.Status),
		Reason:     transfer.Message,
	}, nil
}

func mapStatus(statusCode int, railStatus string) payment.DisbursementStatus {
	if statusCode >= http.StatusBadRequest {
		return payment.DisbursementFailed
	}
	switch strings.ToLower(railStatus) {
	case "completed", "success", "successful":
		return payment.DisbursementCompleted
	case "failed", "rejected", "reversed":
		return payment.DisbursementFailed
	default:
		return payment.DisbursementPending
	}
}
