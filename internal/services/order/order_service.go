package order

import (
	"context"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/metrics"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/payment"
	"github.com/youbairia/marketplace/internal/utils"
	"gorm.io/gorm"
)

// TaxRate is applied to every order subtotal
const TaxRate = 0.10

// Service handles cart pricing, checkout and order creation
type Service struct {
	db   *gorm.DB
	rail payment.CheckoutProvider
}

// NewService creates a new order service
func NewService(db *gorm.DB, rail payment.CheckoutProvider) *Service {
	return &Service{db: db, rail: rail}
}

// CartItem is one product line in a cart
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Quote is a priced cart with tax applied
type Quote struct {
	Lines    []QuoteLine `json:"lines"`
	Subtotal float64     `json:"subtotal"`
	Tax      float64     `json:"tax"`
	Total    float64     `json:"total"`
	Currency string      `json:"currency"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PriceCart loads current prices for the cart items and computes the
// totals. Prices always come from the catalog, never from the client,
// and only approved products can be bought.
func (s *Service) PriceCart(ctx context.Context, items []CartItem) (*Quote, error) {
	if len(items) == 0 {
		return nil, apperrors.New(apperrors.KindValidationFailed, "cart is empty")
	}

	quote := Quote{Currency: "INR"}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.New(apperrors.KindValidationFailed, "quantity must be at least 1")
		}

		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.KindNotFound, "product not found")
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up product", err)
		}
		if product.Status != models.ApprovalApproved {
			return nil, apperrors.New(apperrors.KindPreconditionFailed, "product is not available for purchase")
		}

		quote.Lines = append(quote.Lines, QuoteLine{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  item.Quantity,
		})
		quote.Subtotal += product.Price * float64(item.Quantity)
	}

	quote.Subtotal = round2(quote.Subtotal)
	quote.Tax = round2(quote.Subtotal * TaxRate)
	quote.Total = round2(quote.Subtotal + quote.Tax)
	return &quote, nil
}

// CheckoutResult is what the client needs to complete payment
type CheckoutResult struct {
	Reference   string  `json:"reference"`
	RailOrderID string  `json:"rail_order_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
}

// Checkout prices the cart, registers an order with the checkout rail
// and records a checkout intent to verify the payment against later
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, email string, items []CartItem) (*CheckoutResult, error) {
	quote, err := s.PriceCart(ctx, items)
	if err != nil {
		return nil, err
	}

	reference := utils.GenerateReference("ORD")

	railOrder, err := s.rail.CreateOrder(ctx, quote.Total, quote.Currency, reference)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindExternalPaymentFailure, "failed to register order with payment rail", err)
	}

	snapshot := make([]interface{}, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		snapshot = append(snapshot, map[string]interface{}{
			"product_id": line.ProductID.String(),
			"title":      line.Title,
			"price":      line.Price,
			"quantity":   line.Quantity,
		})
	}

	intent := models.CheckoutIntent{
		UserID:        userID,
		Reference:     reference,
		RailOrderID:   railOrder.RailOrderID,
		Amount:        quote.Total,
		Currency:      quote.Currency,
		ItemsSnapshot: models.JSON{"lines": snapshot, "subtotal": quote.Subtotal, "tax": quote.Tax},
		CustomerEmail: email,
	}
	if err := s.db.WithContext(ctx).Create(&intent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to record checkout intent", err)
	}

	return &CheckoutResult{
		Reference:   reference,
		RailOrderID: railOrder.RailOrderID,
		Amount:      quote.Total,
		Currency:    quote.Currency,
		KeyID:       railOrder.KeyID,
	}, nil
}

// VerifyInput carries the rail callback fields for VerifyPayment
type VerifyInput struct {
	RailOrderID string
	PaymentID   string
	Signature   string
}

// VerifyPayment checks the rail signature for a completed checkout and
// creates the order. The checkout intent is consumed atomically so a
// replayed callback cannot create a second order.
func (s *Service) VerifyPayment(ctx context.Context, userID uuid.UUID, input VerifyInput) (*models.Order, error) {
	if input.RailOrderID == "" || input.PaymentID == "" || input.Signature == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "order id, payment id and signature are required")
	}

	if !s.rail.VerifySignature(input.RailOrderID, input.PaymentID, input.Signature) {
		return nil, apperrors.New(apperrors.KindExternalPaymentFailure, "payment signature verification failed")
	}

	var intent models.CheckoutIntent
	err := s.db.WithContext(ctx).
		Where("rail_order_id = ? AND user_id = ?", input.RailOrderID, userID).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "checkout not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up checkout", err)
	}

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CheckoutIntent{}).
			Where("id = ? AND consumed = false", intent.ID).
			Update("consumed", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.New(apperrors.KindConflictState, "payment has already been processed")
		}

		lines, subtotal, tax := intentLines(intent)

		order = models.Order{
			UserID:            intent.UserID,
			Subtotal:          subtotal,
			Tax:               tax,
			Total:             intent.Amount,
			Currency:          intent.Currency,
			PaymentReference:  intent.Reference,
			ExternalPaymentID: input.PaymentID,
			Status:            models.OrderPaid,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			line.OrderID = order.ID
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create order", err)
	}

	metrics.OrdersTotal.Inc()
	return s.Get(ctx, order.ID)
}

// Get returns an order with its items
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "order not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up order", err)
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list orders", err)
	}
	return orders, nil
}

// intentLines rebuilds order items from the intent's priced snapshot
func intentLines(intent models.CheckoutIntent) ([]models.OrderItem, float64, float64) {
	var items []models.OrderItem
	var subtotal, tax float64

	if v, ok := intent.ItemsSnapshot["subtotal"].(float64); ok {
		subtotal = v
	}
	if v, ok := intent.ItemsSnapshot["tax"].(float64); ok {
		tax = v
	}

	rawLines, _ := intent.ItemsSnapshot["lines"].([]interface{})
	for _, raw := range rawLines {
		line, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		item := models.OrderItem{Quantity: 1}
		if v, ok := line["product_id"].(string); ok {
			if id, err := uuid.Parse(v); err == nil {
				item.ProductID = id
			}
		}
		if v, ok := line["title"].(string); ok {
			item.Title = v
		}
		if v, ok := line["price"].(float64); ok {
			item.Price = v
		}
		if v, ok := line["quantity"].(float64); ok {
			item.Quantity = int(v)
		}
		items = append(items, item)
	}

	return items, subtotal, tax
}
