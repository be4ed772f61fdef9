package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/order"
	"github.com/youbairia/marketplace/internal/services/payment/providers/upi"
	"gorm.io/gorm"
)

// OrderHandler handles cart and order requests
type OrderHandler struct {
	orderService *order.Service
	db           *gorm.DB
	upiCfg       config.UPIConfig
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, db *gorm.DB, upiCfg config.UPIConfig) *OrderHandler {
	return &OrderHandler{orderService: orderService, db: db, upiCfg: upiCfg}
}

// CartRequest represents the request body for pricing or checking out a
// cart
type CartRequest struct {
	Items []order.CartItem `json:"items" binding:"required,min=1"`
}

// Quote prices a cart with tax applied
func (h *OrderHandler) Quote(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.orderService.PriceCart(c.Request.Context(), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Checkout registers the cart with the payment rail
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), userID, currentEmail(c), req.Items)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// UpiLink returns a upi:// deep link for a pending checkout so the
// customer can pay from a UPI app
func (h *OrderHandler) UpiLink(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	reference := c.Param("reference")

	var intent models.CheckoutIntent
	err := h.db.WithContext(c.Request.Context()).
		Where("reference = ? AND user_id = ?", reference, userID).
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "checkout not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		return
	}
	if intent.Consumed {
		c.JSON(http.StatusConflict, gin.H{"error": "payment has already been processed"})
		return
	}

	uri := upi.BuildURI(h.upiCfg.PayeeVPA, h.upiCfg.PayeeName, intent.Amount, "Marketplace order", intent.Reference)
	c.JSON(http.StatusOK, gin.H{"upi_uri": uri})
}

// VerifyPaymentRequest represents the rail callback fields
type VerifyPaymentRequest struct {
	RailOrderID string `json:"razorpay_order_id" binding:"required"`
	PaymentID   string `json:"razorpay_payment_id" binding:"required"`
	Signature   string `json:"razorpay_signature" binding:"required"`
}

// VerifyPayment validates the rail signature and creates the order
func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.orderService.VerifyPayment(c.Request.Context(), userID, order.VerifyInput{
		RailOrderID: req.RailOrderID,
		PaymentID:   req.PaymentID,
		Signature:   req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListMine returns the authenticated user's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	orders, err := h.orderService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Get returns one of the authenticated user's orders
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if result.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	c.JSON(http.StatusOK, result)
}
