package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/marketer"
	"github.com/youbairia/marketplace/internal/services/payout"
)

// PayoutHandler handles payout requests
type PayoutHandler struct {
	payoutService   *payout.Service
	marketerService *marketer.Service
}

// NewPayoutHandler creates a new payout handler
func NewPayoutHandler(payoutService *payout.Service, marketerService *marketer.Service) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService, marketerService: marketerService}
}

// InitiatePayoutRequest represents the request body for paying out a
// submission
type InitiatePayoutRequest struct {
	SubmissionID string `json:"submission_id" binding:"required,uuid"`
}

// Initiate pays out an approved submission. Admin only.
func (h *PayoutHandler) Initiate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req InitiatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submissionID, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission_id"})
		return
	}

	result, err := h.payoutService.Initiate(c.Request.Context(), submissionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Get returns a payout by id. Admin only.
func (h *PayoutHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.payoutService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// List returns payouts for the admin dashboard, optionally filtered by
// status
func (h *PayoutHandler) List(c *gin.Context) {
	payouts, err := h.payoutService.List(c.Request.Context(), payout.ListFilter{
		Status: models.PayoutStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// ListMine returns the authenticated marketer's payouts
func (h *PayoutHandler) ListMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	profile, err := h.marketerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	payouts, err := h.payoutService.List(c.Request.Context(), payout.ListFilter{
		MarketerID: profile.ID,
		Status:     models.PayoutStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}
