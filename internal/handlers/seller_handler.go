package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/seller"
)

// SellerHandler handles seller profile and approval requests
type SellerHandler struct {
	sellerService *seller.Service
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(sellerService *seller.Service) *SellerHandler {
	return &SellerHandler{sellerService: sellerService}
}

// CreateSellerRequest represents the request body for seller registration
type CreateSellerRequest struct {
	ShopName     string      `json:"shop_name" binding:"required"`
	ShopURL      string      `json:"shop_url" binding:"required"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	ContactEmail string      `json:"contact_email"`
	Website      string      `json:"website"`
	SocialLinks  models.JSON `json:"social_links"`
}

// Create registers a seller profile for the authenticated user
func (h *SellerHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req CreateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.sellerService.Create(c.Request.Context(), seller.CreateInput{
		UserID:       userID,
		ShopName:     req.ShopName,
		ShopURL:      req.ShopURL,
		Description:  req.Description,
		Category:     req.Category,
		ContactEmail: req.ContactEmail,
		Website:      req.Website,
		SocialLinks:  req.SocialLinks,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetMine returns the authenticated user's seller profile
func (h *SellerHandler) GetMine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetByShopURL returns an approved seller's public profile
func (h *SellerHandler) GetByShopURL(c *gin.Context) {
	profile, err := h.sellerService.GetByShopURL(c.Request.Context(), c.Param("shopURL"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// List returns sellers for the admin dashboard, optionally filtered by
// status
func (h *SellerHandler) List(c *gin.Context) {
	status := models.ApprovalStatus(c.Query("status"))

	sellers, err := h.sellerService.List(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sellers": sellers})
}

// Approve approves a pending seller
func (h *SellerHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.sellerService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Reject rejects a pending seller
func (h *SellerHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.sellerService.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
