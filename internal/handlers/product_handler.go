package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/catalog"
	"github.com/youbairia/marketplace/internal/services/seller"
)

// ProductHandler handles product catalog requests
type ProductHandler struct {
	catalogService *catalog.Service
	sellerService  *seller.Service
}

// NewProductHandler creates a new product handler
func NewProductHandler(catalogService *catalog.Service, sellerService *seller.Service) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, sellerService: sellerService}
}

// CreateProductRequest represents the request body for listing a product
type CreateProductRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Price       float64            `json:"price" binding:"required,gt=0"`
	Image       string             `json:"image"`
	FileURLs    models.StringSlice `json:"file_urls"`
}

// Create lists a product under the authenticated user's shop
func (h *ProductHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := h.catalogService.Create(c.Request.Context(), catalog.CreateInput{
		SellerID:    profile.ID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		FileURLs:    req.FileURLs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// ListPublic returns approved products for the storefront
func (h *ProductHandler) ListPublic(c *gin.Context) {
	products, err := h.catalogService.ListPublic(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Get returns a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListMine returns the authenticated seller's products in any status
func (h *ProductHandler) ListMine(c *gin.Context) {
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

	products, err := h.catalogService.List(c.Request.Context(), catalog.ListFilter{
		SellerID: profile.ID,
		Status:   models.ApprovalStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListAll returns products for the admin dashboard
func (h *ProductHandler) ListAll(c *gin.Context) {
	products, err := h.catalogService.List(c.Request.Context(), catalog.ListFilter{
		Status:   models.ApprovalStatus(c.Query("status")),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// Approve approves a pending product
func (h *ProductHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Reject rejects a pending product
func (h *ProductHandler) Reject(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalogService.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}
