package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/marketer"
)

// MarketerHandler handles marketer profile requests
type MarketerHandler struct {
	marketerService *marketer.Service
}

// NewMarketerHandler creates a new marketer handler
func NewMarketerHandler(marketerService *marketer.Service) *MarketerHandler {
	return &MarketerHandler{marketerService: marketerService}
}

// MarketerProfileRequest represents the request body for creating or
// updating a marketer profile
type MarketerProfileRequest struct {
	Bio         string             `json:"bio"`
	Specialties models.StringSlice `json:"specialties"`
	Portfolio   string             `json:"portfolio"`
	SocialLinks models.JSON        `json:"social_links"`
	UpiID       string             `json:"upi_id"`
}

// Create registers a marketer profile for the authenticated user
func (h *MarketerHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req MarketerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.marketerService.Create(c.Request.Context(), marketer.CreateInput{
		UserID:      userID,
		Bio:         req.Bio,
		Specialties: req.Specialties,
		Portfolio:   req.Portfolio,
		SocialLinks: req.SocialLinks,
		UpiID:       req.UpiID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// GetMine returns the authenticated user's marketer profile
func (h *MarketerHandler) GetMine(c *gin.Context) {
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

	c.JSON(http.StatusOK, profile)
}

// Update changes the authenticated user's marketer profile
func (h *MarketerHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req MarketerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.marketerService.Update(c.Request.Context(), userID, marketer.CreateInput{
		Bio:         req.Bio,
		Specialties: req.Specialties,
		Portfolio:   req.Portfolio,
		SocialLinks: req.SocialLinks,
		UpiID:       req.UpiID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// List returns marketer profiles, optionally filtered by status
func (h *MarketerHandler) List(c *gin.Context) {
	marketers, err := h.marketerService.List(c.Request.Context(), models.MarketerStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marketers": marketers})
}
