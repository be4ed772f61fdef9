package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/reward"
	"github.com/youbairia/marketplace/internal/services/seller"
)

// RewardHandler handles reward task requests
type RewardHandler struct {
	rewardService *reward.Service
	sellerService *seller.Service
}

// NewRewardHandler creates a new reward handler
func NewRewardHandler(rewardService *reward.Service, sellerService *seller.Service) *RewardHandler {
	return &RewardHandler{rewardService: rewardService, sellerService: sellerService}
}

// CreateTaskRequest represents the request body for opening a task
type CreateTaskRequest struct {
	Title          string    `json:"title" binding:"required"`
	Description    string    `json:"description"`
	ProductDetails string    `json:"product_details"`
	ContentType    string    `json:"content_type"`
	Requirements   string    `json:"requirements"`
	Budget         float64   `json:"budget" binding:"required,gt=0"`
	Deadline       time.Time `json:"deadline" binding:"required"`
	MaxSubmissions int       `json:"max_submissions"`
}

// CreateTask opens a reward task under the authenticated seller
func (h *RewardHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.rewardService.CreateTask(c.Request.Context(), reward.CreateTaskInput{
		SellerID:       profile.ID,
		Title:          req.Title,
		Description:    req.Description,
		ProductDetails: req.ProductDetails,
		ContentType:    req.ContentType,
		Requirements:   req.Requirements,
		Budget:         req.Budget,
		Deadline:       req.Deadline,
		MaxSubmissions: req.MaxSubmissions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListOpenTasks returns active tasks still accepting submissions
func (h *RewardHandler) ListOpenTasks(c *gin.Context) {
	minBudget, _ := strconv.ParseFloat(c.Query("min_budget"), 64)
	maxBudget, _ := strconv.ParseFloat(c.Query("max_budget"), 64)

	tasks, err := h.rewardService.ListTasks(c.Request.Context(), reward.TaskFilter{
		ContentType: c.Query("content_type"),
		MinBudget:   minBudget,
		MaxBudget:   maxBudget,
		OpenOnly:    true,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask returns a single task
func (h *RewardHandler) GetTask(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.rewardService.GetTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// ListMyTasks returns the authenticated seller's tasks
func (h *RewardHandler) ListMyTasks(c *gin.Context) {
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

	tasks, err := h.rewardService.ListTasks(c.Request.Context(), reward.TaskFilter{
		SellerID: profile.ID,
		Status:   models.TaskStatus(c.Query("status")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// UpdateTaskRequest represents the request body for editing a task
type UpdateTaskRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	ProductDetails *string    `json:"product_details"`
	ContentType    *string    `json:"content_type"`
	Requirements   *string    `json:"requirements"`
	Budget         *float64   `json:"budget"`
	Deadline       *time.Time `json:"deadline"`
	MaxSubmissions *int       `json:"max_submissions"`
}

// UpdateTask edits a task owned by the authenticated seller
func (h *RewardHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.rewardService.UpdateTask(c.Request.Context(), id, profile.ID, reward.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		ProductDetails: req.ProductDetails,
		ContentType:    req.ContentType,
		Requirements:   req.Requirements,
		Budget:         req.Budget,
		Deadline:       req.Deadline,
		MaxSubmissions: req.MaxSubmissions,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task owned by the authenticated seller
func (h *RewardHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.rewardService.DeleteTask(c.Request.Context(), id, profile.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// UpdateTaskStatusRequest represents the request body for pausing,
// resuming or completing a task
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTaskStatus moves a task between ACTIVE, PAUSED and COMPLETED
func (h *RewardHandler) UpdateTaskStatus(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.rewardService.UpdateTaskStatus(c.Request.Context(), id, profile.ID, models.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}
