package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/marketer"
	"github.com/youbairia/marketplace/internal/services/reward"
	"github.com/youbairia/marketplace/internal/services/seller"
)

// SubmissionHandler handles content submission and review requests
type SubmissionHandler struct {
	rewardService   *reward.Service
	sellerService   *seller.Service
	marketerService *marketer.Service
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(rewardService *reward.Service, sellerService *seller.Service, marketerService *marketer.Service) *SubmissionHandler {
	return &SubmissionHandler{
		rewardService:   rewardService,
		sellerService:   sellerService,
		marketerService: marketerService,
	}
}

// SubmitRequest represents the request body for submitting content
type SubmitRequest struct {
	Content   string             `json:"content" binding:"required"`
	MediaURLs models.StringSlice `json:"media_urls"`
	Notes     string             `json:"notes"`
}

// Submit records the authenticated marketer's content for a task
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.marketerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	submission, err := h.rewardService.Submit(c.Request.Context(), reward.SubmitInput{
		TaskID:     taskID,
		MarketerID: profile.ID,
		Content:    req.Content,
		MediaURLs:  req.MediaURLs,
		Notes:      req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// ListByTask returns a task's submissions to its owning seller
func (h *SubmissionHandler) ListByTask(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	taskID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.requireTaskOwner(c, taskID, userID); err != nil {
		respondError(c, err)
		return
	}

	submissions, err := h.rewardService.ListSubmissionsByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// ListMine returns the authenticated marketer's submissions
func (h *SubmissionHandler) ListMine(c *gin.Context) {
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

	submissions, err := h.rewardService.ListSubmissionsByMarketer(c.Request.Context(), profile.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions})
}

// ReviewRequest represents the request body for reviewing a submission
type ReviewRequest struct {
	Status   string `json:"status" binding:"required"`
	Feedback string `json:"feedback"`
}

// Review settles a pending submission as APPROVED or REJECTED. Only the
// owning seller may review.
func (h *SubmissionHandler) Review(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	submissionID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.rewardService.GetSubmission(c.Request.Context(), submissionID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.requireTaskOwner(c, submission.TaskID, userID); err != nil {
		respondError(c, err)
		return
	}

	settled, err := h.rewardService.Review(c.Request.Context(), reward.ReviewInput{
		SubmissionID: submissionID,
		ReviewerID:   userID,
		Status:       models.SubmissionStatus(req.Status),
		Feedback:     req.Feedback,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, settled)
}

// requireTaskOwner verifies the task belongs to the user's seller profile
func (h *SubmissionHandler) requireTaskOwner(c *gin.Context, taskID, userID uuid.UUID) error {
	profile, err := h.sellerService.GetByUser(c.Request.Context(), userID)
	if err != nil {
		return err
	}
	task, err := h.rewardService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		return err
	}
	if task.SellerID != profile.ID {
		return apperrors.New(apperrors.KindAuthorizationDenied, "task belongs to another seller")
	}
	return nil
}
