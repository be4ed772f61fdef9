package reward

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/metrics"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/gorm"
)

// Service handles reward tasks, content submissions and their review
type Service struct {
	db *gorm.DB
}

// NewService creates a new reward service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateTaskInput is the input for CreateTask
type CreateTaskInput struct {
	SellerID       uuid.UUID
	Title          string
	Description    string
	ProductDetails string
	ContentType    string
	Requirements   string
	Budget         float64
	Deadline       time.Time
	MaxSubmissions int
}

// CreateTask opens a reward task for an approved seller
func (s *Service) CreateTask(ctx context.Context, input CreateTaskInput) (*models.RewardTask, error) {
	if input.Title == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "title is required")
	}
	if input.Budget <= 0 {
		return nil, apperrors.New(apperrors.KindValidationFailed, "budget must be greater than zero")
	}
	if !input.Deadline.After(time.Now()) {
		return nil, apperrors.New(apperrors.KindValidationFailed, "deadline must be in the future")
	}
	if input.MaxSubmissions < 0 {
		return nil, apperrors.New(apperrors.KindValidationFailed, "max submissions cannot be negative")
	}
	if input.MaxSubmissions == 0 {
		input.MaxSubmissions = 10
	}

	var seller models.Seller
	if err := s.db.WithContext(ctx).First(&seller, "id = ?", input.SellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "seller not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up seller", err)
	}
	if seller.Status != models.ApprovalApproved {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "seller is not approved")
	}

	task := models.RewardTask{
		SellerID:       input.SellerID,
		Title:          input.Title,
		Description:    input.Description,
		ProductDetails: input.ProductDetails,
		ContentType:    input.ContentType,
		Requirements:   input.Requirements,
		Budget:         input.Budget,
		Deadline:       input.Deadline,
		MaxSubmissions: input.MaxSubmissions,
		Status:         models.TaskActive,
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create task", err)
	}

	return &task, nil
}

// GetTask returns a task by id
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*models.RewardTask, error) {
	var task models.RewardTask
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "task not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up task", err)
	}
	return &task, nil
}

// TaskFilter narrows ListTasks results
type TaskFilter struct {
	SellerID    uuid.UUID
	Status      models.TaskStatus
	ContentType string
	MinBudget   float64
	MaxBudget   float64
	OpenOnly    bool
}

// ListTasks returns tasks matching the filter. OpenOnly restricts to
// active tasks whose deadline has not passed.
func (s *Service) ListTasks(ctx context.Context, filter TaskFilter) ([]models.RewardTask, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.ContentType != "" {
		query = query.Where("content_type = ?", filter.ContentType)
	}
	if filter.MinBudget > 0 {
		query = query.Where("budget >= ?", filter.MinBudget)
	}
	if filter.MaxBudget > 0 {
		query = query.Where("budget <= ?", filter.MaxBudget)
	}
	if filter.OpenOnly {
		query = query.Where("status = ? AND deadline > ?", models.TaskActive, time.Now())
	}

	var tasks []models.RewardTask
	if err := query.Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTaskStatus moves a task between ACTIVE, PAUSED and COMPLETED
func (s *Service) UpdateTaskStatus(ctx context.Context, id uuid.UUID, sellerID uuid.UUID, status models.TaskStatus) (*models.RewardTask, error) {
	switch status {
	case models.TaskActive, models.TaskPaused, models.TaskCompleted:
	default:
		return nil, apperrors.New(apperrors.KindValidationFailed, "invalid task status")
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.SellerID != sellerID {
		return nil, apperrors.New(apperrors.KindAuthorizationDenied, "task belongs to another seller")
	}

	if err := s.db.WithContext(ctx).Model(task).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update task status", err)
	}
	task.Status = status
	return task, nil
}

// UpdateTaskInput carries the editable task fields. Nil pointers leave
// the field untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	ProductDetails *string
	ContentType    *string
	Requirements   *string
	Budget         *float64
	Deadline       *time.Time
	MaxSubmissions *int
}

// UpdateTask edits a task owned by the seller
func (s *Service) UpdateTask(ctx context.Context, id uuid.UUID, sellerID uuid.UUID, input UpdateTaskInput) (*models.RewardTask, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.SellerID != sellerID {
		return nil, apperrors.New(apperrors.KindAuthorizationDenied, "task belongs to another seller")
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.New(apperrors.KindValidationFailed, "title is required")
		}
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ProductDetails != nil {
		updates["product_details"] = *input.ProductDetails
	}
	if input.ContentType != nil {
		updates["content_type"] = *input.ContentType
	}
	if input.Requirements != nil {
		updates["requirements"] = *input.Requirements
	}
	if input.Budget != nil {
		if *input.Budget <= 0 {
			return nil, apperrors.New(apperrors.KindValidationFailed, "budget must be greater than zero")
		}
		updates["budget"] = *input.Budget
	}
	if input.Deadline != nil {
		if !input.Deadline.After(time.Now()) {
			return nil, apperrors.New(apperrors.KindValidationFailed, "deadline must be in the future")
		}
		updates["deadline"] = *input.Deadline
	}
	if input.MaxSubmissions != nil {
		if *input.MaxSubmissions < task.TotalSubmissions {
			return nil, apperrors.New(apperrors.KindValidationFailed, "max submissions cannot be below the current submission count")
		}
		updates["max_submissions"] = *input.MaxSubmissions
	}
	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update task", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task owned by the seller. Tasks with submissions
// cannot be deleted; pause or complete them instead.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID, sellerID uuid.UUID) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task.SellerID != sellerID {
		return apperrors.New(apperrors.KindAuthorizationDenied, "task belongs to another seller")
	}
	if task.TotalSubmissions > 0 {
		return apperrors.New(apperrors.KindPreconditionFailed, "task with submissions cannot be deleted")
	}

	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, "failed to delete task", err)
	}
	return nil
}

// SubmitInput is the input for Submit
type SubmitInput struct {
	TaskID     uuid.UUID
	MarketerID uuid.UUID
	Content    string
	MediaURLs  models.StringSlice
	Notes      string
}

// Submit records a content submission against a task. Each precondition
// fails with its own error so the caller knows what went wrong. The
// capacity check is re-run atomically inside the transaction, so a full
// task never overshoots its limit under concurrent submissions.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*models.ContentSubmission, error) {
	if input.Content == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "content is required")
	}

	task, err := s.GetTask(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskActive {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "task is not accepting submissions")
	}
	if !task.Deadline.After(time.Now()) {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "task deadline has passed")
	}

	var count int64
	err = s.db.WithContext(ctx).Model(&models.ContentSubmission{}).
		Where("task_id = ? AND marketer_id = ?", input.TaskID, input.MarketerID).
		Count(&count).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to check existing submission", err)
	}
	if count > 0 {
		return nil, apperrors.New(apperrors.KindConflictState, "already submitted to this task")
	}

	if task.TotalSubmissions >= task.MaxSubmissions {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "task has reached its submission limit")
	}

	submission := models.ContentSubmission{
		TaskID:      input.TaskID,
		MarketerID:  input.MarketerID,
		Content:     input.Content,
		MediaURLs:   input.MediaURLs,
		Notes:       input.Notes,
		Status:      models.SubmissionPending,
		SubmittedAt: time.Now(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guarded increment is the authoritative capacity gate
		result := tx.Model(&models.RewardTask{}).
			Where("id = ? AND total_submissions < max_submissions", input.TaskID).
			Update("total_submissions", gorm.Expr("total_submissions + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.New(apperrors.KindPreconditionFailed, "task has reached its submission limit")
		}

		return tx.Create(&submission).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.KindConflictState, "already submitted to this task")
		}
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create submission", err)
	}

	return &submission, nil
}

// GetSubmission returns a submission by id
func (s *Service) GetSubmission(ctx context.Context, id uuid.UUID) (*models.ContentSubmission, error) {
	var submission models.ContentSubmission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "submission not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up submission", err)
	}
	return &submission, nil
}

// ListSubmissionsByTask returns all submissions for a task
func (s *Service) ListSubmissionsByTask(ctx context.Context, taskID uuid.UUID) ([]models.ContentSubmission, error) {
	var submissions []models.ContentSubmission
	err := s.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list submissions", err)
	}
	return submissions, nil
}

// ListSubmissionsByMarketer returns all submissions by a marketer
func (s *Service) ListSubmissionsByMarketer(ctx context.Context, marketerID uuid.UUID) ([]models.ContentSubmission, error) {
	var submissions []models.ContentSubmission
	err := s.db.WithContext(ctx).
		Where("marketer_id = ?", marketerID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list submissions", err)
	}
	return submissions, nil
}

// ReviewInput is the input for Review
type ReviewInput struct {
	SubmissionID uuid.UUID
	ReviewerID   uuid.UUID
	Status       models.SubmissionStatus
	Feedback     string
}

// Review settles a pending submission as APPROVED or REJECTED. Only the
// first review wins; repeating a review with the same outcome returns
// the settled submission unchanged, a different outcome is a conflict.
func (s *Service) Review(ctx context.Context, input ReviewInput) (*models.ContentSubmission, error) {
	if input.Status != models.SubmissionApproved && input.Status != models.SubmissionRejected {
		return nil, apperrors.New(apperrors.KindValidationFailed, "review status must be APPROVED or REJECTED")
	}

	now := time.Now()
	var settled models.ContentSubmission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ContentSubmission{}).
			Where("id = ? AND status = ?", input.SubmissionID, models.SubmissionPending).
			Updates(map[string]interface{}{
				"status":      input.Status,
				"feedback":    input.Feedback,
				"reviewed_at": now,
				"reviewed_by": input.ReviewerID,
			})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			if err := tx.First(&settled, "id = ?", input.SubmissionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.New(apperrors.KindNotFound, "submission not found")
				}
				return err
			}
			if settled.Status == input.Status {
				// Idempotent repeat of the same verdict
				return nil
			}
			return apperrors.New(apperrors.KindConflictState, "submission has already been reviewed")
		}

		if input.Status == models.SubmissionApproved {
			var submission models.ContentSubmission
			if err := tx.First(&submission, "id = ?", input.SubmissionID).Error; err != nil {
				return err
			}
			err := tx.Model(&models.RewardTask{}).
				Where("id = ?", submission.TaskID).
				Update("approved_submissions", gorm.Expr("approved_submissions + 1")).Error
			if err != nil {
				return err
			}
			settled = submission
			return nil
		}

		return tx.First(&settled, "id = ?", input.SubmissionID).Error
	})
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to review submission", err)
	}

	metrics.ApprovalTransitionsTotal.WithLabelValues("submission", string(input.Status)).Inc()
	return &settled, nil
}
