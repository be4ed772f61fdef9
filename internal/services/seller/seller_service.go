package seller

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/metrics"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/gorm"
)

// Service handles seller profiles and their approval workflow
type Service struct {
	db *gorm.DB
}

// NewService creates a new seller service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput is the input for Create
type CreateInput struct {
	UserID       uuid.UUID
	ShopName     string
	ShopURL      string
	Description  string
	Category     string
	ContactEmail string
	Website      string
	SocialLinks  models.JSON
}

// Create registers a seller profile in PENDING status. A user gets one
// profile, and shop URLs are unique across sellers.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Seller, error) {
	if input.ShopName == "" || input.ShopURL == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "shop name and shop URL are required")
	}

	var existing models.Seller
	err := s.db.WithContext(ctx).Where("user_id = ?", input.UserID).First(&existing).Error
	if err == nil {
		return nil, apperrors.New(apperrors.KindConflictState, "seller profile already exists for this user")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to check existing profile", err)
	}

	profile := models.Seller{
		UserID:       input.UserID,
		ShopName:     input.ShopName,
		ShopURL:      slug.Make(input.ShopURL),
		Description:  input.Description,
		Category:     input.Category,
		ContactEmail: input.ContactEmail,
		Website:      input.Website,
		SocialLinks:  input.SocialLinks,
		Status:       models.ApprovalPending,
	}

	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.KindConflictState, "shop URL is already taken")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create seller profile", err)
	}

	return &profile, nil
}

// Get returns a seller by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var profile models.Seller
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "seller not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up seller", err)
	}
	return &profile, nil
}

// GetByUser returns the seller profile owned by a user
func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Seller, error) {
	var profile models.Seller
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "seller not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up seller", err)
	}
	return &profile, nil
}

// GetByShopURL returns an approved seller by shop URL for public pages
func (s *Service) GetByShopURL(ctx context.Context, shopURL string) (*models.Seller, error) {
	var profile models.Seller
	err := s.db.WithContext(ctx).
		Where("shop_url = ? AND status = ?", shopURL, models.ApprovalApproved).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "seller not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up seller", err)
	}
	return &profile, nil
}

// List returns sellers, optionally filtered by status
func (s *Service) List(ctx context.Context, status models.ApprovalStatus) ([]models.Seller, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var sellers []models.Seller
	if err := query.Find(&sellers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list sellers", err)
	}
	return sellers, nil
}

// Approve moves a PENDING seller to APPROVED. Only pending profiles
// transition; anything else is reported as a conflict.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	return s.transition(ctx, id, models.ApprovalApproved)
}

// Reject moves a PENDING seller to REJECTED
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	return s.transition(ctx, id, models.ApprovalRejected)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, target models.ApprovalStatus) (*models.Seller, error) {
	result := s.db.WithContext(ctx).Model(&models.Seller{}).
		Where("id = ? AND status = ?", id, models.ApprovalPending).
		Update("status", target)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update seller status", result.Error)
	}

	if result.RowsAffected == 0 {
		// Either the seller does not exist or it already left PENDING
		var profile models.Seller
		if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.KindNotFound, "seller not found")
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up seller", err)
		}
		return nil, apperrors.New(apperrors.KindConflictState, "seller is not pending review")
	}

	metrics.ApprovalTransitionsTotal.WithLabelValues("seller", string(target)).Inc()
	return s.Get(ctx, id)
}
