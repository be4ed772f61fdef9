package marketer

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/gorm"
)

// Service handles marketer profiles
type Service struct {
	db *gorm.DB
}

// NewService creates a new marketer service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput is the input for Create
type CreateInput struct {
	UserID      uuid.UUID
	Bio         string
	Specialties models.StringSlice
	Portfolio   string
	SocialLinks models.JSON
	UpiID       string
}

// Create registers a marketer profile and promotes the user to the
// MARKETER role. One profile per user.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Marketer, error) {
	profile := models.Marketer{
		UserID:      input.UserID,
		Bio:         input.Bio,
		Specialties: input.Specialties,
		Portfolio:   input.Portfolio,
		SocialLinks: input.SocialLinks,
		UpiID:       input.UpiID,
		Status:      models.MarketerActive,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", input.UserID).
			Update("role", models.RoleMarketer).Error; err != nil {
			return apperrors.Wrap(apperrors.KindInternal, "failed to promote user role", err)
		}
		if err := tx.Create(&profile).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return apperrors.New(apperrors.KindConflictState, "marketer profile already exists for this user")
			}
			return apperrors.Wrap(apperrors.KindInternal, "failed to create marketer profile", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

// Get returns a marketer by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Marketer, error) {
	var profile models.Marketer
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "marketer not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up marketer", err)
	}
	return &profile, nil
}

// GetByUser returns the marketer profile owned by a user
func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Marketer, error) {
	var profile models.Marketer
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "marketer not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up marketer", err)
	}
	return &profile, nil
}

// List returns marketers, optionally filtered by status
func (s *Service) List(ctx context.Context, status models.MarketerStatus) ([]models.Marketer, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var marketers []models.Marketer
	if err := query.Find(&marketers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list marketers", err)
	}
	return marketers, nil
}

// Update changes the mutable profile fields
func (s *Service) Update(ctx context.Context, userID uuid.UUID, input CreateInput) (*models.Marketer, error) {
	profile, err := s.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"bio":          input.Bio,
		"specialties":  input.Specialties,
		"portfolio":    input.Portfolio,
		"social_links": input.SocialLinks,
		"upi_id":       input.UpiID,
	}
	if err := s.db.WithContext(ctx).Model(profile).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update marketer profile", err)
	}

	return s.Get(ctx, profile.ID)
}
