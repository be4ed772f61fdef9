package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/metrics"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/gorm"
)

// Service handles the product catalog and its approval workflow
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput is the input for Create
type CreateInput struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	Category    string
	Price       float64
	Image       string
	FileURLs    models.StringSlice
}

// Create lists a product in PENDING status. Only approved sellers may
// list products.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.Title == "" {
		return nil, apperrors.New(apperrors.KindValidationFailed, "title is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.New(apperrors.KindValidationFailed, "price must be greater than zero")
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

	product := models.Product{
		SellerID:    input.SellerID,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		Image:       input.Image,
		FileURLs:    input.FileURLs,
		Status:      models.ApprovalPending,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create product", err)
	}

	return &product, nil
}

// Get returns a product by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "product not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up product", err)
	}
	return &product, nil
}

// ListFilter narrows List results
type ListFilter struct {
	SellerID uuid.UUID
	Status   models.ApprovalStatus
	Category string
}

// List returns products matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.SellerID != uuid.Nil {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list products", err)
	}
	return products, nil
}

// ListPublic returns approved products for the storefront
func (s *Service) ListPublic(ctx context.Context, category string) ([]models.Product, error) {
	return s.List(ctx, ListFilter{Status: models.ApprovalApproved, Category: category})
}

// Approve moves a PENDING product to APPROVED and stamps approved_at
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	now := time.Now()
	return s.transition(ctx, id, models.ApprovalApproved, map[string]interface{}{
		"status":      models.ApprovalApproved,
		"approved_at": now,
	})
}

// Reject moves a PENDING product to REJECTED
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.transition(ctx, id, models.ApprovalRejected, map[string]interface{}{
		"status": models.ApprovalRejected,
	})
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, target models.ApprovalStatus, updates map[string]interface{}) (*models.Product, error) {
	result := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND status = ?", id, models.ApprovalPending).
		Updates(updates)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to update product status", result.Error)
	}

	if result.RowsAffected == 0 {
		var product models.Product
		if err := s.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.KindNotFound, "product not found")
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up product", err)
		}
		return nil, apperrors.New(apperrors.KindConflictState, "product is not pending review")
	}

	metrics.ApprovalTransitionsTotal.WithLabelValues("product", string(target)).Inc()
	return s.Get(ctx, id)
}
