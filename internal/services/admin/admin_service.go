package admin

import (
	"context"
	"math"

	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/gorm"
)

// Service aggregates platform-wide statistics for the admin dashboard
type Service struct {
	db *gorm.DB
}

// NewService creates a new admin service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Stats is the admin dashboard summary
type Stats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalSellers       int64   `json:"total_sellers"`
	PendingSellers     int64   `json:"pending_sellers"`
	TotalProducts      int64   `json:"total_products"`
	PendingProducts    int64   `json:"pending_products"`
	TotalMarketers     int64   `json:"total_marketers"`
	ActiveTasks        int64   `json:"active_tasks"`
	PendingSubmissions int64   `json:"pending_submissions"`
	TotalOrders        int64   `json:"total_orders"`
	TotalRevenue       float64 `json:"total_revenue"`
	ProjectedTax       float64 `json:"projected_tax"`
	CompletedPayouts   int64   `json:"completed_payouts"`
	TotalPaidOut       float64 `json:"total_paid_out"`
}

// GetStats computes the dashboard counters. ProjectedTax is 10% of the
// approved catalog's list prices, rounded to two decimals.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	stats := Stats{}

	counts := []struct {
		dest  *int64
		model interface{}
		where []interface{}
	}{
		{&stats.TotalUsers, &models.User{}, nil},
		{&stats.TotalSellers, &models.Seller{}, nil},
		{&stats.PendingSellers, &models.Seller{}, []interface{}{"status = ?", models.ApprovalPending}},
		{&stats.TotalProducts, &models.Product{}, nil},
		{&stats.PendingProducts, &models.Product{}, []interface{}{"status = ?", models.ApprovalPending}},
		{&stats.TotalMarketers, &models.Marketer{}, nil},
		{&stats.ActiveTasks, &models.RewardTask{}, []interface{}{"status = ?", models.TaskActive}},
		{&stats.PendingSubmissions, &models.ContentSubmission{}, []interface{}{"status = ?", models.SubmissionPending}},
		{&stats.TotalOrders, &models.Order{}, nil},
		{&stats.CompletedPayouts, &models.Payout{}, []interface{}{"status = ?", models.PayoutCompleted}},
	}

	for _, c := range counts {
		query := db.Model(c.model)
		if c.where != nil {
			query = query.Where(c.where[0], c.where[1:]...)
		}
		if err := query.Count(c.dest).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to compute stats", err)
		}
	}

	var revenue float64
	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0)").
		Scan(&revenue).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to compute revenue", err)
	}
	stats.TotalRevenue = math.Round(revenue*100) / 100

	var catalogValue float64
	err = db.Model(&models.Product{}).
		Where("status = ?", models.ApprovalApproved).
		Select("COALESCE(SUM(price), 0)").
		Scan(&catalogValue).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to compute catalog value", err)
	}
	stats.ProjectedTax = math.Round(catalogValue*0.10*100) / 100

	var paidOut float64
	err = db.Model(&models.Payout{}).
		Where("status = ?", models.PayoutCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paidOut).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to compute payout total", err)
	}
	stats.TotalPaidOut = math.Round(paidOut*100) / 100

	return &stats, nil
}
