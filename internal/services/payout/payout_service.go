package payout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/database"
	"github.com/youbairia/marketplace/internal/metrics"
	"github.com/youbairia/marketplace/internal/models"
	"github.com/youbairia/marketplace/internal/services/payment"
	"gorm.io/gorm"
)

// Enqueuer schedules a later status check for a payout stuck in
// PROCESSING
type Enqueuer interface {
	EnqueuePayoutStatusCheck(ctx context.Context, payoutID uuid.UUID) error
}

// Service handles UPI payouts for approved submissions
type Service struct {
	db       *gorm.DB
	rail     payment.DisbursementProvider
	enqueuer Enqueuer
}

// NewService creates a new payout service
func NewService(db *gorm.DB, rail payment.DisbursementProvider, enqueuer Enqueuer) *Service {
	return &Service{db: db, rail: rail, enqueuer: enqueuer}
}

// Initiate pays out an approved submission to its marketer.
//
// The payout row is created in PROCESSING before the rail is called, so
// the unique submission index blocks concurrent double payouts. The rail
// call happens outside the transaction; its outcome settles the row to
// COMPLETED or FAILED. A transport failure leaves it PROCESSING for the
// reconciliation sweep.
func (s *Service) Initiate(ctx context.Context, submissionID, initiatedBy uuid.UUID) (*models.Payout, error) {
	var submission models.ContentSubmission
	if err := s.db.WithContext(ctx).First(&submission, "id = ?", submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "submission not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up submission", err)
	}
	if submission.Status != models.SubmissionApproved {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "submission is not approved")
	}

	var task models.RewardTask
	if err := s.db.WithContext(ctx).First(&task, "id = ?", submission.TaskID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up task", err)
	}

	var marketer models.Marketer
	if err := s.db.WithContext(ctx).First(&marketer, "id = ?", submission.MarketerID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up marketer", err)
	}
	if marketer.UpiID == "" {
		return nil, apperrors.New(apperrors.KindPreconditionFailed, "marketer has no UPI address on file")
	}

	payout := models.Payout{
		SubmissionID:  submissionID,
		MarketerID:    submission.MarketerID,
		InitiatedBy:   initiatedBy,
		Amount:        task.Budget,
		Currency:      "INR",
		PaymentMethod: "UPI",
		UpiID:         marketer.UpiID,
		Status:        models.PayoutProcessing,
	}

	if err := s.db.WithContext(ctx).Create(&payout).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.New(apperrors.KindConflictState, "payout already exists for this submission")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to create payout", err)
	}

	disbursement, err := s.rail.Disburse(ctx, marketer.UpiID, payout.Amount, payout.Currency, payout.ID.String())
	if err != nil {
		// Transport failure: the transfer may or may not have gone
		// through, so the payout stays PROCESSING until reconciled
		log.Printf("payout %s: rail unreachable: %v", payout.ID, err)
		s.scheduleStatusCheck(ctx, payout.ID)
		return &payout, nil
	}

	return s.settle(ctx, &payout, disbursement)
}

// CheckStatus queries the rail for a PROCESSING payout and settles it
// when the rail reports a final state
func (s *Service) CheckStatus(ctx context.Context, payoutID uuid.UUID) (*models.Payout, error) {
	payout, err := s.Get(ctx, payoutID)
	if err != nil {
		return nil, err
	}
	if payout.Status != models.PayoutProcessing {
		return payout, nil
	}

	if payout.ExternalPaymentID == "" {
		// The rail never acknowledged the transfer, nothing to query
		return payout, nil
	}

	disbursement, err := s.rail.Status(ctx, payout.ExternalPaymentID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindExternalPaymentFailure, "rail status lookup failed", err)
	}

	return s.settle(ctx, payout, disbursement)
}

// ReconcileStuck finds payouts stuck in PROCESSING longer than maxAge
// and schedules status checks for them
func (s *Service) ReconcileStuck(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	var stuck []models.Payout
	err := s.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", models.PayoutProcessing, cutoff).
		Find(&stuck).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInternal, "failed to list stuck payouts", err)
	}

	for _, p := range stuck {
		s.scheduleStatusCheck(ctx, p.ID)
	}
	return len(stuck), nil
}

// Get returns a payout by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	var payout models.Payout
	if err := s.db.WithContext(ctx).First(&payout, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "payout not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to look up payout", err)
	}
	return &payout, nil
}

// ListFilter narrows List results
type ListFilter struct {
	MarketerID uuid.UUID
	Status     models.PayoutStatus
}

// List returns payouts matching the filter
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Payout, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if filter.MarketerID != uuid.Nil {
		query = query.Where("marketer_id = ?", filter.MarketerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var payouts []models.Payout
	if err := query.Find(&payouts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to list payouts", err)
	}
	return payouts, nil
}

// settle applies the rail's verdict to a PROCESSING payout
func (s *Service) settle(ctx context.Context, payout *models.Payout, disbursement *payment.Disbursement) (*models.Payout, error) {
	switch disbursement.Status {
	case payment.DisbursementCompleted:
		now := time.Now()
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			result := tx.Model(&models.Payout{}).
				Where("id = ? AND status = ?", payout.ID, models.PayoutProcessing).
				Updates(map[string]interface{}{
					"status":              models.PayoutCompleted,
					"external_payment_id": disbursement.ExternalID,
					"processed_at":        now,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				// Already settled by a concurrent check
				return nil
			}

			return tx.Model(&models.Marketer{}).
				Where("id = ?", payout.MarketerID).
				Updates(map[string]interface{}{
					"total_earnings":  gorm.Expr("total_earnings + ?", payout.Amount),
					"completed_tasks": gorm.Expr("completed_tasks + ?", 1),
				}).Error
		})
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to record completed payout", err)
		}
		metrics.PayoutsTotal.WithLabelValues(string(models.PayoutCompleted)).Inc()
		metrics.PayoutAmount.Observe(payout.Amount)

	case payment.DisbursementFailed:
		err := s.db.WithContext(ctx).Model(&models.Payout{}).
			Where("id = ? AND status = ?", payout.ID, models.PayoutProcessing).
			Updates(map[string]interface{}{
				"status":              models.PayoutFailed,
				"external_payment_id": disbursement.ExternalID,
				"failure_reason":      disbursement.Reason,
			}).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to record failed payout", err)
		}
		metrics.PayoutsTotal.WithLabelValues(string(models.PayoutFailed)).Inc()

	default:
		// Still pending rail-side: remember the external id and check later
		if disbursement.ExternalID != "" {
			err := s.db.WithContext(ctx).Model(&models.Payout{}).
				Where("id = ?", payout.ID).
				Update("external_payment_id", disbursement.ExternalID).Error
			if err != nil {
				return nil, apperrors.Wrap(apperrors.KindInternal, "failed to record rail reference", err)
			}
		}
		s.scheduleStatusCheck(ctx, payout.ID)
	}

	return s.Get(ctx, payout.ID)
}

func (s *Service) scheduleStatusCheck(ctx context.Context, payoutID uuid.UUID) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueuePayoutStatusCheck(ctx, payoutID); err != nil {
		log.Printf("payout %s: failed to enqueue status check: %v", payoutID, err)
	}
}
