package payout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/youbairia/marketplace/internal/apperrors"
	"github.com/youbairia/marketplace/internal/services/payment"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// stubRail fakes the disbursement provider
type stubRail struct {
	status       *payment.Disbursement
	statusErr    error
	statusHits   int
	disburseHits int
}

func (s *stubRail) Disburse(ctx context.Context, upiID string, amount float64, currency, reference string) (*payment.Disbursement, error) {
	s.disburseHits++
	return nil, errors.New("not used")
}

func (s *stubRail) Status(ctx context.Context, externalID string) (*payment.Disbursement, error) {
	s.statusHits++
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return s.status, nil
}

// stubEnqueuer records scheduled status checks
type stubEnqueuer struct {
	scheduled []uuid.UUID
}

func (s *stubEnqueuer) EnqueuePayoutStatusCheck(ctx context.Context, payoutID uuid.UUID) error {
	s.scheduled = append(s.scheduled, payoutID)
	return nil
}

func payoutRow(id, marketerID uuid.UUID, status, externalID string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "submission_id", "marketer_id", "amount", "currency", "status", "external_payment_id", "upi_id"}).
		AddRow(id.String(), uuid.New().String(), marketerID.String(), 250.0, "INR", status, externalID, "creator@upi")
}

func TestInitiatePreconditions(t *testing.T) {
	t.Run("unknown submission", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db, &stubRail{}, &stubEnqueuer{})

		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Initiate(context.Background(), uuid.New(), uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("submission not approved", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db, &stubRail{}, &stubEnqueuer{})

		submissionID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "marketer_id", "status"}).
				AddRow(submissionID.String(), uuid.New().String(), uuid.New().String(), "PENDING"))

		_, err := svc.Initiate(context.Background(), submissionID, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	})

	t.Run("marketer without UPI address", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db, &stubRail{}, &stubEnqueuer{})

		submissionID := uuid.New()
		taskID := uuid.New()
		marketerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "marketer_id", "status"}).
				AddRow(submissionID.String(), taskID.String(), marketerID.String(), "APPROVED"))
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "budget"}).AddRow(taskID.String(), 250.0))
		mock.ExpectQuery(`SELECT \* FROM "marketers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upi_id"}).AddRow(marketerID.String(), ""))

		_, err := svc.Initiate(context.Background(), submissionID, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second payout for the same submission conflicts", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{}
		svc := NewService(db, rail, &stubEnqueuer{})

		submissionID := uuid.New()
		taskID := uuid.New()
		marketerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "marketer_id", "status"}).
				AddRow(submissionID.String(), taskID.String(), marketerID.String(), "APPROVED"))
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "budget"}).AddRow(taskID.String(), 250.0))
		mock.ExpectQuery(`SELECT \* FROM "marketers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "upi_id"}).AddRow(marketerID.String(), "creator@upi"))
		mock.ExpectQuery(`INSERT INTO "payouts"`).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_payouts_submission_id"`))

		_, err := svc.Initiate(context.Background(), submissionID, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
		assert.Zero(t, rail.disburseHits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCheckStatus(t *testing.T) {
	payoutID := uuid.New()
	marketerID := uuid.New()

	t.Run("completed transfer settles the payout and credits the marketer", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{status: &payment.Disbursement{ExternalID: "trf_1", Status: payment.DisbursementCompleted}}
		enq := &stubEnqueuer{}
		svc := NewService(db, rail, enq)

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", "trf_1"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "payouts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "marketers"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "COMPLETED", "trf_1"))

		payout, err := svc.CheckStatus(context.Background(), payoutID)

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", string(payout.Status))
		assert.Empty(t, enq.scheduled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("declined transfer settles the payout as failed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{status: &payment.Disbursement{ExternalID: "trf_1", Status: payment.DisbursementFailed, Reason: "invalid UPI address"}}
		svc := NewService(db, rail, &stubEnqueuer{})

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", "trf_1"))
		mock.ExpectExec(`UPDATE "payouts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "FAILED", "trf_1"))

		payout, err := svc.CheckStatus(context.Background(), payoutID)

		require.NoError(t, err)
		assert.Equal(t, "FAILED", string(payout.Status))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pending transfer schedules another check", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{status: &payment.Disbursement{ExternalID: "trf_1", Status: payment.DisbursementPending}}
		enq := &stubEnqueuer{}
		svc := NewService(db, rail, enq)

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", "trf_1"))
		mock.ExpectExec(`UPDATE "payouts"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", "trf_1"))

		payout, err := svc.CheckStatus(context.Background(), payoutID)

		require.NoError(t, err)
		assert.Equal(t, "PROCESSING", string(payout.Status))
		assert.Equal(t, []uuid.UUID{payoutID}, enq.scheduled)
	})

	t.Run("settled payout is returned without a rail call", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{statusErr: errors.New("must not be called")}
		svc := NewService(db, rail, &stubEnqueuer{})

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "COMPLETED", "trf_1"))

		payout, err := svc.CheckStatus(context.Background(), payoutID)

		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", string(payout.Status))
		assert.Zero(t, rail.statusHits)
	})

	t.Run("unacknowledged payout has nothing to query", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{statusErr: errors.New("must not be called")}
		svc := NewService(db, rail, &stubEnqueuer{})

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", ""))

		payout, err := svc.CheckStatus(context.Background(), payoutID)

		require.NoError(t, err)
		assert.Equal(t, "PROCESSING", string(payout.Status))
		assert.Zero(t, rail.statusHits)
	})

	t.Run("rail lookup failure is surfaced", func(t *testing.T) {
		db, mock := setupTestDB(t)
		rail := &stubRail{statusErr: errors.New("connection refused")}
		svc := NewService(db, rail, &stubEnqueuer{})

		mock.ExpectQuery(`SELECT \* FROM "payouts"`).
			WillReturnRows(payoutRow(payoutID, marketerID, "PROCESSING", "trf_1"))

		_, err := svc.CheckStatus(context.Background(), payoutID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindExternalPaymentFailure, apperrors.KindOf(err))
	})
}

func TestReconcileStuck(t *testing.T) {
	db, mock := setupTestDB(t)
	enq := &stubEnqueuer{}
	svc := NewService(db, &stubRail{}, enq)

	first := uuid.New()
	second := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "payouts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "marketer_id", "status"}).
			AddRow(first.String(), uuid.New().String(), "PROCESSING").
			AddRow(second.String(), uuid.New().String(), "PROCESSING"))

	count, err := svc.ReconcileStuck(context.Background(), 15*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []uuid.UUID{first, second}, enq.scheduled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
