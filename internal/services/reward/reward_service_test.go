package reward

import (
	"context"
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
	"github.com/youbairia/marketplace/internal/models"
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

func taskRow(id uuid.UUID, status string, deadline time.Time, total, max int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seller_id", "title", "budget", "deadline", "max_submissions", "total_submissions", "status"}).
		AddRow(id.String(), uuid.New().String(), "Review my product", 250.0, deadline, max, total, status)
}

func submissionRow(id uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "task_id", "marketer_id", "content", "status"}).
		AddRow(id.String(), uuid.New().String(), uuid.New().String(), "https://youtu.be/abc", status)
}

func TestCreateTaskValidation(t *testing.T) {
	db, _ := setupTestDB(t)
	svc := NewService(db)

	future := time.Now().Add(24 * time.Hour)

	cases := []struct {
		name  string
		input CreateTaskInput
	}{
		{"missing title", CreateTaskInput{SellerID: uuid.New(), Budget: 100, Deadline: future}},
		{"zero budget", CreateTaskInput{SellerID: uuid.New(), Title: "t", Budget: 0, Deadline: future}},
		{"negative budget", CreateTaskInput{SellerID: uuid.New(), Title: "t", Budget: -5, Deadline: future}},
		{"past deadline", CreateTaskInput{SellerID: uuid.New(), Title: "t", Budget: 100, Deadline: time.Now().Add(-time.Hour)}},
		{"negative max submissions", CreateTaskInput{SellerID: uuid.New(), Title: "t", Budget: 100, Deadline: future, MaxSubmissions: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), tc.input)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
		})
	}
}

func TestCreateTaskRequiresApprovedSeller(t *testing.T) {
	db, mock := setupTestDB(t)
	svc := NewService(db)

	sellerID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "sellers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "status"}).
			AddRow(sellerID.String(), uuid.New().String(), "PENDING"))

	_, err := svc.CreateTask(context.Background(), CreateTaskInput{
		SellerID: sellerID,
		Title:    "Unbox and review",
		Budget:   500,
		Deadline: time.Now().Add(48 * time.Hour),
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTask(t *testing.T) {
	taskID := uuid.New()

	t.Run("another seller cannot edit", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "ACTIVE", time.Now().Add(time.Hour), 0, 10))

		title := "New title"
		_, err := svc.UpdateTask(context.Background(), taskID, uuid.New(), UpdateTaskInput{Title: &title})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindAuthorizationDenied, apperrors.KindOf(err))
	})

	t.Run("budget must stay positive", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		sellerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "status"}).
				AddRow(taskID.String(), sellerID.String(), "ACTIVE"))

		budget := -10.0
		_, err := svc.UpdateTask(context.Background(), taskID, sellerID, UpdateTaskInput{Budget: &budget})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})

	t.Run("cap cannot drop below existing submissions", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		sellerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "total_submissions", "status"}).
				AddRow(taskID.String(), sellerID.String(), 5, "ACTIVE"))

		max := 3
		_, err := svc.UpdateTask(context.Background(), taskID, sellerID, UpdateTaskInput{MaxSubmissions: &max})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})
}

func TestDeleteTask(t *testing.T) {
	taskID := uuid.New()

	t.Run("task with submissions is kept", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		sellerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "total_submissions", "status"}).
				AddRow(taskID.String(), sellerID.String(), 2, "ACTIVE"))

		err := svc.DeleteTask(context.Background(), taskID, sellerID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	})

	t.Run("another seller cannot delete", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "total_submissions", "status"}).
				AddRow(taskID.String(), uuid.New().String(), 0, "ACTIVE"))

		err := svc.DeleteTask(context.Background(), taskID, uuid.New())

		require.Error(t, err)
		assert.Equal(t, apperrors.KindAuthorizationDenied, apperrors.KindOf(err))
	})

	t.Run("empty task is removed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		sellerID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "seller_id", "total_submissions", "status"}).
				AddRow(taskID.String(), sellerID.String(), 0, "ACTIVE"))
		mock.ExpectExec(`UPDATE "reward_tasks" SET "deleted_at"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := svc.DeleteTask(context.Background(), taskID, sellerID)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSubmit(t *testing.T) {
	taskID := uuid.New()
	marketerID := uuid.New()
	future := time.Now().Add(24 * time.Hour)

	input := SubmitInput{
		TaskID:     taskID,
		MarketerID: marketerID,
		Content:    "https://youtu.be/abc",
	}

	t.Run("missing content", func(t *testing.T) {
		db, _ := setupTestDB(t)
		svc := NewService(db)

		_, err := svc.Submit(context.Background(), SubmitInput{TaskID: taskID, MarketerID: marketerID})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})

	t.Run("task not found", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("paused task", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "PAUSED", future, 0, 10))

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	})

	t.Run("deadline passed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "ACTIVE", time.Now().Add(-time.Hour), 0, 10))

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	})

	t.Run("duplicate submission", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "ACTIVE", future, 3, 10))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("full task", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "ACTIVE", future, 10, 10))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
	})

	t.Run("task fills up between check and insert", func(t *testing.T) {
		// The pre-check saw a free slot but the guarded increment loses
		// the race, so the transaction rolls back
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "reward_tasks"`).
			WillReturnRows(taskRow(taskID, "ACTIVE", future, 9, 10))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "reward_tasks"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := svc.Submit(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindPreconditionFailed, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReview(t *testing.T) {
	submissionID := uuid.New()
	reviewerID := uuid.New()

	t.Run("invalid verdict", func(t *testing.T) {
		db, _ := setupTestDB(t)
		svc := NewService(db)

		_, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			Status:       models.SubmissionPending,
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
	})

	t.Run("first approval wins and bumps the task counter", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "content_submissions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(submissionRow(submissionID, "APPROVED"))
		mock.ExpectExec(`UPDATE "reward_tasks"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		settled, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			Status:       models.SubmissionApproved,
			Feedback:     "great video",
		})

		require.NoError(t, err)
		assert.Equal(t, models.SubmissionApproved, settled.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejection does not touch the task counter", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "content_submissions"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(submissionRow(submissionID, "REJECTED"))
		mock.ExpectCommit()

		settled, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			Status:       models.SubmissionRejected,
			Feedback:     "off brief",
		})

		require.NoError(t, err)
		assert.Equal(t, models.SubmissionRejected, settled.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeating the same verdict is a no-op", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "content_submissions"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(submissionRow(submissionID, "APPROVED"))
		mock.ExpectCommit()

		settled, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			Status:       models.SubmissionApproved,
		})

		require.NoError(t, err)
		assert.Equal(t, models.SubmissionApproved, settled.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("contradicting verdict is a conflict", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "content_submissions"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(submissionRow(submissionID, "APPROVED"))
		mock.ExpectRollback()

		_, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: submissionID,
			ReviewerID:   reviewerID,
			Status:       models.SubmissionRejected,
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown submission", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "content_submissions"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "content_submissions"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, err := svc.Review(context.Background(), ReviewInput{
			SubmissionID: uuid.New(),
			ReviewerID:   reviewerID,
			Status:       models.SubmissionApproved,
		})

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}
