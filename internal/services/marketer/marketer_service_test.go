package marketer

import (
	"context"
	"errors"
	"testing"

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

func TestCreate(t *testing.T) {
	userID := uuid.New()
	input := CreateInput{
		UserID:      userID,
		Bio:         "Short form video reviews",
		Specialties: models.StringSlice{"VIDEO"},
		UpiID:       "marketer@upi",
	}

	t.Run("promotes the user role with the profile", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "role"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "marketers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
		mock.ExpectCommit()

		profile, err := svc.Create(context.Background(), input)

		require.NoError(t, err)
		assert.Equal(t, models.MarketerActive, profile.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate profile conflicts and rolls back the promotion", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "role"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO "marketers"`).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_marketers_user_id"`))
		mock.ExpectRollback()

		_, err := svc.Create(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed promotion leaves no profile", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "role"`).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		_, err := svc.Create(context.Background(), input)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
