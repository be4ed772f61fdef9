package seller

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/youbairia/marketplace/internal/apperrors"
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

func sellerRow(id uuid.UUID, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "shop_name", "shop_url", "contact_email", "status"}).
		AddRow(id.String(), uuid.New().String(), "Pixel Goods", "pixel-goods", "owner@pixel.dev", status)
}

func TestCreateValidation(t *testing.T) {
	db, _ := setupTestDB(t)
	svc := NewService(db)

	_, err := svc.Create(context.Background(), CreateInput{UserID: uuid.New(), ShopName: "Pixel Goods"})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidationFailed, apperrors.KindOf(err))
}

func TestCreateOneProfilePerUser(t *testing.T) {
	db, mock := setupTestDB(t)
	svc := NewService(db)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "sellers"`).
		WillReturnRows(sellerRow(uuid.New(), "APPROVED"))

	_, err := svc.Create(context.Background(), CreateInput{
		UserID:       userID,
		ShopName:     "Second Shop",
		ShopURL:      "second-shop",
		ContactEmail: "owner@pixel.dev",
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApprove(t *testing.T) {
	sellerID := uuid.New()

	t.Run("pending seller is approved", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectExec(`UPDATE "sellers"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sellerRow(sellerID, "APPROVED"))

		profile, err := svc.Approve(context.Background(), sellerID)

		require.NoError(t, err)
		assert.Equal(t, "APPROVED", string(profile.Status))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already approved seller conflicts", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectExec(`UPDATE "sellers"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sellerRow(sellerID, "APPROVED"))

		_, err := svc.Approve(context.Background(), sellerID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown seller", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectExec(`UPDATE "sellers"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.Approve(context.Background(), sellerID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestReject(t *testing.T) {
	sellerID := uuid.New()

	t.Run("pending seller is rejected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectExec(`UPDATE "sellers"`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sellerRow(sellerID, "REJECTED"))

		profile, err := svc.Reject(context.Background(), sellerID)

		require.NoError(t, err)
		assert.Equal(t, "REJECTED", string(profile.Status))
	})

	t.Run("rejected seller stays rejected", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectExec(`UPDATE "sellers"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sellerRow(sellerID, "REJECTED"))

		_, err := svc.Reject(context.Background(), sellerID)

		require.Error(t, err)
		assert.Equal(t, apperrors.KindConflictState, apperrors.KindOf(err))
	})
}

func TestGetByShopURL(t *testing.T) {
	t.Run("approved shop is public", func(t *testing.T) {
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sellerRow(uuid.New(), "APPROVED"))

		profile, err := svc.GetByShopURL(context.Background(), "pixel-goods")

		require.NoError(t, err)
		assert.Equal(t, "pixel-goods", profile.ShopURL)
	})

	t.Run("pending shop is hidden", func(t *testing.T) {
		// The status filter is part of the query, so no row comes back
		db, mock := setupTestDB(t)
		svc := NewService(db)

		mock.ExpectQuery(`SELECT \* FROM "sellers"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.GetByShopURL(context.Background(), "hidden-shop")

		require.Error(t, err)
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}
