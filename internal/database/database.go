package database

import (
	"fmt"
	"time"

	"github.com/youbairia/marketplace/internal/config"
	"github.com/youbairia/marketplace/internal/database/migrations"
	"github.com/youbairia/marketplace/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection with configuration
func InitDB(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}

	db, err := gorm.Open(postgres.Open(dbConfig.URL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdle)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Run migrations
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate runs versioned migrations followed by an auto-migration pass
// that keeps the schema aligned with the model structs
func Migrate(db *gorm.DB) error {
	if err := migrations.RunMigrations(db); err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.Seller{},
		&models.Product{},
		&models.Marketer{},
		&models.RewardTask{},
		&models.ContentSubmission{},
		&models.Payout{},
		&models.Order{},
		&models.OrderItem{},
		&models.CheckoutIntent{},
	)
}
