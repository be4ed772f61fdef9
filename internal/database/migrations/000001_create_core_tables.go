package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateCoreTables creates the users, sellers and products tables
func CreateCoreTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_core_tables",
		Migrate: func(tx *gorm.DB) error {
			// Create users table
			if err := tx.Exec(`
				CREATE EXTENSION IF NOT EXISTS "pgcrypto";

				CREATE TABLE IF NOT EXISTS users (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(255) NOT NULL,
					email VARCHAR(255) NOT NULL UNIQUE,
					password_hash VARCHAR(255) NOT NULL,
					role VARCHAR(20) NOT NULL DEFAULT 'USER',
					last_login_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_users_email ON users(email);
			`).Error; err != nil {
				return err
			}

			// Create sellers table. One profile per user, unique shop URL.
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS sellers (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL UNIQUE REFERENCES users(id),
					shop_name VARCHAR(255) NOT NULL,
					shop_url VARCHAR(255) NOT NULL UNIQUE,
					description TEXT,
					category VARCHAR(100),
					contact_email VARCHAR(255),
					website VARCHAR(255),
					social_links JSONB,
					status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_sellers_status ON sellers(status);
			`).Error; err != nil {
				return err
			}

			// Create products table
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					seller_id UUID NOT NULL REFERENCES sellers(id),
					title VARCHAR(255) NOT NULL,
					description TEXT,
					category VARCHAR(100),
					price DECIMAL(12, 2) NOT NULL,
					image TEXT,
					file_urls JSONB,
					status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
					approved_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_products_seller_id ON products(seller_id);
				CREATE INDEX idx_products_status ON products(status);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS products").Error; err != nil {
				return err
			}
			if err := tx.Exec("DROP TABLE IF EXISTS sellers").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS users").Error
		},
	}
}
