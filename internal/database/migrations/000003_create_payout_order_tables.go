package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreatePayoutAndOrderTables creates the payouts, orders, order_items
// and checkout_intents tables
func CreatePayoutAndOrderTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_payout_order_tables",
		Migrate: func(tx *gorm.DB) error {
			// Create payouts table. The unique submission_id constraint
			// is the authoritative guard against double payouts.
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS payouts (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					submission_id UUID NOT NULL UNIQUE REFERENCES content_submissions(id),
					marketer_id UUID NOT NULL REFERENCES marketers(id),
					initiated_by UUID NOT NULL,
					amount DECIMAL(12, 2) NOT NULL,
					currency VARCHAR(3) NOT NULL DEFAULT 'INR',
					payment_method VARCHAR(20) NOT NULL DEFAULT 'UPI',
					external_payment_id VARCHAR(255),
					upi_id VARCHAR(255),
					failure_reason TEXT,
					status VARCHAR(20) NOT NULL DEFAULT 'PROCESSING',
					processed_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_payouts_marketer_id ON payouts(marketer_id);
				CREATE INDEX idx_payouts_status ON payouts(status);
			`).Error; err != nil {
				return err
			}

			// Create orders and order items tables
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS orders (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL REFERENCES users(id),
					subtotal DECIMAL(12, 2) NOT NULL,
					tax DECIMAL(12, 2) NOT NULL,
					total DECIMAL(12, 2) NOT NULL,
					currency VARCHAR(3) NOT NULL DEFAULT 'INR',
					payment_reference VARCHAR(255) NOT NULL UNIQUE,
					external_payment_id VARCHAR(255),
					status VARCHAR(20) NOT NULL DEFAULT 'PAID',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_orders_user_id ON orders(user_id);

				CREATE TABLE IF NOT EXISTS order_items (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					order_id UUID NOT NULL REFERENCES orders(id),
					product_id UUID NOT NULL REFERENCES products(id),
					title VARCHAR(255) NOT NULL,
					price DECIMAL(12, 2) NOT NULL,
					quantity INTEGER NOT NULL DEFAULT 1,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE INDEX idx_order_items_order_id ON order_items(order_id);
			`).Error; err != nil {
				return err
			}

			// Create checkout intents table
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS checkout_intents (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL REFERENCES users(id),
					reference VARCHAR(255) NOT NULL UNIQUE,
					rail_order_id VARCHAR(255),
					amount DECIMAL(12, 2) NOT NULL,
					currency VARCHAR(3) NOT NULL DEFAULT 'INR',
					items_snapshot JSONB,
					customer_email VARCHAR(255),
					consumed BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
				);

				CREATE INDEX idx_checkout_intents_rail_order_id ON checkout_intents(rail_order_id);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS checkout_intents").Error; err != nil {
				return err
			}
			if err := tx.Exec("DROP TABLE IF EXISTS order_items").Error; err != nil {
				return err
			}
			if err := tx.Exec("DROP TABLE IF EXISTS orders").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS payouts").Error
		},
	}
}
