package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateRewardTables creates the marketers, reward_tasks and
// content_submissions tables
func CreateRewardTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_reward_tables",
		Migrate: func(tx *gorm.DB) error {
			// Create marketers table
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS marketers (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					user_id UUID NOT NULL UNIQUE REFERENCES users(id),
					bio TEXT,
					specialties JSONB,
					portfolio VARCHAR(255),
					social_links JSONB,
					upi_id VARCHAR(255),
					rating DECIMAL(3, 2) DEFAULT 0,
					total_earnings DECIMAL(12, 2) DEFAULT 0,
					completed_tasks INTEGER DEFAULT 0,
					status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);
			`).Error; err != nil {
				return err
			}

			// Create reward tasks table
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS reward_tasks (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					seller_id UUID NOT NULL REFERENCES sellers(id),
					title VARCHAR(255) NOT NULL,
					description TEXT,
					product_details TEXT,
					content_type VARCHAR(50),
					requirements TEXT,
					budget DECIMAL(12, 2) NOT NULL,
					deadline TIMESTAMP WITH TIME ZONE NOT NULL,
					max_submissions INTEGER NOT NULL DEFAULT 10,
					total_submissions INTEGER NOT NULL DEFAULT 0,
					approved_submissions INTEGER NOT NULL DEFAULT 0,
					status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_reward_tasks_seller_id ON reward_tasks(seller_id);
				CREATE INDEX idx_reward_tasks_status ON reward_tasks(status);
			`).Error; err != nil {
				return err
			}

			// Create content submissions table. One submission per
			// marketer per task, enforced at the storage layer.
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS content_submissions (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					task_id UUID NOT NULL REFERENCES reward_tasks(id),
					marketer_id UUID NOT NULL REFERENCES marketers(id),
					content TEXT NOT NULL,
					media_urls JSONB,
					notes TEXT,
					status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
					feedback TEXT,
					submitted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					reviewed_at TIMESTAMP WITH TIME ZONE,
					reviewed_by UUID,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE,
					CONSTRAINT idx_submission_task_marketer UNIQUE (task_id, marketer_id)
				);

				CREATE INDEX idx_content_submissions_task_id ON content_submissions(task_id);
				CREATE INDEX idx_content_submissions_marketer_id ON content_submissions(marketer_id);
				CREATE INDEX idx_content_submissions_status ON content_submissions(status);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS content_submissions").Error; err != nil {
				return err
			}
			if err := tx.Exec("DROP TABLE IF EXISTS reward_tasks").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS marketers").Error
		},
	}
}
