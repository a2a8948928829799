package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/model"
)

// indexes that gorm tags cannot express.
var recruitmentIndexes = []string{
	// At most one non-rejected application per (posting, applicant).
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_recruitment_applications_open
		ON recruitment_applications (posting_id, applicant_id)
		WHERE status <> 'rejected'`,
	`CREATE INDEX IF NOT EXISTS idx_recruitment_postings_confirmed
		ON recruitment_postings USING GIN (confirmed_member_ids)`,
	`CREATE INDEX IF NOT EXISTS idx_pods_members
		ON pods USING GIN (member_ids)`,
}

// Migrate creates or updates the recruitment tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(
		&model.RecruitmentPosting{},
		&model.RecruitmentApplication{},
		&model.Pod{},
		&model.PodMessage{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range recruitmentIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
