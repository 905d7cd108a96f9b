package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/slideforge-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

func EnsurePresentationIndexes(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_presentation_user_created
		ON presentation (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_presentation_user_created: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_prompt_history_user_created
		ON prompt_history (user_id, created_at DESC);
	`).Error; err != nil {
		return fmt.Errorf("create idx_prompt_history_user_created: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsurePresentationIndexes(s.db); err != nil {
		s.log.Error("Presentation index migration failed", "error", err)
		return err
	}
	return nil
}
