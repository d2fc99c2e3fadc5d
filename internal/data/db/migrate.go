package db

import (
	"fmt"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.AppUser{},
		&types.Question{},
		&types.UserPreferences{},
		&types.Submission{},
		&types.QuestionAttempt{},
		&types.QuestionView{},
		&types.QuestionLike{},
		&types.QuestionComment{},
	)
}

// EnsureFeedIndexes adds the Postgres-only indexes the scored scan relies on.
// Other dialects are left with the indexes declared on the models.
func EnsureFeedIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	// Latest-shown lookup for the bootstrap cursor.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_submission_user_last_shown_desc
		ON submission (user_id, last_shown_at DESC NULLS LAST);
	`).Error; err != nil {
		return fmt.Errorf("create idx_submission_user_last_shown_desc: %w", err)
	}
	// Tag containment for the topic sub-scores.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_question_tags_gin
		ON question USING GIN (tags jsonb_path_ops)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_question_tags_gin: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_question_id_c
		ON question (id COLLATE "C")
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_question_id_c: %w", err)
	}
	return nil
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureFeedIndexes(s.db); err != nil {
		s.log.Error("Feed index migration failed", "error", err)
		return err
	}
	return nil
}
