package practice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type UserPreferencesRepo interface {
	// GetByUserID returns nil without error when the user has no stored preferences.
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserPreferences) (*types.UserPreferences, error)
}

type userPreferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferencesRepo {
	return &userPreferencesRepo{db: db, log: baseLog.With("repo", "UserPreferencesRepo")}
}

func (r *userPreferencesRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserPreferences, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.UserPreferences
	err := t.WithContext(ctx).Where("user_id = ?", userID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userPreferencesRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserPreferences) (*types.UserPreferences, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil, errors.New("preferences require a user id")
	}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"preferred_difficulties",
				"preferred_topics",
				"interested_topics",
				"preferred_languages",
				"feed_size",
				"updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, t, row.UserID)
}
