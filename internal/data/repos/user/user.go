package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type UserRepo interface {
	// Ensure creates the user row when missing; identities live with the
	// token issuer, so rows are created lazily on first write.
	Ensure(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AppUser, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.AppUser, error)
	AddScore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error
	UpdateDisplayName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, displayName string) error
	// Leaderboard orders users by score, highest first. ProblemsSolved counts
	// submissions whose last answer was correct.
	Leaderboard(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LeaderboardEntry, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Ensure(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if userID == uuid.Nil {
		return errors.New("missing user id")
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(&types.AppUser{ID: userID}).Error
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.AppUser, error) {
	rows, err := ur.GetByIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.AppUser, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.AppUser

	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) AddScore(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if delta == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.AppUser{}).
		Where("id = ?", userID).
		Update("score", gorm.Expr("score + ?", delta)).Error
}

func (ur *userRepo) UpdateDisplayName(ctx context.Context, tx *gorm.DB, userID uuid.UUID, displayName string) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.AppUser{}).
		Where("id = ?", userID).
		Update("display_name", displayName).Error
}

func (ur *userRepo) Leaderboard(ctx context.Context, tx *gorm.DB, limit int) ([]*types.LeaderboardEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.LeaderboardEntry
	if err := transaction.WithContext(ctx).
		Table("app_user AS u").
		Select("u.id AS user_id, u.display_name AS display_name, u.score AS score, COUNT(s.id) AS problems_solved").
		Joins("LEFT JOIN submission AS s ON s.user_id = u.id AND s.is_correct = ?", true).
		Group("u.id, u.display_name, u.score").
		Order("u.score DESC").
		Order("u.id ASC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
