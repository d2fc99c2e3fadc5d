package practice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type SubmissionRepo interface {
	GetByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (*types.Submission, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Submission, error)
	ListHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Submission, int64, error)
	// LatestShown returns the submission with the greatest last_shown_at, with
	// its question preloaded even when that question was soft deleted since,
	// or nil when the user has none.
	LatestShown(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Submission, error)
	// CountByQuestion counts users who have answered the question at least once.
	CountByQuestion(ctx context.Context, tx *gorm.DB, questionID string) (int64, error)

	// RecordAnswer creates the submission on first answer and applies one
	// attempt atomically. The returned row reflects the update.
	RecordAnswer(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, correct bool, at time.Time) (*types.Submission, error)
	// MarkExposed records that the question was shown: the submission is
	// created unanswered on first exposure, later exposures only move
	// last_shown_at.
	MarkExposed(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, at time.Time) (*types.Submission, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

// unscoped keeps soft-deleted questions attached to progress rows.
func unscoped(db *gorm.DB) *gorm.DB { return db.Unscoped() }

func (r *submissionRepo) GetByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || questionID == "" {
		return nil, nil
	}
	var out types.Submission
	err := t.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *submissionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Submission
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) ListHistory(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Submission, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Submission
	if userID == uuid.Nil {
		return out, 0, nil
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	if err := t.WithContext(ctx).
		Preload("Question", unscoped).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *submissionRepo) LatestShown(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	var out types.Submission
	err := t.WithContext(ctx).
		Preload("Question", unscoped).
		Where("user_id = ? AND last_shown_at IS NOT NULL", userID).
		Order("last_shown_at DESC").
		Order("question_id ASC").
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *submissionRepo) CountByQuestion(ctx context.Context, tx *gorm.DB, questionID string) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("question_id = ? AND attempts > 0", questionID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *submissionRepo) RecordAnswer(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, correct bool, at time.Time) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || questionID == "" {
		return nil, errors.New("record answer requires user and question")
	}
	seed := &types.Submission{UserID: userID, QuestionID: questionID}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoNothing: true,
		}).
		Create(seed).Error; err != nil {
		return nil, err
	}

	correctDelta := 0
	if correct {
		correctDelta = 1
	}
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Updates(map[string]any{
			"attempts":         gorm.Expr("attempts + 1"),
			"correct_attempts": gorm.Expr("correct_attempts + ?", correctDelta),
			"is_correct":       correct,
			"submitted_at":     at,
			"last_shown_at":    at,
			"updated_at":       at,
		}).Error; err != nil {
		return nil, err
	}
	return r.GetByUserAndQuestion(ctx, t, userID, questionID)
}

func (r *submissionRepo) MarkExposed(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, at time.Time) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || questionID == "" {
		return nil, errors.New("mark exposed requires user and question")
	}
	row := &types.Submission{
		UserID:      userID,
		QuestionID:  questionID,
		LastShownAt: &at,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"last_shown_at", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserAndQuestion(ctx, t, userID, questionID)
}

type QuestionAttemptRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.QuestionAttempt) ([]*types.QuestionAttempt, error)
	ListByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) ([]*types.QuestionAttempt, error)
	// ListByUser returns the user's whole answer log, oldest first, with only
	// created_at and is_correct populated.
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuestionAttempt, error)
}

type questionAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuestionAttemptRepo {
	return &questionAttemptRepo{db: db, log: baseLog.With("repo", "QuestionAttemptRepo")}
}

func (r *questionAttemptRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.QuestionAttempt) ([]*types.QuestionAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.QuestionAttempt{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionAttemptRepo) ListByUserAndQuestion(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) ([]*types.QuestionAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuestionAttempt
	if err := t.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionAttemptRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.QuestionAttempt, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuestionAttempt
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Select("created_at", "is_correct").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
