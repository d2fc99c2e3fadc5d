package practice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type EngagementRepo interface {
	// RecordView inserts a view unless the user viewed the question after
	// notBefore. It reports whether a view was recorded.
	RecordView(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, at, notBefore time.Time) (bool, error)

	ToggleLike(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (bool, error)
	IsLiked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (bool, error)

	AddComment(ctx context.Context, tx *gorm.DB, row *types.QuestionComment) (*types.QuestionComment, error)
	ListComments(ctx context.Context, tx *gorm.DB, questionID string, offset, limit int) ([]*types.QuestionComment, error)

	CountsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []string) (map[string]types.EngagementCounts, error)
}

type engagementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEngagementRepo(db *gorm.DB, baseLog *logger.Logger) EngagementRepo {
	return &engagementRepo{db: db, log: baseLog.With("repo", "EngagementRepo")}
}

func (r *engagementRepo) RecordView(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, at, notBefore time.Time) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var recent int64
	if err := t.WithContext(ctx).
		Model(&types.QuestionView{}).
		Where("user_id = ? AND question_id = ? AND created_at > ?", userID, questionID, notBefore).
		Count(&recent).Error; err != nil {
		return false, err
	}
	if recent > 0 {
		return false, nil
	}
	view := &types.QuestionView{UserID: userID, QuestionID: questionID, CreatedAt: at}
	if err := t.WithContext(ctx).Create(view).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *engagementRepo) ToggleLike(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	res := t.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&types.QuestionLike{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	like := &types.QuestionLike{UserID: userID, QuestionID: questionID}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoNothing: true,
		}).
		Create(like).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *engagementRepo) IsLiked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.QuestionLike{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *engagementRepo) AddComment(ctx context.Context, tx *gorm.DB, row *types.QuestionComment) (*types.QuestionComment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *engagementRepo) ListComments(ctx context.Context, tx *gorm.DB, questionID string, offset, limit int) ([]*types.QuestionComment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.QuestionComment
	q := t.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("created_at DESC").
		Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

type questionCount struct {
	QuestionID string
	N          int64
}

func (r *engagementRepo) CountsByQuestionIDs(ctx context.Context, tx *gorm.DB, questionIDs []string) (map[string]types.EngagementCounts, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	out := make(map[string]types.EngagementCounts, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	for _, id := range questionIDs {
		out[id] = types.EngagementCounts{}
	}

	count := func(model any) ([]questionCount, error) {
		var rows []questionCount
		err := t.WithContext(ctx).
			Model(model).
			Select("question_id, COUNT(*) AS n").
			Where("question_id IN ?", questionIDs).
			Group("question_id").
			Scan(&rows).Error
		return rows, err
	}

	views, err := count(&types.QuestionView{})
	if err != nil {
		return nil, err
	}
	for _, row := range views {
		c := out[row.QuestionID]
		c.Views = row.N
		out[row.QuestionID] = c
	}
	likes, err := count(&types.QuestionLike{})
	if err != nil {
		return nil, err
	}
	for _, row := range likes {
		c := out[row.QuestionID]
		c.Likes = row.N
		out[row.QuestionID] = c
	}
	comments, err := count(&types.QuestionComment{})
	if err != nil {
		return nil, err
	}
	for _, row := range comments {
		c := out[row.QuestionID]
		c.Comments = row.N
		out[row.QuestionID] = c
	}
	return out, nil
}
