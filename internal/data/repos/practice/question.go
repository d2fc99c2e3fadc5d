package practice

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Question) ([]*types.Question, error)

	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Question, error)

	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Question, error)
	ListRecentIDs(ctx context.Context, tx *gorm.DB, limit int) ([]string, error)
	// List pages through questions newest first. Empty filter fields match all.
	List(ctx context.Context, tx *gorm.DB, filter QuestionFilter, offset, limit int) ([]*types.Question, int64, error)
	// ListTagSets returns the tag set of every active question.
	ListTagSets(ctx context.Context, tx *gorm.DB) ([][]string, error)

	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error
}

type QuestionFilter struct {
	Category   string
	Difficulty types.Difficulty
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Upsert(ctx context.Context, tx *gorm.DB, rows []*types.Question) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Question{}, nil
	}
	if err := t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"description",
				"options",
				"correct_option",
				"explanation",
				"difficulty",
				"category",
				"tags",
				"code_snippet",
				"updated_at",
				"deleted_at",
			}),
		}).
		Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var out types.Question
	err := t.WithContext(ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Question
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListActive returns every question that is not soft deleted, in id order.
func (r *questionRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Question
	if err := t.WithContext(ctx).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) ListRecentIDs(ctx context.Context, tx *gorm.DB, limit int) ([]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	var ids []string
	if err := t.WithContext(ctx).
		Model(&types.Question{}).
		Order("updated_at DESC").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *questionRepo) List(ctx context.Context, tx *gorm.DB, filter QuestionFilter, offset, limit int) ([]*types.Question, int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var total int64
	if err := t.WithContext(ctx).
		Model(&types.Question{}).
		Scopes(filter.scope).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if offset < 0 {
		offset = 0
	}
	var out []*types.Question
	if err := t.WithContext(ctx).
		Scopes(filter.scope).
		Order("created_at DESC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (f QuestionFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if f.Difficulty != "" {
		db = db.Where("difficulty = ?", f.Difficulty)
	}
	return db
}

func (r *questionRepo) ListTagSets(ctx context.Context, tx *gorm.DB) ([][]string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var rows []*types.Question
	if err := t.WithContext(ctx).
		Select("id", "tags").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, q := range rows {
		if len(q.Tags) > 0 {
			out = append(out, []string(q.Tags))
		}
	}
	return out, nil
}

func (r *questionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Question{}).Error
}
