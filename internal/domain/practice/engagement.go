package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionView struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_question_view_user_question,priority:1" json:"user_id"`
	QuestionID string    `gorm:"column:question_id;type:text;not null;index;index:idx_question_view_user_question,priority:2" json:"question_id"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (QuestionView) TableName() string { return "question_view" }

func (v *QuestionView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type QuestionLike struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_question_like_user_question" json:"user_id"`
	QuestionID string    `gorm:"column:question_id;type:text;not null;index;uniqueIndex:idx_question_like_user_question" json:"question_id"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}

func (QuestionLike) TableName() string { return "question_like" }

func (l *QuestionLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type QuestionComment struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID string    `gorm:"column:question_id;type:text;not null;index" json:"question_id"`
	Body       string    `gorm:"column:body;not null" json:"body"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}

func (QuestionComment) TableName() string { return "question_comment" }

func (c *QuestionComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// EngagementCounts is derived per question and only enriches responses.
type EngagementCounts struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}
