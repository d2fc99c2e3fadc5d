package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is the per-(user, question) progress summary the spaced
// repetition classifier reads. IsCorrect is nil until the first answer.
type Submission struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_submission_user_question;index:idx_submission_user_shown,priority:1" json:"user_id"`
	QuestionID string    `gorm:"column:question_id;type:text;not null;uniqueIndex:idx_submission_user_question" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID;references:ID" json:"question,omitempty"`

	Attempts        int        `gorm:"column:attempts;not null;default:0" json:"attempts"`
	CorrectAttempts int        `gorm:"column:correct_attempts;not null;default:0" json:"correct_attempts"`
	IsCorrect       *bool      `gorm:"column:is_correct" json:"is_correct"`
	LastShownAt     *time.Time `gorm:"column:last_shown_at;index:idx_submission_user_shown,priority:2" json:"last_shown_at"`
	SubmittedAt     *time.Time `gorm:"column:submitted_at" json:"submitted_at"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// QuestionAttempt is the append-only answer log behind Submission.
type QuestionAttempt struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID     string    `gorm:"column:question_id;type:text;not null;index" json:"question_id"`
	SelectedOption int       `gorm:"column:selected_option;not null" json:"selected_option"`
	IsCorrect      bool      `gorm:"column:is_correct;not null" json:"is_correct"`
	CreatedAt      time.Time `gorm:"not null;index" json:"created_at"`
}

func (QuestionAttempt) TableName() string { return "question_attempt" }

func (a *QuestionAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
