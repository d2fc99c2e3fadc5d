package practice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ParseDifficulty accepts any letter case and surrounding whitespace.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToUpper(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", raw)
	}
	return d, nil
}

// Points awarded for the first correct answer.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyHard:
		return 15
	case DifficultyMedium:
		return 10
	default:
		return 5
	}
}

type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is authored by admins and read-only to the feed.
type Question struct {
	ID            string                              `gorm:"column:id;type:text;primaryKey" json:"id"`
	Title         string                              `gorm:"column:title;not null" json:"title"`
	Description   string                              `gorm:"column:description;not null" json:"description"`
	Options       datatypes.JSONSlice[QuestionOption] `gorm:"column:options" json:"options"`
	CorrectOption int                                 `gorm:"column:correct_option;not null" json:"correct_option"`
	Explanation   string                              `gorm:"column:explanation" json:"explanation"`
	Difficulty    Difficulty                          `gorm:"column:difficulty;type:text;not null;index" json:"difficulty"`
	Category      string                              `gorm:"column:category;index" json:"category"`
	Tags          datatypes.JSONSlice[string]         `gorm:"column:tags" json:"tags"`
	CodeSnippet   *string                             `gorm:"column:code_snippet" json:"code_snippet,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(q.ID) == "" {
		q.ID = uuid.New().String()
	}
	return nil
}

// HasOption reports whether idx addresses one of the question's options.
func (q *Question) HasOption(idx int) bool {
	return q != nil && idx >= 0 && idx < len(q.Options)
}
