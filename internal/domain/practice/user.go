package practice

import (
	"time"

	"github.com/google/uuid"
)

// AppUser mirrors the externally authenticated user; rows are created lazily
// the first time the user earns points.
type AppUser struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"column:display_name" json:"display_name"`
	Score       int       `gorm:"column:score;not null;default:0;index" json:"score"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (AppUser) TableName() string { return "app_user" }

// LeaderboardEntry is a read model over app_user and submission.
type LeaderboardEntry struct {
	UserID         uuid.UUID `gorm:"column:user_id" json:"user_id"`
	DisplayName    string    `gorm:"column:display_name" json:"display_name"`
	Score          int       `gorm:"column:score" json:"score"`
	ProblemsSolved int64     `gorm:"column:problems_solved" json:"problems_solved"`
}
