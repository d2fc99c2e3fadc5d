package practice

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserPreferences is the per-user feed profile. PreferredTopics weigh 3,
// InterestedTopics weigh 2 in the feed ranking.
type UserPreferences struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	PreferredDifficulties datatypes.JSONSlice[Difficulty] `gorm:"column:preferred_difficulties" json:"preferred_difficulties"`
	PreferredTopics       datatypes.JSONSlice[string]     `gorm:"column:preferred_topics" json:"preferred_topics"`
	InterestedTopics      datatypes.JSONSlice[string]     `gorm:"column:interested_topics" json:"interested_topics"`
	PreferredLanguages    datatypes.JSONSlice[string]     `gorm:"column:preferred_languages" json:"preferred_languages"`
	FeedSize              int                             `gorm:"column:feed_size;not null;default:0" json:"feed_size"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

func (p *UserPreferences) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// DefaultPreferences is what a user without a stored profile ranks with.
func DefaultPreferences(userID uuid.UUID) *UserPreferences {
	return &UserPreferences{
		UserID:                userID,
		PreferredDifficulties: datatypes.JSONSlice[Difficulty]{},
		PreferredTopics:       datatypes.JSONSlice[string]{},
		InterestedTopics:      datatypes.JSONSlice[string]{},
		PreferredLanguages:    datatypes.JSONSlice[string]{},
	}
}
