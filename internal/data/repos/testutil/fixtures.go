package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func PtrBool(b bool) *bool { return &b }

func PtrTime(t time.Time) *time.Time { return &t }

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, id string, difficulty types.Difficulty, tags ...string) *types.Question {
	tb.Helper()
	q := &types.Question{
		ID:          id,
		Title:       "question " + id,
		Description: "description",
		Options: datatypes.JSONSlice[types.QuestionOption]{
			{Key: "A", Text: "first"},
			{Key: "B", Text: "second"},
			{Key: "C", Text: "third"},
		},
		CorrectOption: 1,
		Explanation:   "because",
		Difficulty:    difficulty,
		Category:      "general",
		Tags:          datatypes.JSONSlice[string](append([]string{}, tags...)),
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedPreferences(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, preferred, interested []string, difficulties ...types.Difficulty) *types.UserPreferences {
	tb.Helper()
	p := types.DefaultPreferences(userID)
	p.PreferredTopics = datatypes.JSONSlice[string](append([]string{}, preferred...))
	p.InterestedTopics = datatypes.JSONSlice[string](append([]string{}, interested...))
	p.PreferredDifficulties = datatypes.JSONSlice[types.Difficulty](append([]types.Difficulty{}, difficulties...))
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed preferences: %v", err)
	}
	return p
}

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, questionID string, attempts, correct int, isCorrect *bool, lastShownAt *time.Time) *types.Submission {
	tb.Helper()
	s := &types.Submission{
		UserID:          userID,
		QuestionID:      questionID,
		Attempts:        attempts,
		CorrectAttempts: correct,
		IsCorrect:       isCorrect,
		LastShownAt:     lastShownAt,
		SubmittedAt:     lastShownAt,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}
