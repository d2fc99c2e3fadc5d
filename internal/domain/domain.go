package domain

import "github.com/yungbote/practicefeed-backend/internal/domain/practice"

type Difficulty = practice.Difficulty

const (
	DifficultyEasy   = practice.DifficultyEasy
	DifficultyMedium = practice.DifficultyMedium
	DifficultyHard   = practice.DifficultyHard
)

type Question = practice.Question
type QuestionOption = practice.QuestionOption
type UserPreferences = practice.UserPreferences
type Submission = practice.Submission
type QuestionAttempt = practice.QuestionAttempt
type QuestionView = practice.QuestionView
type QuestionLike = practice.QuestionLike
type QuestionComment = practice.QuestionComment
type EngagementCounts = practice.EngagementCounts
type AppUser = practice.AppUser
type LeaderboardEntry = practice.LeaderboardEntry

var (
	ParseDifficulty    = practice.ParseDifficulty
	DefaultPreferences = practice.DefaultPreferences
)
