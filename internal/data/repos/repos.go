package repos

import (
	"github.com/yungbote/practicefeed-backend/internal/data/repos/practice"
	"github.com/yungbote/practicefeed-backend/internal/data/repos/user"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type QuestionRepo = practice.QuestionRepo
type UserPreferencesRepo = practice.UserPreferencesRepo
type SubmissionRepo = practice.SubmissionRepo
type QuestionAttemptRepo = practice.QuestionAttemptRepo
type EngagementRepo = practice.EngagementRepo
type FeedScanRepo = practice.FeedScanRepo
type QuestionFilter = practice.QuestionFilter

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewQuestionRepo(db *gorm.DB, log *logger.Logger) QuestionRepo {
	return practice.NewQuestionRepo(db, log)
}

func NewUserPreferencesRepo(db *gorm.DB, log *logger.Logger) UserPreferencesRepo {
	return practice.NewUserPreferencesRepo(db, log)
}

func NewSubmissionRepo(db *gorm.DB, log *logger.Logger) SubmissionRepo {
	return practice.NewSubmissionRepo(db, log)
}

func NewQuestionAttemptRepo(db *gorm.DB, log *logger.Logger) QuestionAttemptRepo {
	return practice.NewQuestionAttemptRepo(db, log)
}

func NewEngagementRepo(db *gorm.DB, log *logger.Logger) EngagementRepo {
	return practice.NewEngagementRepo(db, log)
}

func NewFeedScanRepo(db *gorm.DB, log *logger.Logger, questions QuestionRepo, submissions SubmissionRepo) FeedScanRepo {
	return practice.NewFeedScanRepo(db, log, questions, submissions)
}
