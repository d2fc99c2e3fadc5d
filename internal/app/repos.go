package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/feedsql"
	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Question        repos.QuestionRepo
	UserPreferences repos.UserPreferencesRepo
	Submission      repos.SubmissionRepo
	QuestionAttempt repos.QuestionAttemptRepo
	Engagement      repos.EngagementRepo

	// FeedScan is the scored-scan backend selected by FEED_SCAN_MODE.
	FeedScan feed.ScoredScanner
}

func wireRepos(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients) Repos {
	log.Info("Wiring repos...", "feed_scan_mode", cfg.FeedScanMode)
	out := Repos{
		User:            repos.NewUserRepo(db, log),
		Question:        repos.NewQuestionRepo(db, log),
		UserPreferences: repos.NewUserPreferencesRepo(db, log),
		Submission:      repos.NewSubmissionRepo(db, log),
		QuestionAttempt: repos.NewQuestionAttemptRepo(db, log),
		Engagement:      repos.NewEngagementRepo(db, log),
	}
	if cfg.FeedScanMode == FeedScanSQL && clients.FeedPool != nil {
		out.FeedScan = feedsql.NewScanner(clients.FeedPool, log)
	} else {
		out.FeedScan = repos.NewFeedScanRepo(db, log, out.Question, out.Submission)
	}
	return out
}
