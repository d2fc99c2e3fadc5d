package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type Services struct {
	Feed        services.FeedService
	Engagement  services.EngagementService
	Question    services.QuestionService
	Preferences services.PreferencesService
	Submission  services.SubmissionService
	User        services.UserService
	Catalog     services.CatalogService
	Activity    services.ActivityService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	engagement := services.NewEngagementService(db, log, r.Engagement, r.Question, c.EngagementCache, metrics)

	return Services{
		Feed: services.NewFeedService(log, r.UserPreferences, r.Submission, r.FeedScan, engagement, metrics, services.FeedConfig{
			Backend:        cfg.FeedScanMode,
			ReviewInterval: cfg.FeedReviewInterval,
			DefaultLimit:   cfg.FeedDefaultLimit,
			MaxLimit:       cfg.FeedMaxLimit,
		}),
		Engagement:  engagement,
		Question:    services.NewQuestionService(db, log, r.Question, r.Submission, r.Engagement, engagement),
		Preferences: services.NewPreferencesService(db, log, r.UserPreferences, cfg.FeedMaxLimit),
		Submission:  services.NewSubmissionService(db, log, r.Question, r.Submission, r.QuestionAttempt, r.User, metrics),
		User:        services.NewUserService(db, log, r.User),
		Catalog:     services.NewCatalogService(db, log, r.Question, r.UserPreferences),
		Activity:    services.NewActivityService(log, r.QuestionAttempt),
	}
}
