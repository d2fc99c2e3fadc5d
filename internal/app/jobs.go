package app

import (
	"fmt"

	"github.com/yungbote/practicefeed-backend/internal/jobs/warm"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// wireJobs returns nil when no periodic job is enabled.
func wireJobs(log *logger.Logger, cfg Config, r Repos, s Services) (*warm.Scheduler, error) {
	if cfg.EngagementWarmInterval <= 0 {
		log.Info("Engagement warm job disabled")
		return nil, nil
	}
	registry := warm.NewRegistry()
	if err := registry.Register(warm.NewEngagementWarmer(log, r.Question, s.Engagement, cfg.EngagementWarmBatch)); err != nil {
		return nil, err
	}
	sched := warm.NewScheduler(log, registry, cfg.EngagementWarmInterval)
	if err := sched.Every(warm.JobEngagementWarm, cfg.EngagementWarmInterval); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", warm.JobEngagementWarm, err)
	}
	return sched, nil
}
