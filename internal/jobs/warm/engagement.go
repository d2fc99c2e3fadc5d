package warm

import (
	"context"
	"fmt"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

const JobEngagementWarm = "engagement_warm"

// Refresher rewrites cached engagement counts from the database.
type Refresher interface {
	Refresh(ctx context.Context, questionIDs []string) (int, error)
}

// EngagementWarmer keeps counts for the most recently authored questions
// in the cache so the first feed pages after a deploy stay cheap.
type EngagementWarmer struct {
	log       *logger.Logger
	questions repos.QuestionRepo
	refresher Refresher
	batch     int
}

func NewEngagementWarmer(log *logger.Logger, questions repos.QuestionRepo, refresher Refresher, batch int) *EngagementWarmer {
	if batch <= 0 {
		batch = 500
	}
	return &EngagementWarmer{
		log:       log.With("job", JobEngagementWarm),
		questions: questions,
		refresher: refresher,
		batch:     batch,
	}
}

func (w *EngagementWarmer) Type() string { return JobEngagementWarm }

func (w *EngagementWarmer) Run(ctx context.Context) error {
	ids, err := w.questions.ListRecentIDs(ctx, nil, w.batch)
	if err != nil {
		return fmt.Errorf("list recent questions: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	n, err := w.refresher.Refresh(ctx, ids)
	if err != nil {
		return fmt.Errorf("refresh engagement: %w", err)
	}
	w.log.Debug("Engagement counts warmed", "questions", n)
	return nil
}
