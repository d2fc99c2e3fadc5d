package services

import (
	"context"
	"time"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	"github.com/yungbote/practicefeed-backend/internal/modules/activity"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type ActivityService interface {
	// Streak derives day streaks from the caller's answer log. A day counts
	// once at least one answer was submitted on it (UTC).
	Streak(ctx context.Context) (*activity.Summary, error)
}

type activityService struct {
	log         *logger.Logger
	attemptRepo repos.QuestionAttemptRepo
	now         func() time.Time
}

func NewActivityService(log *logger.Logger, attemptRepo repos.QuestionAttemptRepo) ActivityService {
	return &activityService{
		log:         log.With("service", "ActivityService"),
		attemptRepo: attemptRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *activityService) Streak(ctx context.Context) (*activity.Summary, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.attemptRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		s.log.Error("Load answer log failed", "user_id", userID, "error", err)
		return nil, err
	}
	events := make([]activity.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, activity.Event{At: r.CreatedAt, Correct: r.IsCorrect})
	}
	now := s.now()
	out := activity.Summarize(events, now, activity.Window(now))
	return &out, nil
}
