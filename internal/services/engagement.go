package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/yungbote/practicefeed-backend/internal/clients/redis"
	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

const maxCommentLength = 2000

type EngagementService interface {
	EngagementCounter
	// Refresh recomputes counts from the database and rewrites the cache.
	Refresh(ctx context.Context, questionIDs []string) (int, error)

	ToggleLike(ctx context.Context, questionID string) (bool, error)
	LikeStatus(ctx context.Context, questionID string) (likes int64, liked bool, err error)

	AddComment(ctx context.Context, questionID, body string) (*types.QuestionComment, error)
	ListComments(ctx context.Context, questionID string, page, limit int) ([]*types.QuestionComment, error)

	// Invalidate drops cached counts after a write that changes them.
	Invalidate(ctx context.Context, questionIDs ...string)
}

type engagementService struct {
	db           *gorm.DB
	log          *logger.Logger
	engRepo      repos.EngagementRepo
	questionRepo repos.QuestionRepo
	cache        redisclient.EngagementCache
	metrics      *observability.Metrics
}

// NewEngagementService reads counts through cache when it is non-nil.
func NewEngagementService(
	db *gorm.DB,
	log *logger.Logger,
	engRepo repos.EngagementRepo,
	questionRepo repos.QuestionRepo,
	cache redisclient.EngagementCache,
	metrics *observability.Metrics,
) EngagementService {
	return &engagementService{
		db:           db,
		log:          log.With("service", "EngagementService"),
		engRepo:      engRepo,
		questionRepo: questionRepo,
		cache:        cache,
		metrics:      metrics,
	}
}

func (s *engagementService) Counts(ctx context.Context, questionIDs []string) (map[string]types.EngagementCounts, error) {
	if len(questionIDs) == 0 {
		return map[string]types.EngagementCounts{}, nil
	}
	if s.cache == nil {
		return s.engRepo.CountsByQuestionIDs(ctx, nil, questionIDs)
	}

	hits, misses, err := s.cache.GetMany(ctx, questionIDs)
	s.metrics.ObserveEngagementCache(len(hits), len(misses), err)
	if err != nil {
		// cache outage degrades to the database
		s.log.Warn("Engagement cache read failed", "error", err)
		return s.engRepo.CountsByQuestionIDs(ctx, nil, questionIDs)
	}
	if len(misses) == 0 {
		return hits, nil
	}
	fresh, err := s.engRepo.CountsByQuestionIDs(ctx, nil, misses)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetMany(ctx, fresh); err != nil {
		s.log.Warn("Engagement cache write failed", "error", err)
	}
	for id, c := range fresh {
		hits[id] = c
	}
	return hits, nil
}

func (s *engagementService) Refresh(ctx context.Context, questionIDs []string) (int, error) {
	if len(questionIDs) == 0 {
		return 0, nil
	}
	counts, err := s.engRepo.CountsByQuestionIDs(ctx, nil, questionIDs)
	if err != nil {
		return 0, err
	}
	if s.cache == nil {
		return len(counts), nil
	}
	if err := s.cache.SetMany(ctx, counts); err != nil {
		return 0, err
	}
	return len(counts), nil
}

func (s *engagementService) Invalidate(ctx context.Context, questionIDs ...string) {
	if s.cache == nil || len(questionIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, questionIDs...); err != nil {
		s.log.Warn("Engagement cache invalidation failed", "question_ids", questionIDs, "error", err)
	}
}

func (s *engagementService) requireQuestion(ctx context.Context, questionID string) (*types.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("question %q not found", questionID))
	}
	return q, nil
}

func (s *engagementService) ToggleLike(ctx context.Context, questionID string) (bool, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return false, err
	}
	if _, err := s.requireQuestion(ctx, questionID); err != nil {
		return false, err
	}
	liked, err := s.engRepo.ToggleLike(ctx, nil, userID, questionID)
	if err != nil {
		s.log.Error("ToggleLike failed", "user_id", userID, "question_id", questionID, "error", err)
		return false, err
	}
	s.Invalidate(ctx, questionID)
	return liked, nil
}

func (s *engagementService) LikeStatus(ctx context.Context, questionID string) (int64, bool, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return 0, false, err
	}
	if _, err := s.requireQuestion(ctx, questionID); err != nil {
		return 0, false, err
	}
	counts, err := s.Counts(ctx, []string{questionID})
	if err != nil {
		return 0, false, err
	}
	liked, err := s.engRepo.IsLiked(ctx, nil, userID, questionID)
	if err != nil {
		return 0, false, err
	}
	return counts[questionID].Likes, liked, nil
}

func (s *engagementService) AddComment(ctx context.Context, questionID, body string) (*types.QuestionComment, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apierr.BadRequest("invalid_request", errors.New("comment body is required"))
	}
	if len([]rune(body)) > maxCommentLength {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("comment exceeds %d characters", maxCommentLength))
	}
	if _, err := s.requireQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	row, err := s.engRepo.AddComment(ctx, nil, &types.QuestionComment{
		UserID:     userID,
		QuestionID: questionID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.log.Error("AddComment failed", "user_id", userID, "question_id", questionID, "error", err)
		return nil, err
	}
	s.Invalidate(ctx, questionID)
	return row, nil
}

func (s *engagementService) ListComments(ctx context.Context, questionID string, page, limit int) ([]*types.QuestionComment, error) {
	if _, err := s.requireQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	page, limit = normalizePaging(page, limit, 20, 100)
	return s.engRepo.ListComments(ctx, nil, questionID, (page-1)*limit, limit)
}

// normalizePaging returns a 1-based page and a limit in [1, max].
func normalizePaging(page, limit, def, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return page, limit
}
