package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type FeedConfig struct {
	Backend        string
	ReviewInterval time.Duration
	DefaultLimit   int
	MaxLimit       int
}

func (c FeedConfig) withDefaults() FeedConfig {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.ReviewInterval <= 0 {
		c.ReviewInterval = 7 * 24 * time.Hour
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 50
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	return c
}

// FeedRequest carries the raw client inputs; Limit is nil when absent.
type FeedRequest struct {
	UserID uuid.UUID
	Cursor string
	Limit  *int
}

// EngagementCounter enriches feed rows; it never affects ranking.
type EngagementCounter interface {
	Counts(ctx context.Context, questionIDs []string) (map[string]types.EngagementCounts, error)
}

type FeedService interface {
	GetFeedPage(ctx context.Context, req FeedRequest) (*feed.Page, error)
}

type feedService struct {
	log        *logger.Logger
	prefsRepo  repos.UserPreferencesRepo
	subRepo    repos.SubmissionRepo
	scanner    feed.ScoredScanner
	engagement EngagementCounter
	metrics    *observability.Metrics
	tracer     trace.Tracer
	cfg        FeedConfig
	now        func() time.Time
}

type FeedOption func(*feedService)

// WithClock replaces the wall clock used for the due threshold.
func WithClock(now func() time.Time) FeedOption {
	return func(s *feedService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewFeedService(
	log *logger.Logger,
	prefsRepo repos.UserPreferencesRepo,
	subRepo repos.SubmissionRepo,
	scanner feed.ScoredScanner,
	engagement EngagementCounter,
	metrics *observability.Metrics,
	cfg FeedConfig,
	opts ...FeedOption,
) FeedService {
	s := &feedService{
		log:        log.With("service", "FeedService"),
		prefsRepo:  prefsRepo,
		subRepo:    subRepo,
		scanner:    scanner,
		engagement: engagement,
		metrics:    metrics,
		tracer:     otel.Tracer("practicefeed/services"),
		cfg:        cfg.withDefaults(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetFeedPage resolves one page of the user's feed. Without a usable cursor
// the page starts just after the question the user saw most recently.
func (s *feedService) GetFeedPage(ctx context.Context, req FeedRequest) (page *feed.Page, err error) {
	ctx, span := s.tracer.Start(ctx, "FeedService.GetFeedPage")
	defer func() {
		if err != nil {
			s.metrics.IncFeedFailure()
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if req.UserID == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var cursor *feed.Cursor
	if raw := strings.TrimSpace(req.Cursor); raw != "" {
		decoded, decErr := feed.DecodeCursor(raw)
		if decErr != nil {
			s.log.Warn("Ignoring invalid feed cursor", "user_id", req.UserID, "cursor", raw, "reason", decErr.Error())
			s.metrics.IncFeedCursorReset()
		} else {
			cursor = &decoded
		}
	}

	var (
		prefs  *types.UserPreferences
		latest *types.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.prefsRepo.GetByUserID(gctx, nil, req.UserID)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		prefs = p
		return nil
	})
	if cursor == nil {
		g.Go(func() error {
			sub, err := s.subRepo.LatestShown(gctx, nil, req.UserID)
			if err != nil {
				return fmt.Errorf("load latest submission: %w", err)
			}
			latest = sub
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Error("Feed collaborators failed", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	if prefs == nil {
		prefs = types.DefaultPreferences(req.UserID)
	}

	now := s.now()
	due := feed.DueThreshold(now, s.cfg.ReviewInterval)
	profile := feed.NewProfile(prefs)
	limit := feed.ResolveLimit(req.Limit, prefs.FeedSize, s.cfg.DefaultLimit, s.cfg.MaxLimit)

	source := observability.FeedSourceCursor
	if cursor == nil {
		cursor = feed.BootstrapCursor(latest, profile, due)
		source = observability.FeedSourceStart
		if cursor != nil {
			source = observability.FeedSourceBootstrap
		}
	}
	span.SetAttributes(
		attribute.String("feed.source", source),
		attribute.String("feed.backend", s.cfg.Backend),
		attribute.Int("feed.limit", limit),
	)

	scanStart := time.Now()
	rows, err := s.scanner.FetchScoredPage(ctx, feed.ScanRequest{
		UserID:       req.UserID,
		Preferences:  prefs,
		DueThreshold: due,
		Cursor:       cursor,
		Limit:        limit + 1,
	})
	s.metrics.ObserveFeedScan(s.cfg.Backend, err, time.Since(scanStart))
	if err != nil {
		s.log.Error("Feed scan failed", "user_id", req.UserID, "backend", s.cfg.Backend, "error", err)
		return nil, fmt.Errorf("%w: scan: %w", ErrFeedUnavailable, err)
	}

	p := feed.NewPage(rows, limit)
	if err := s.attachEngagement(ctx, p.Items); err != nil {
		s.log.Error("Feed engagement lookup failed", "user_id", req.UserID, "error", err)
		return nil, fmt.Errorf("%w: engagement: %w", ErrFeedUnavailable, err)
	}

	s.metrics.IncFeedPage(source)
	s.log.Debug("Feed page served",
		"user_id", req.UserID,
		"source", source,
		"count", p.Count,
		"has_more", p.HasMore,
	)
	return &p, nil
}

func (s *feedService) attachEngagement(ctx context.Context, rows []feed.Row) error {
	if s.engagement == nil || len(rows) == 0 {
		return nil
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Question.ID)
	}
	counts, err := s.engagement.Counts(ctx, ids)
	if err != nil {
		return err
	}
	for i := range rows {
		rows[i].Engagement = counts[rows[i].Question.ID]
	}
	return nil
}
