package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// ViewDedupeWindow suppresses repeated views from the same user.
const ViewDedupeWindow = 10 * time.Minute

type QuestionMeta struct {
	Views         int64 `json:"views"`
	Likes         int64 `json:"likes"`
	Comments      int64 `json:"comments"`
	Submissions   int64 `json:"submissions"`
	ViewedJustNow bool  `json:"viewedJustNow"`
}

type QuestionService interface {
	Get(ctx context.Context, questionID string) (*types.Question, error)
	// Meta records an exposure for the caller (a view at most every
	// ViewDedupeWindow, the submission's last_shown_at every time) and returns
	// engagement totals. Submissions counts users who answered.
	Meta(ctx context.Context, questionID string) (*QuestionMeta, error)
	Import(ctx context.Context, rows []*types.Question) (int, error)
}

type questionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	subRepo      repos.SubmissionRepo
	engRepo      repos.EngagementRepo
	engagement   EngagementService
	now          func() time.Time
}

func NewQuestionService(
	db *gorm.DB,
	log *logger.Logger,
	questionRepo repos.QuestionRepo,
	subRepo repos.SubmissionRepo,
	engRepo repos.EngagementRepo,
	engagement EngagementService,
) QuestionService {
	return &questionService{
		db:           db,
		log:          log.With("service", "QuestionService"),
		questionRepo: questionRepo,
		subRepo:      subRepo,
		engRepo:      engRepo,
		engagement:   engagement,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *questionService) Get(ctx context.Context, questionID string) (*types.Question, error) {
	q, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("question %q not found", questionID))
	}
	return q, nil
}

func (s *questionService) Meta(ctx context.Context, questionID string) (*QuestionMeta, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, questionID); err != nil {
		return nil, err
	}

	now := s.now()
	var recorded bool
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.engRepo.RecordView(ctx, tx, userID, questionID, now, now.Add(-ViewDedupeWindow))
		if err != nil {
			return err
		}
		recorded = ok
		// every exposure moves the spaced repetition clock, deduped view or not
		_, err = s.subRepo.MarkExposed(ctx, tx, userID, questionID, now)
		return err
	}); err != nil {
		s.log.Error("Record exposure failed", "user_id", userID, "question_id", questionID, "error", err)
		return nil, err
	}
	if recorded {
		s.engagement.Invalidate(ctx, questionID)
	}

	counts, err := s.engagement.Counts(ctx, []string{questionID})
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.CountByQuestion(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	c := counts[questionID]
	return &QuestionMeta{
		Views:         c.Views,
		Likes:         c.Likes,
		Comments:      c.Comments,
		Submissions:   subs,
		ViewedJustNow: recorded,
	}, nil
}

func (s *questionService) Import(ctx context.Context, rows []*types.Question) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	var n int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		out, err := s.questionRepo.Upsert(ctx, tx, rows)
		if err != nil {
			return err
		}
		n = len(out)
		return nil
	})
	if err != nil {
		s.log.Error("Question import failed", "rows", len(rows), "error", err)
		return 0, err
	}
	s.log.Info("Questions imported", "rows", n)
	return n, nil
}
