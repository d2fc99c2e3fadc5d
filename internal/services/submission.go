package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/platform/apierr"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

type SubmissionResult struct {
	IsCorrect       bool   `json:"isCorrect"`
	Attempts        int    `json:"attempts"`
	CorrectAttempts int    `json:"correctAttempts"`
	CorrectOption   int    `json:"correctOption"`
	Explanation     string `json:"explanation"`
	PointsAwarded   int    `json:"pointsAwarded"`
}

type SubmissionHistory struct {
	Items []*types.Submission `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}

type SubmissionService interface {
	Submit(ctx context.Context, questionID string, selectedOption int) (*SubmissionResult, error)
	History(ctx context.Context, page, limit int) (*SubmissionHistory, error)
}

type submissionService struct {
	db           *gorm.DB
	log          *logger.Logger
	questionRepo repos.QuestionRepo
	subRepo      repos.SubmissionRepo
	attemptRepo  repos.QuestionAttemptRepo
	userRepo     repos.UserRepo
	metrics      *observability.Metrics
	now          func() time.Time
}

func NewSubmissionService(
	db *gorm.DB,
	log *logger.Logger,
	questionRepo repos.QuestionRepo,
	subRepo repos.SubmissionRepo,
	attemptRepo repos.QuestionAttemptRepo,
	userRepo repos.UserRepo,
	metrics *observability.Metrics,
) SubmissionService {
	return &submissionService{
		db:           db,
		log:          log.With("service", "SubmissionService"),
		questionRepo: questionRepo,
		subRepo:      subRepo,
		attemptRepo:  attemptRepo,
		userRepo:     userRepo,
		metrics:      metrics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Submit grades one answer. The attempt log, the submission summary and any
// points awarded are written in a single transaction.
func (s *submissionService) Submit(ctx context.Context, questionID string, selectedOption int) (*SubmissionResult, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	q, err := s.questionRepo.GetByID(ctx, nil, questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("question %q not found", questionID))
	}
	if !q.HasOption(selectedOption) {
		return nil, apierr.BadRequest("invalid_request", fmt.Errorf("selectedOption must be between 0 and %d", len(q.Options)-1))
	}

	correct := selectedOption == q.CorrectOption
	now := s.now()
	res := &SubmissionResult{
		IsCorrect:     correct,
		CorrectOption: q.CorrectOption,
		Explanation:   q.Explanation,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.attemptRepo.Create(ctx, tx, []*types.QuestionAttempt{{
			UserID:         userID,
			QuestionID:     q.ID,
			SelectedOption: selectedOption,
			IsCorrect:      correct,
			CreatedAt:      now,
		}}); err != nil {
			return fmt.Errorf("append attempt: %w", err)
		}
		sub, err := s.subRepo.RecordAnswer(ctx, tx, userID, q.ID, correct, now)
		if err != nil {
			return fmt.Errorf("record answer: %w", err)
		}
		res.Attempts = sub.Attempts
		res.CorrectAttempts = sub.CorrectAttempts

		if correct && sub.CorrectAttempts == 1 {
			res.PointsAwarded = q.Difficulty.Points()
			if err := s.userRepo.Ensure(ctx, tx, userID); err != nil {
				return fmt.Errorf("ensure user: %w", err)
			}
			if err := s.userRepo.AddScore(ctx, tx, userID, res.PointsAwarded); err != nil {
				return fmt.Errorf("award points: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Submit failed", "user_id", userID, "question_id", questionID, "error", err)
		return nil, err
	}
	s.metrics.IncSubmission(correct)
	return res, nil
}

func (s *submissionService) History(ctx context.Context, page, limit int) (*SubmissionHistory, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	page, limit = normalizePaging(page, limit, 15, 100)
	rows, total, err := s.subRepo.ListHistory(ctx, nil, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &SubmissionHistory{Items: rows, Total: total, Page: page, Limit: limit}, nil
}
