package practice

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/platform/logger"
)

// FeedScanRepo is the in-process scored scan: candidates are loaded through
// gorm and ranked by feed.Plan.
type FeedScanRepo interface {
	feed.ScoredScanner
}

type feedScanRepo struct {
	db          *gorm.DB
	log         *logger.Logger
	questions   QuestionRepo
	submissions SubmissionRepo
}

func NewFeedScanRepo(db *gorm.DB, baseLog *logger.Logger, questions QuestionRepo, submissions SubmissionRepo) FeedScanRepo {
	return &feedScanRepo{
		db:          db,
		log:         baseLog.With("repo", "FeedScanRepo"),
		questions:   questions,
		submissions: submissions,
	}
}

func (r *feedScanRepo) FetchScoredPage(ctx context.Context, req feed.ScanRequest) ([]feed.Row, error) {
	if req.Limit <= 0 {
		return []feed.Row{}, nil
	}
	questions, err := r.questions.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	subs, err := r.submissions.ListByUser(ctx, nil, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	byQuestion := make(map[string]int, len(subs))
	for i, s := range subs {
		byQuestion[s.QuestionID] = i
	}

	cands := make([]feed.Candidate, 0, len(questions))
	for _, q := range questions {
		c := feed.Candidate{Question: q}
		if i, ok := byQuestion[q.ID]; ok {
			c.Submission = subs[i]
		}
		cands = append(cands, c)
	}
	rows := feed.Plan(cands, feed.NewProfile(req.Preferences), req.DueThreshold, req.Cursor, req.Limit)
	r.log.Debug("Memory feed scan", "candidates", len(cands), "rows", len(rows))
	return rows, nil
}
