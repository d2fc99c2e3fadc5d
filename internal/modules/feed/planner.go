package feed

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

// Progress is the caller's submission snapshot attached to a feed row.
type Progress struct {
	Attempts        int        `json:"attempts"`
	CorrectAttempts int        `json:"correctAttempts"`
	IsCorrect       *bool      `json:"isCorrect"`
	LastShownAt     *time.Time `json:"lastShownAt"`
}

func ProgressOf(sub *types.Submission) *Progress {
	if sub == nil {
		return nil
	}
	return &Progress{
		Attempts:        sub.Attempts,
		CorrectAttempts: sub.CorrectAttempts,
		IsCorrect:       sub.IsCorrect,
		LastShownAt:     sub.LastShownAt,
	}
}

// Row is one ranked question. Progress is nil when the user never saw it.
type Row struct {
	Question   *types.Question
	Progress   *Progress
	Engagement types.EngagementCounts
	Ranking    Breakdown
}

// Key is the row's position in the feed order.
func (r Row) Key() Cursor {
	id := ""
	if r.Question != nil {
		id = r.Question.ID
	}
	return Cursor{Score: r.Ranking.Score, QuestionID: id}
}

// Compare orders keys by score descending then id ascending (byte order).
func Compare(a, b Cursor) int {
	switch {
	case a.Score > b.Score:
		return -1
	case a.Score < b.Score:
		return 1
	}
	return strings.Compare(a.QuestionID, b.QuestionID)
}

// After reports whether key sits strictly after cursor. A nil cursor or one
// without an id admits everything.
func After(key Cursor, cursor *Cursor) bool {
	if cursor == nil || cursor.QuestionID == "" {
		return true
	}
	return Compare(key, *cursor) > 0
}

// ScanRequest asks a backend for up to Limit rows strictly after Cursor.
// Callers pass page size + 1 so the extra row signals hasMore.
type ScanRequest struct {
	UserID       uuid.UUID
	Preferences  *types.UserPreferences
	DueThreshold time.Time
	Cursor       *Cursor
	Limit        int
}

// ScoredScanner is implemented by every scan backend. Implementations must
// agree on scores and order for the same inputs.
type ScoredScanner interface {
	FetchScoredPage(ctx context.Context, req ScanRequest) ([]Row, error)
}

// Candidate is an unscored question joined with the caller's submission.
type Candidate struct {
	Question   *types.Question
	Submission *types.Submission
	Engagement types.EngagementCounts
}

// Plan scores candidates, drops rows at or before the cursor, sorts and keeps
// at most limit rows. It does not mutate its inputs.
func Plan(cands []Candidate, profile Profile, dueThreshold time.Time, cursor *Cursor, limit int) []Row {
	if limit <= 0 {
		return []Row{}
	}
	rows := make([]Row, 0, len(cands))
	for _, c := range cands {
		if c.Question == nil {
			continue
		}
		row := Row{
			Question:   c.Question,
			Progress:   ProgressOf(c.Submission),
			Engagement: c.Engagement,
			Ranking:    profile.Rank(c.Question, c.Submission, dueThreshold),
		}
		if !After(row.Key(), cursor) {
			continue
		}
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b Row) int { return Compare(a.Key(), b.Key()) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// BootstrapCursor positions a cursor-less request just after the question the
// user saw most recently, rescored with the current preferences. It returns
// nil when there is nothing to anchor on, which admits the whole feed.
func BootstrapCursor(latest *types.Submission, profile Profile, dueThreshold time.Time) *Cursor {
	if latest == nil || latest.Question == nil || latest.QuestionID == "" {
		return nil
	}
	b := profile.Rank(latest.Question, latest, dueThreshold)
	return &Cursor{Score: b.Score, QuestionID: latest.QuestionID}
}
