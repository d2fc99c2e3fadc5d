package handlers

import (
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/modules/activity"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

// questionView never carries the correct option or the explanation.
type questionView struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Options     []types.QuestionOption `json:"options"`
	Difficulty  types.Difficulty       `json:"difficulty"`
	Category    string                 `json:"category"`
	Tags        []string               `json:"tags"`
	CodeSnippet *string                `json:"codeSnippet"`
}

func newQuestionView(q *types.Question) questionView {
	v := questionView{
		ID:          q.ID,
		Title:       q.Title,
		Description: q.Description,
		Options:     []types.QuestionOption(q.Options),
		Difficulty:  q.Difficulty,
		Category:    q.Category,
		Tags:        []string(q.Tags),
		CodeSnippet: q.CodeSnippet,
	}
	if v.Options == nil {
		v.Options = []types.QuestionOption{}
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	return v
}

type feedRowView struct {
	questionView
	UserProgress  *feed.Progress `json:"userProgress"`
	ViewsCount    int64          `json:"viewsCount"`
	LikesCount    int64          `json:"likesCount"`
	CommentsCount int64          `json:"commentsCount"`
	feed.Breakdown
}

type feedPageView struct {
	Items      []feedRowView `json:"items"`
	NextCursor *string       `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
	Count      int           `json:"count"`
	Limit      int           `json:"limit"`
}

func newFeedPageView(p *feed.Page) feedPageView {
	out := feedPageView{
		Items:      make([]feedRowView, 0, len(p.Items)),
		NextCursor: p.NextCursor,
		HasMore:    p.HasMore,
		Count:      p.Count,
		Limit:      p.Limit,
	}
	for _, r := range p.Items {
		out.Items = append(out.Items, feedRowView{
			questionView:  newQuestionView(r.Question),
			UserProgress:  r.Progress,
			ViewsCount:    r.Engagement.Views,
			LikesCount:    r.Engagement.Likes,
			CommentsCount: r.Engagement.Comments,
			Breakdown:     r.Ranking,
		})
	}
	return out
}

type preferencesView struct {
	PreferredDifficulties []types.Difficulty `json:"preferredDifficulties"`
	PreferredTopics       []string           `json:"preferredTopics"`
	InterestedTopics      []string           `json:"interestedTopics"`
	PreferredLanguages    []string           `json:"preferredLanguages"`
	FeedSize              int                `json:"feedSize"`
}

func newPreferencesView(p *types.UserPreferences) preferencesView {
	return preferencesView{
		PreferredDifficulties: orEmpty([]types.Difficulty(p.PreferredDifficulties)),
		PreferredTopics:       orEmpty([]string(p.PreferredTopics)),
		InterestedTopics:      orEmpty([]string(p.InterestedTopics)),
		PreferredLanguages:    orEmpty([]string(p.PreferredLanguages)),
		FeedSize:              p.FeedSize,
	}
}

type submissionView struct {
	QuestionID      string           `json:"questionId"`
	Title           string           `json:"title"`
	Difficulty      types.Difficulty `json:"difficulty"`
	Attempts        int              `json:"attempts"`
	CorrectAttempts int              `json:"correctAttempts"`
	IsCorrect       *bool            `json:"isCorrect"`
	LastShownAt     *time.Time       `json:"lastShownAt"`
	SubmittedAt     *time.Time       `json:"submittedAt"`
}

type submissionHistoryView struct {
	Items []submissionView `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func newSubmissionHistoryView(h *services.SubmissionHistory) submissionHistoryView {
	out := submissionHistoryView{Items: make([]submissionView, 0, len(h.Items)), Total: h.Total, Page: h.Page, Limit: h.Limit}
	for _, s := range h.Items {
		v := submissionView{
			QuestionID:      s.QuestionID,
			Attempts:        s.Attempts,
			CorrectAttempts: s.CorrectAttempts,
			IsCorrect:       s.IsCorrect,
			LastShownAt:     s.LastShownAt,
			SubmittedAt:     s.SubmittedAt,
		}
		if s.Question != nil {
			v.Title = s.Question.Title
			v.Difficulty = s.Question.Difficulty
		}
		out.Items = append(out.Items, v)
	}
	return out
}

type commentView struct {
	ID         uuid.UUID `json:"id"`
	QuestionID string    `json:"questionId"`
	UserID     uuid.UUID `json:"userId"`
	AuthorName string    `json:"authorName,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

func newCommentView(c *types.QuestionComment, names map[uuid.UUID]string) commentView {
	return commentView{
		ID:         c.ID,
		QuestionID: c.QuestionID,
		UserID:     c.UserID,
		AuthorName: names[c.UserID],
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}

type userView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName"`
	Score       int       `json:"score"`
}

func newUserView(u *types.AppUser) userView {
	return userView{ID: u.ID, DisplayName: u.DisplayName, Score: u.Score}
}

type questionListMetadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type questionListView struct {
	Questions []questionView       `json:"questions"`
	Metadata  questionListMetadata `json:"metadata"`
}

func newQuestionListView(l *services.QuestionList) questionListView {
	out := questionListView{
		Questions: make([]questionView, 0, len(l.Questions)),
		Metadata:  questionListMetadata{Total: l.Total, Page: l.Page, Limit: l.Limit, TotalPages: l.TotalPages},
	}
	for _, q := range l.Questions {
		out.Questions = append(out.Questions, newQuestionView(q))
	}
	return out
}

type leaderboardEntryView struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Score          int       `json:"score"`
	ProblemsSolved int64     `json:"problemsSolved"`
}

func newLeaderboardView(rows []*types.LeaderboardEntry) []leaderboardEntryView {
	out := make([]leaderboardEntryView, 0, len(rows))
	for _, r := range rows {
		out = append(out, leaderboardEntryView{ID: r.UserID, Name: r.DisplayName, Score: r.Score, ProblemsSolved: r.ProblemsSolved})
	}
	return out
}

type dailyActivityView struct {
	Date          string `json:"date"`
	TotalAttempts int    `json:"totalAttempts"`
	TotalCorrect  int    `json:"totalCorrect"`
}

type streakView struct {
	CurrentStreak    int                 `json:"currentStreak"`
	LongestStreak    int                 `json:"longestStreak"`
	LastActivityDate *string             `json:"lastActivityDate"`
	DailyActivities  []dailyActivityView `json:"dailyActivities"`
	TodayActivity    *dailyActivityView  `json:"todayActivity"`
}

func newStreakView(s *activity.Summary) streakView {
	out := streakView{
		CurrentStreak:    s.CurrentStreak,
		LongestStreak:    s.LongestStreak,
		LastActivityDate: s.LastActivityDate,
		DailyActivities:  make([]dailyActivityView, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		out.DailyActivities = append(out.DailyActivities, dailyActivityView(d))
	}
	if s.Today != nil {
		t := dailyActivityView(*s.Today)
		out.TodayActivity = &t
	}
	return out
}

func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
