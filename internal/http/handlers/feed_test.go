package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
	"github.com/yungbote/practicefeed-backend/internal/platform/ctxutil"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type fakeFeed struct {
	page *feed.Page
	err  error
	got  services.FeedRequest
}

func (f *fakeFeed) GetFeedPage(ctx context.Context, req services.FeedRequest) (*feed.Page, error) {
	f.got = req
	return f.page, f.err
}

func serveFeed(t *testing.T, svc services.FeedService, target string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID}))
	})
	r.GET("/api/feed", NewFeedHandler(svc).GetFeed)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetFeedShapesRows(t *testing.T) {
	shown := true
	next := "8_q-1"
	q := &types.Question{
		ID: "q-1", Title: "Two sum", Description: "d",
		Options:       datatypes.JSONSlice[types.QuestionOption]{{Key: "A", Text: "x"}, {Key: "B", Text: "y"}},
		CorrectOption: 1, Explanation: "secret",
		Difficulty: types.DifficultyMedium, Tags: datatypes.JSONSlice[string]{"array"},
	}
	svc := &fakeFeed{page: &feed.Page{
		Items: []feed.Row{{
			Question:   q,
			Progress:   &feed.Progress{Attempts: 2, CorrectAttempts: 1, IsCorrect: &shown},
			Engagement: types.EngagementCounts{Views: 3, Likes: 2, Comments: 1},
			Ranking:    feed.Breakdown{MatchingTags: 1, InterestedTags: 0, DifficultyMatch: 1, Priority: feed.PriorityFresh, Score: 8},
		}},
		NextCursor: &next, HasMore: true, Count: 1, Limit: 1,
	}}
	userID := uuid.New()

	rec := serveFeed(t, svc, "/api/feed?limit=1&cursor=9_q-0", userID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "9_q-0", svc.got.Cursor)
	require.NotNil(t, svc.got.Limit)
	assert.Equal(t, 1, *svc.got.Limit)
	assert.Equal(t, userID, svc.got.UserID)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "8_q-1", body["nextCursor"])
	assert.Equal(t, true, body["hasMore"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	row := items[0].(map[string]any)
	for _, key := range []string{"id", "title", "options", "tags", "userProgress", "viewsCount", "likesCount", "commentsCount", "matchingTagsCount", "interestedTagsCount", "difficultyMatch", "priority", "score"} {
		assert.Contains(t, row, key)
	}
	assert.NotContains(t, row, "correctOption")
	assert.NotContains(t, row, "correct_option")
	assert.NotContains(t, row, "explanation")
	assert.EqualValues(t, 8, row["score"])
	assert.EqualValues(t, 4, row["priority"])
	assert.EqualValues(t, 2, row["userProgress"].(map[string]any)["attempts"])
}

func TestGetFeedLimitHandling(t *testing.T) {
	svc := &fakeFeed{page: &feed.Page{Items: []feed.Row{}}}

	rec := serveFeed(t, svc, "/api/feed?limit=abc", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serveFeed(t, svc, "/api/feed?limit=0", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, svc.got.Limit)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []any{}, body["items"])
	assert.Nil(t, body["nextCursor"])
}

func TestGetFeedUnavailable(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5432: connection refused")
	svc := &fakeFeed{err: fmt.Errorf("%w: scan: %w", services.ErrFeedUnavailable, cause)}

	rec := serveFeed(t, svc, "/api/feed", uuid.New())
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"feed unavailable","code":"feed_unavailable"}}`, rec.Body.String())
}
