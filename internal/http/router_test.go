package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/practicefeed-backend/internal/data/repos"
	"github.com/yungbote/practicefeed-backend/internal/data/repos/testutil"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	httpH "github.com/yungbote/practicefeed-backend/internal/http/handlers"
	httpMW "github.com/yungbote/practicefeed-backend/internal/http/middleware"
	"github.com/yungbote/practicefeed-backend/internal/observability"
	"github.com/yungbote/practicefeed-backend/internal/services"
)

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (a apiClient) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func newTestAPI(t *testing.T) (apiClient, *observability.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.New()

	questionRepo := repos.NewQuestionRepo(db, log)
	prefsRepo := repos.NewUserPreferencesRepo(db, log)
	subRepo := repos.NewSubmissionRepo(db, log)
	attemptRepo := repos.NewQuestionAttemptRepo(db, log)
	engRepo := repos.NewEngagementRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)
	scan := repos.NewFeedScanRepo(db, log, questionRepo, subRepo)

	auth, err := services.NewAuthService(log, "test-secret", "", time.Hour)
	require.NoError(t, err)
	engagement := services.NewEngagementService(db, log, engRepo, questionRepo, nil, metrics)
	users := services.NewUserService(db, log, userRepo)

	engine := NewRouter(RouterConfig{
		Log:                log,
		Metrics:            metrics,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, auth),
		FeedHandler:        httpH.NewFeedHandler(services.NewFeedService(log, prefsRepo, subRepo, scan, engagement, metrics, services.FeedConfig{})),
		PreferencesHandler: httpH.NewPreferencesHandler(services.NewPreferencesService(db, log, prefsRepo, 50)),
		SubmissionHandler:  httpH.NewSubmissionHandler(services.NewSubmissionService(db, log, questionRepo, subRepo, attemptRepo, userRepo, metrics)),
		QuestionHandler:    httpH.NewQuestionHandler(services.NewQuestionService(db, log, questionRepo, subRepo, engRepo, engagement), engagement, users),
		UserHandler:        httpH.NewUserHandler(users),
		CatalogHandler:     httpH.NewCatalogHandler(services.NewCatalogService(db, log, questionRepo, prefsRepo)),
		ActivityHandler:    httpH.NewActivityHandler(services.NewActivityService(log, attemptRepo)),
		HealthHandler:      httpH.NewHealthHandler(metrics),
	})

	token, err := auth.IssueAccessToken(uuid.New())
	require.NoError(t, err)
	return apiClient{t: t, engine: engine, token: token}, metrics
}

func TestRouterPublicAndAuth(t *testing.T) {
	api, _ := newTestAPI(t)

	rec, _ := apiClient{t: t, engine: api.engine}.do(nethttp.MethodGet, "/healthcheck", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	rec, body := apiClient{t: t, engine: api.engine}.do(nethttp.MethodGet, "/api/feed", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", body["error"].(map[string]any)["code"])

	rec, _ = apiClient{t: t, engine: api.engine, token: "garbage.token.value"}.do(nethttp.MethodGet, "/api/feed", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func TestRouterPracticeFlow(t *testing.T) {
	api, metrics := newTestAPI(t)
	db := testutil.DB(t)
	ctx := t.Context()

	prefix := "rt" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	q1 := testutil.SeedQuestion(t, ctx, db, prefix+"_1", types.DifficultyMedium, prefix+"-array")
	q2 := testutil.SeedQuestion(t, ctx, db, prefix+"_2", types.DifficultyEasy, prefix+"-graph")

	rec, body := api.do(nethttp.MethodPut, "/api/preferences", map[string]any{
		"preferredTopics":       []string{prefix + "-array"},
		"preferredDifficulties": []string{"medium"},
	})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"MEDIUM"}, body["preferredDifficulties"])

	rec, _ = api.do(nethttp.MethodPatch, "/api/preferences", map[string]any{"preferredDifficulties": []string{"bogus"}})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = api.do(nethttp.MethodGet, "/api/feed?limit=50", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var first map[string]any
	for _, it := range body["items"].([]any) {
		row := it.(map[string]any)
		if row["id"] == q1.ID {
			first = row
		}
		assert.NotContains(t, row, "explanation")
	}
	require.NotNil(t, first, "seeded question missing from feed")
	assert.EqualValues(t, 5, first["score"])

	rec, _ = api.do(nethttp.MethodGet, "/api/feed?limit=x", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, body = api.do(nethttp.MethodPost, "/api/submissions", map[string]any{"questionId": q1.ID, "selectedOption": q1.CorrectOption})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, body["isCorrect"])
	assert.EqualValues(t, 10, body["pointsAwarded"])

	rec, _ = api.do(nethttp.MethodPost, "/api/submissions", map[string]any{"questionId": q2.ID, "selectedOption": 9})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	rec, _ = api.do(nethttp.MethodPost, "/api/submissions", map[string]any{"questionId": q2.ID})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	rec, _ = api.do(nethttp.MethodPost, "/api/submissions", map[string]any{"questionId": "nope-" + prefix, "selectedOption": 0})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec, body = api.do(nethttp.MethodGet, "/api/submissions", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["total"])

	rec, body = api.do(nethttp.MethodGet, "/api/me", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.EqualValues(t, 10, body["score"])

	rec, body = api.do(nethttp.MethodGet, "/api/questions/"+q1.ID+"/meta", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, body["viewedJustNow"])
	assert.EqualValues(t, 1, body["views"])

	rec, body = api.do(nethttp.MethodPost, "/api/questions/"+q1.ID+"/like", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, body["liked"])

	rec, body = api.do(nethttp.MethodGet, "/api/questions/"+q1.ID+"/like", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["likes"])
	assert.Equal(t, true, body["isLiked"])

	rec, _ = api.do(nethttp.MethodPost, "/api/questions/"+q1.ID+"/comments", map[string]any{"body": "neat"})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
	rec, body = api.do(nethttp.MethodGet, "/api/questions/"+q1.ID+"/comments", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, body["items"], 1)

	rec, body = api.do(nethttp.MethodGet, "/api/questions/"+q1.ID, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.NotContains(t, body, "correctOption")
	rec, _ = api.do(nethttp.MethodGet, "/api/questions/ghost-"+prefix, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec, _ = apiClient{t: t, engine: api.engine}.do(nethttp.MethodGet, "/metrics", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="/api/feed",status="200"}`)
	assert.Equal(t, float64(1), metrics.SubmissionCount(true))
}

func TestRouterCatalogAndActivity(t *testing.T) {
	api, _ := newTestAPI(t)
	anon := apiClient{t: t, engine: api.engine}
	db := testutil.DB(t)
	ctx := t.Context()

	prefix := "rc" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	q1 := testutil.SeedQuestion(t, ctx, db, prefix+"_1", types.DifficultyEasy, prefix+"-tree", prefix+"-heap")
	q2 := testutil.SeedQuestion(t, ctx, db, prefix+"_2", types.DifficultyHard, prefix+"-tree")
	require.NoError(t, db.Model(q1).Update("category", prefix).Error)
	require.NoError(t, db.Model(q2).Update("category", prefix).Error)

	rec, body := anon.do(nethttp.MethodGet, "/api/questions?category="+prefix+"&limit=1", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, body["questions"], 1)
	meta := body["metadata"].(map[string]any)
	assert.EqualValues(t, 2, meta["total"])
	assert.EqualValues(t, 2, meta["totalPages"])
	assert.EqualValues(t, 1, meta["limit"])

	rec, _ = anon.do(nethttp.MethodGet, "/api/questions?difficulty=bogus", nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec, _ = anon.do(nethttp.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var board []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &board))
	for _, row := range board {
		assert.Contains(t, row, "problemsSolved")
	}

	rec, _ = anon.do(nethttp.MethodGet, "/api/tags", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	rec, _ = anon.do(nethttp.MethodGet, "/api/streak", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec, _ = api.do(nethttp.MethodPut, "/api/preferences", map[string]any{"preferredTopics": []string{prefix + "-HEAP"}})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	rec, _ = api.do(nethttp.MethodGet, "/api/tags?search="+prefix, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var tags []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	assert.Equal(t, []string{prefix + "-tree"}, tags)

	rec, _ = api.do(nethttp.MethodPost, "/api/submissions", map[string]any{"questionId": q1.ID, "selectedOption": q1.CorrectOption})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	rec, body = api.do(nethttp.MethodGet, "/api/streak", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 1, body["currentStreak"])
	assert.EqualValues(t, 1, body["longestStreak"])
	assert.Len(t, body["dailyActivities"], 1)
	today := body["todayActivity"].(map[string]any)
	assert.EqualValues(t, 1, today["totalCorrect"])
}
