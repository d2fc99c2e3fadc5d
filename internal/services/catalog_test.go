package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/practicefeed-backend/internal/data/repos/testutil"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

func TestCatalogListQuestions(t *testing.T) {
	f := newPracticeFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.db, testutil.Logger(t), f.questions, f.prefs)

	category := uniqueID("cat")
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		q := testutil.SeedQuestion(t, ctx, f.db, uniqueID("list"), types.DifficultyEasy)
		require.NoError(t, f.db.Model(q).Updates(map[string]any{
			"category":   category,
			"created_at": base.Add(time.Duration(i) * time.Minute),
		}).Error)
		ids = append(ids, q.ID)
	}
	hard := testutil.SeedQuestion(t, ctx, f.db, uniqueID("list"), types.DifficultyHard)
	require.NoError(t, f.db.Model(hard).Update("category", category).Error)

	out, err := svc.ListQuestions(ctx, QuestionListQuery{Category: category, Difficulty: "easy", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, out.Total)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.Limit)
	assert.Equal(t, 2, out.TotalPages)
	require.Len(t, out.Questions, 2)
	assert.Equal(t, ids[2], out.Questions[0].ID, "newest first")
	assert.Equal(t, ids[1], out.Questions[1].ID)

	out, err = svc.ListQuestions(ctx, QuestionListQuery{Category: category})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Limit)
	assert.EqualValues(t, 4, out.Total)
	assert.Equal(t, 1, out.TotalPages)

	_, err = svc.ListQuestions(ctx, QuestionListQuery{Difficulty: "impossible"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestCatalogTagsExcludePreferredTopics(t *testing.T) {
	f := newPracticeFixture(t)
	ctx := context.Background()
	svc := NewCatalogService(f.db, testutil.Logger(t), f.questions, f.prefs)

	prefix := uniqueID("tg")
	alpha, beta, gamma := prefix+"_alpha", prefix+"_beta", prefix+"_gamma"
	testutil.SeedQuestion(t, ctx, f.db, uniqueID("tags"), types.DifficultyEasy, gamma, alpha)
	testutil.SeedQuestion(t, ctx, f.db, uniqueID("tags"), types.DifficultyEasy, alpha, beta)

	userID := uuid.New()
	testutil.SeedPreferences(t, ctx, f.db, userID, []string{prefix + "_BETA"}, nil)

	got, err := svc.Tags(userCtx(userID), TagQuery{Search: prefix})
	require.NoError(t, err)
	assert.Equal(t, []string{alpha, gamma}, got)

	got, err = svc.Tags(userCtx(userID), TagQuery{Search: prefix, Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{gamma}, got)

	got, err = svc.Tags(userCtx(userID), TagQuery{Search: prefix, Page: 3, Limit: 1})
	require.NoError(t, err)
	assert.Empty(t, got)

	// without preferences nothing is excluded
	got, err = svc.Tags(userCtx(uuid.New()), TagQuery{Search: prefix})
	require.NoError(t, err)
	assert.Equal(t, []string{alpha, beta, gamma}, got)

	_, err = svc.Tags(context.Background(), TagQuery{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestActivityStreak(t *testing.T) {
	f := newPracticeFixture(t)
	ctx := context.Background()
	svc := NewActivityService(testutil.Logger(t), f.attempts)
	now := time.Date(2026, 6, 10, 18, 0, 0, 0, time.UTC)
	svc.(*activityService).now = func() time.Time { return now }

	q := testutil.SeedQuestion(t, ctx, f.db, uniqueID("streak"), types.DifficultyEasy)
	userID := uuid.New()
	_, err := f.attempts.Create(ctx, nil, []*types.QuestionAttempt{
		{UserID: userID, QuestionID: q.ID, SelectedOption: 0, IsCorrect: false, CreatedAt: now.AddDate(0, 0, -1)},
		{UserID: userID, QuestionID: q.ID, SelectedOption: 1, IsCorrect: true, CreatedAt: now.AddDate(0, 0, -1).Add(time.Hour)},
		{UserID: userID, QuestionID: q.ID, SelectedOption: 1, IsCorrect: true, CreatedAt: now.Add(-time.Hour)},
	})
	require.NoError(t, err)

	out, err := svc.Streak(userCtx(userID))
	require.NoError(t, err)
	assert.Equal(t, 2, out.CurrentStreak)
	assert.Equal(t, 2, out.LongestStreak)
	require.NotNil(t, out.LastActivityDate)
	assert.Equal(t, "2026-06-10", *out.LastActivityDate)
	require.Len(t, out.Days, 2)
	assert.Equal(t, 2, out.Days[0].TotalAttempts)
	assert.Equal(t, 1, out.Days[0].TotalCorrect)
	require.NotNil(t, out.Today)
	assert.Equal(t, 1, out.Today.TotalCorrect)

	empty, err := svc.Streak(userCtx(uuid.New()))
	require.NoError(t, err)
	assert.Zero(t, empty.CurrentStreak)
	assert.Nil(t, empty.LastActivityDate)
	assert.Nil(t, empty.Today)
	assert.Empty(t, empty.Days)

	_, err = svc.Streak(context.Background())
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserServiceLeaderboard(t *testing.T) {
	f := newPracticeFixture(t)
	ctx := context.Background()
	svc := NewUserService(f.db, testutil.Logger(t), f.users)

	leader := uuid.New()
	require.NoError(t, f.users.Ensure(ctx, nil, leader))
	require.NoError(t, f.users.AddScore(ctx, nil, leader, 50_000_000))
	q := testutil.SeedQuestion(t, ctx, f.db, uniqueID("board"), types.DifficultyEasy)
	testutil.SeedSubmission(t, ctx, f.db, leader, q.ID, 1, 1, testutil.PtrBool(true), nil)

	rows, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.LessOrEqual(t, len(rows), 50)
	assert.Equal(t, leader, rows[0].UserID)
	assert.EqualValues(t, 1, rows[0].ProblemsSolved)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].Score, rows[i].Score)
	}

	rows, err = svc.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
