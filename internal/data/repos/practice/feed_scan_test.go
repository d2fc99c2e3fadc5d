package practice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/practicefeed-backend/internal/data/repos/testutil"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
	"github.com/yungbote/practicefeed-backend/internal/modules/feed"
)

func TestFeedScanRepoRanksAndPages(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	logg := testutil.Logger(t)
	// repos run on the test transaction so the scan sees the seeded rows
	scan := NewFeedScanRepo(tx, logg, NewQuestionRepo(tx, logg), NewSubmissionRepo(tx, logg))

	userID := uuid.New()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := feed.DueThreshold(now, 7*24*time.Hour)

	testutil.SeedQuestion(t, ctx, tx, "fs_a", types.DifficultyEasy, "array", "hash-table")
	testutil.SeedQuestion(t, ctx, tx, "fs_b", types.DifficultyMedium, "string")
	testutil.SeedQuestion(t, ctx, tx, "fs_c", types.DifficultyHard, "graph")
	prefs := testutil.SeedPreferences(t, ctx, tx, userID, []string{"array", "hash-table"}, []string{"string"}, types.DifficultyEasy)
	// overdue and mastered: priority 2
	testutil.SeedSubmission(t, ctx, tx, userID, "fs_c", 1, 1, testutil.PtrBool(true), testutil.PtrTime(due.Add(-time.Hour)))

	rows, err := scan.FetchScoredPage(ctx, feed.ScanRequest{UserID: userID, Preferences: prefs, DueThreshold: due, Limit: 10})
	if err != nil {
		t.Fatalf("FetchScoredPage: %v", err)
	}
	scores := map[string]int{}
	for _, r := range rows {
		scores[r.Question.ID] = r.Ranking.Score
	}
	if scores["fs_a"] != 8 || scores["fs_b"] != 2 || scores["fs_c"] != 4 {
		t.Fatalf("unexpected scores: %v", scores)
	}
	var progress *feed.Progress
	for _, r := range rows {
		if r.Question.ID == "fs_c" {
			progress = r.Progress
		}
	}
	if progress == nil || progress.Attempts != 1 {
		t.Fatalf("fs_c progress missing: %+v", progress)
	}

	after, err := scan.FetchScoredPage(ctx, feed.ScanRequest{
		UserID:       userID,
		Preferences:  prefs,
		DueThreshold: due,
		Cursor:       &feed.Cursor{Score: 8, QuestionID: "fs_a"},
		Limit:        10,
	})
	if err != nil {
		t.Fatalf("FetchScoredPage(cursor): %v", err)
	}
	for _, r := range after {
		if r.Question.ID == "fs_a" {
			t.Fatalf("cursor row must be excluded")
		}
	}
}
