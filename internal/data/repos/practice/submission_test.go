package practice

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/practicefeed-backend/internal/data/repos/testutil"
	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

func TestSubmissionRepoRecordAnswer(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	userID := uuid.New()
	testutil.SeedQuestion(t, ctx, tx, "sr_q1", types.DifficultyMedium)

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	first, err := repo.RecordAnswer(ctx, tx, userID, "sr_q1", false, at)
	if err != nil {
		t.Fatalf("RecordAnswer(1): %v", err)
	}
	if first.Attempts != 1 || first.CorrectAttempts != 0 || first.IsCorrect == nil || *first.IsCorrect {
		t.Fatalf("RecordAnswer(1): unexpected %+v", first)
	}

	second, err := repo.RecordAnswer(ctx, tx, userID, "sr_q1", true, at.Add(time.Minute))
	if err != nil {
		t.Fatalf("RecordAnswer(2): %v", err)
	}
	if second.ID != first.ID || second.Attempts != 2 || second.CorrectAttempts != 1 || !*second.IsCorrect {
		t.Fatalf("RecordAnswer(2): unexpected %+v", second)
	}
	if second.LastShownAt == nil || !second.LastShownAt.Equal(at.Add(time.Minute)) {
		t.Fatalf("RecordAnswer(2): lastShownAt=%v", second.LastShownAt)
	}

	if n, err := repo.CountByQuestion(ctx, tx, "sr_q1"); err != nil || n != 1 {
		t.Fatalf("CountByQuestion: n=%d err=%v", n, err)
	}

	attempts := NewQuestionAttemptRepo(db, testutil.Logger(t))
	if _, err := attempts.Create(ctx, tx, []*types.QuestionAttempt{
		{UserID: userID, QuestionID: "sr_q1", SelectedOption: 0, IsCorrect: false},
		{UserID: userID, QuestionID: "sr_q1", SelectedOption: 1, IsCorrect: true},
	}); err != nil {
		t.Fatalf("attempts.Create: %v", err)
	}
	if rows, err := attempts.ListByUserAndQuestion(ctx, tx, userID, "sr_q1"); err != nil || len(rows) != 2 {
		t.Fatalf("attempts.ListByUserAndQuestion: err=%v len=%d", err, len(rows))
	}
}

func TestSubmissionRepoLatestShownAndHistory(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	userID := uuid.New()
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	if got, err := repo.LatestShown(ctx, tx, userID); err != nil || got != nil {
		t.Fatalf("LatestShown(empty): got=%v err=%v", got, err)
	}

	testutil.SeedQuestion(t, ctx, tx, "ls_old", types.DifficultyEasy)
	testutil.SeedQuestion(t, ctx, tx, "ls_new", types.DifficultyEasy)
	testutil.SeedQuestion(t, ctx, tx, "ls_never", types.DifficultyEasy)
	testutil.SeedSubmission(t, ctx, tx, userID, "ls_old", 1, 1, testutil.PtrBool(true), testutil.PtrTime(now.Add(-48*time.Hour)))
	testutil.SeedSubmission(t, ctx, tx, userID, "ls_new", 1, 0, testutil.PtrBool(false), testutil.PtrTime(now.Add(-time.Hour)))
	testutil.SeedSubmission(t, ctx, tx, userID, "ls_never", 0, 0, nil, nil)

	latest, err := repo.LatestShown(ctx, tx, userID)
	if err != nil || latest == nil || latest.QuestionID != "ls_new" {
		t.Fatalf("LatestShown: got=%+v err=%v", latest, err)
	}
	if latest.Question == nil || latest.Question.ID != "ls_new" {
		t.Fatalf("LatestShown: question not preloaded")
	}

	touched, err := repo.MarkExposed(ctx, tx, userID, "ls_old", now)
	if err != nil || touched == nil {
		t.Fatalf("MarkExposed: got=%+v err=%v", touched, err)
	}
	if touched.Attempts != 1 || touched.CorrectAttempts != 1 || touched.IsCorrect == nil || !*touched.IsCorrect {
		t.Fatalf("MarkExposed must keep answer progress: %+v", touched)
	}
	if latest, _ = repo.LatestShown(ctx, tx, userID); latest == nil || latest.QuestionID != "ls_old" {
		t.Fatalf("LatestShown after MarkExposed: got=%+v", latest)
	}

	rows, total, err := repo.ListHistory(ctx, tx, userID, 0, 2)
	if err != nil || total != 3 || len(rows) != 2 {
		t.Fatalf("ListHistory: total=%d len=%d err=%v", total, len(rows), err)
	}
	if rows[0].Question == nil {
		t.Fatalf("ListHistory: question not preloaded")
	}
	if all, err := repo.ListByUser(ctx, tx, userID); err != nil || len(all) != 3 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(all))
	}
}

func TestSubmissionRepoMarkExposedCreatesUnanswered(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	userID := uuid.New()
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	testutil.SeedQuestion(t, ctx, tx, "ex_q1", types.DifficultyHard)

	sub, err := repo.MarkExposed(ctx, tx, userID, "ex_q1", first)
	if err != nil {
		t.Fatalf("MarkExposed(1): %v", err)
	}
	if sub == nil || sub.Attempts != 0 || sub.CorrectAttempts != 0 || sub.IsCorrect != nil {
		t.Fatalf("MarkExposed(1): unexpected %+v", sub)
	}
	if sub.LastShownAt == nil || !sub.LastShownAt.Equal(first) {
		t.Fatalf("MarkExposed(1): lastShownAt=%v", sub.LastShownAt)
	}

	later := first.Add(time.Minute)
	again, err := repo.MarkExposed(ctx, tx, userID, "ex_q1", later)
	if err != nil {
		t.Fatalf("MarkExposed(2): %v", err)
	}
	if again.ID != sub.ID || again.LastShownAt == nil || !again.LastShownAt.Equal(later) {
		t.Fatalf("MarkExposed(2): unexpected %+v", again)
	}

	latest, err := repo.LatestShown(ctx, tx, userID)
	if err != nil || latest == nil || latest.QuestionID != "ex_q1" {
		t.Fatalf("LatestShown: got=%+v err=%v", latest, err)
	}
	if n, err := repo.CountByQuestion(ctx, tx, "ex_q1"); err != nil || n != 0 {
		t.Fatalf("CountByQuestion must ignore unanswered exposures: n=%d err=%v", n, err)
	}
	if _, err := repo.MarkExposed(ctx, tx, uuid.Nil, "ex_q1", later); err == nil {
		t.Fatalf("MarkExposed(nil user): expected error")
	}
}

func TestSubmissionRepoLatestShownKeepsDeletedQuestion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionRepo(db, testutil.Logger(t))
	questions := NewQuestionRepo(db, testutil.Logger(t))
	userID := uuid.New()
	shown := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	testutil.SeedQuestion(t, ctx, tx, "del_q1", types.DifficultyEasy, "array")
	testutil.SeedSubmission(t, ctx, tx, userID, "del_q1", 1, 1, testutil.PtrBool(true), testutil.PtrTime(shown))
	if err := questions.SoftDeleteByIDs(ctx, tx, []string{"del_q1"}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}

	latest, err := repo.LatestShown(ctx, tx, userID)
	if err != nil || latest == nil {
		t.Fatalf("LatestShown: got=%+v err=%v", latest, err)
	}
	if latest.Question == nil || latest.Question.ID != "del_q1" {
		t.Fatalf("LatestShown: deleted question not preloaded: %+v", latest.Question)
	}
	if rows, _, err := repo.ListHistory(ctx, tx, userID, 0, 10); err != nil || len(rows) != 1 || rows[0].Question == nil {
		t.Fatalf("ListHistory: deleted question not preloaded: err=%v rows=%v", err, rows)
	}
}

func TestQuestionAttemptRepoListByUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewQuestionAttemptRepo(db, testutil.Logger(t))
	userID := uuid.New()
	testutil.SeedQuestion(t, ctx, tx, "al_q1", types.DifficultyEasy)

	late := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	early := late.Add(-24 * time.Hour)
	if _, err := repo.Create(ctx, tx, []*types.QuestionAttempt{
		{UserID: userID, QuestionID: "al_q1", SelectedOption: 1, IsCorrect: true, CreatedAt: late},
		{UserID: userID, QuestionID: "al_q1", SelectedOption: 0, IsCorrect: false, CreatedAt: early},
		{UserID: uuid.New(), QuestionID: "al_q1", SelectedOption: 1, IsCorrect: true, CreatedAt: late},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListByUser(ctx, tx, userID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if !rows[0].CreatedAt.Equal(early) || rows[0].IsCorrect || !rows[1].IsCorrect {
		t.Fatalf("ListByUser: not oldest first: %+v %+v", rows[0], rows[1])
	}
	if none, err := repo.ListByUser(ctx, tx, uuid.Nil); err != nil || len(none) != 0 {
		t.Fatalf("ListByUser(nil): err=%v len=%d", err, len(none))
	}
}
