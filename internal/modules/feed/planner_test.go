package feed

import (
	"fmt"
	"testing"
	"time"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

func TestPlanOrdersByScoreThenID(t *testing.T) {
	due := time.Now()
	prefs := prefsFor([]string{"array"}, nil)
	cands := []Candidate{
		{Question: question("c", types.DifficultyEasy)},
		{Question: question("b", types.DifficultyEasy, "array")},
		{Question: question("a", types.DifficultyEasy)},
		{Question: question("d", types.DifficultyEasy, "array")},
	}

	rows := Plan(cands, NewProfile(prefs), due, nil, 10)
	got := ids(rows)
	want := []string{"b", "d", "a", "c"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("order: want=%v got=%v", want, got)
	}
	if cands[0].Question.ID != "c" {
		t.Fatalf("input mutated")
	}
}

func TestPlanAppliesCursorStrictly(t *testing.T) {
	due := time.Now()
	prefs := prefsFor([]string{"array"}, nil)
	cands := []Candidate{
		{Question: question("a", types.DifficultyEasy, "array")},
		{Question: question("b", types.DifficultyEasy, "array")},
		{Question: question("c", types.DifficultyEasy)},
	}

	rows := Plan(cands, NewProfile(prefs), due, &Cursor{Score: 3, QuestionID: "a"}, 10)
	if fmt.Sprint(ids(rows)) != fmt.Sprint([]string{"b", "c"}) {
		t.Fatalf("after cursor: got %v", ids(rows))
	}

	rows = Plan(cands, NewProfile(prefs), due, &Cursor{Score: 3, QuestionID: "a"}, 1)
	if len(rows) != 1 || rows[0].Question.ID != "b" {
		t.Fatalf("limit: got %v", ids(rows))
	}

	rows = Plan(cands, NewProfile(prefs), due, &Cursor{Score: 0, QuestionID: ""}, 10)
	if len(rows) != 3 {
		t.Fatalf("id-less cursor must admit everything, got %v", ids(rows))
	}
}

func TestBootstrapCursorRescoresLatest(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := DueThreshold(now, 7*24*time.Hour)
	q := question("q9", types.DifficultyEasy, "array")
	latest := &types.Submission{QuestionID: "q9", Question: q, Attempts: 1, CorrectAttempts: 1, IsCorrect: boolPtr(true), LastShownAt: timePtr(now.Add(-time.Hour))}

	cur := BootstrapCursor(latest, NewProfile(prefsFor([]string{"array"}, nil, types.DifficultyEasy)), due)
	if cur == nil || cur.QuestionID != "q9" || cur.Score != 3+2+8 {
		t.Fatalf("unexpected bootstrap cursor %+v", cur)
	}
	if BootstrapCursor(nil, NewProfile(nil), due) != nil {
		t.Fatalf("no submission must yield nil cursor")
	}
}

func TestNewPage(t *testing.T) {
	rows := make([]Row, 0, 4)
	for i, s := range []int{9, 7, 7, 1} {
		rows = append(rows, Row{Question: question(fmt.Sprintf("q%d", i), types.DifficultyEasy), Ranking: Breakdown{Score: s}})
	}

	p := NewPage(rows, 3)
	if !p.HasMore || p.Count != 3 || p.NextCursor == nil || *p.NextCursor != "7_q2" {
		t.Fatalf("over-fetched page: %+v", p)
	}

	p = NewPage(rows[:2], 3)
	if p.HasMore || p.NextCursor != nil || p.Count != 2 {
		t.Fatalf("short page: %+v", p)
	}

	p = NewPage(nil, 10)
	if p.Items == nil || p.Count != 0 || p.HasMore || p.NextCursor != nil {
		t.Fatalf("empty page: %+v", p)
	}
}

func TestResolveLimit(t *testing.T) {
	n := func(v int) *int { return &v }
	cases := []struct {
		req      *int
		feedSize int
		want     int
	}{
		{nil, 0, 10},
		{nil, 25, 25},
		{n(5), 25, 5},
		{n(0), 0, 1},
		{n(500), 0, 50},
		{nil, 80, 50},
	}
	for _, tc := range cases {
		if got := ResolveLimit(tc.req, tc.feedSize, 10, 50); got != tc.want {
			t.Fatalf("req=%v feed=%d: want=%d got=%d", tc.req, tc.feedSize, tc.want, got)
		}
	}
}

func ids(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Question.ID)
	}
	return out
}
