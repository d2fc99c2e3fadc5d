package feed

import (
	"testing"
	"time"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func timePtr(t time.Time) *time.Time { return &t }

func TestClassifyPriorityBranches(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := DueThreshold(now, 7*24*time.Hour)
	overdue := timePtr(due.Add(-time.Hour))
	recent := timePtr(now.Add(-time.Hour))

	cases := []struct {
		name string
		sub  *types.Submission
		want Priority
	}{
		{"never submitted", nil, PriorityNeverSeen},
		{"struggling", &types.Submission{Attempts: 3, CorrectAttempts: 0, IsCorrect: boolPtr(false), LastShownAt: recent}, PriorityStruggling},
		{"correct and overdue", &types.Submission{Attempts: 1, CorrectAttempts: 1, IsCorrect: boolPtr(true), LastShownAt: overdue}, PriorityDueMastered},
		{"incorrect and overdue", &types.Submission{Attempts: 1, IsCorrect: boolPtr(false), LastShownAt: overdue}, PriorityDueOther},
		{"recent", &types.Submission{Attempts: 1, CorrectAttempts: 1, IsCorrect: boolPtr(true), LastShownAt: recent}, PriorityFresh},
	}
	for _, tc := range cases {
		if got := ClassifyPriority(tc.sub, due); got != tc.want {
			t.Fatalf("%s: want=%d got=%d", tc.name, tc.want, got)
		}
	}
}

func TestClassifyPriorityBoundaries(t *testing.T) {
	due := time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)

	// attempts must exceed the threshold
	sub := &types.Submission{Attempts: 2, CorrectAttempts: 0, LastShownAt: timePtr(due.Add(time.Minute))}
	if got := ClassifyPriority(sub, due); got != PriorityFresh {
		t.Fatalf("attempts=2: want fresh got %s", got)
	}

	// struggling wins over overdue
	sub = &types.Submission{Attempts: 5, CorrectAttempts: 0, IsCorrect: boolPtr(false), LastShownAt: timePtr(due.Add(-48 * time.Hour))}
	if got := ClassifyPriority(sub, due); got != PriorityStruggling {
		t.Fatalf("struggling overdue: want struggling got %s", got)
	}

	// lastShownAt equal to the threshold is not overdue
	sub = &types.Submission{Attempts: 1, CorrectAttempts: 1, IsCorrect: boolPtr(true), LastShownAt: timePtr(due)}
	if got := ClassifyPriority(sub, due); got != PriorityFresh {
		t.Fatalf("equal threshold: want fresh got %s", got)
	}

	// null lastShownAt never counts as overdue
	sub = &types.Submission{Attempts: 1, CorrectAttempts: 1, IsCorrect: boolPtr(true)}
	if got := ClassifyPriority(sub, due); got != PriorityFresh {
		t.Fatalf("nil lastShownAt: want fresh got %s", got)
	}

	// unanswered but overdue
	sub = &types.Submission{LastShownAt: timePtr(due.Add(-time.Second))}
	if got := ClassifyPriority(sub, due); got != PriorityDueOther {
		t.Fatalf("nil isCorrect overdue: want due_other got %s", got)
	}
}
