package feed

import (
	"time"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

// Priority is the spaced-repetition state of one (user, question) pair.
// It is a state tag, not an urgency rank: the ranking weight decides how it
// contributes to the score.
type Priority int

const (
	PriorityNeverSeen   Priority = 0
	PriorityStruggling  Priority = 1
	PriorityDueMastered Priority = 2
	PriorityDueOther    Priority = 3
	PriorityFresh       Priority = 4
)

// StrugglingAttempts is the attempt count a never-correct submission must exceed.
const StrugglingAttempts = 2

func (p Priority) String() string {
	switch p {
	case PriorityNeverSeen:
		return "never_seen"
	case PriorityStruggling:
		return "struggling"
	case PriorityDueMastered:
		return "due_mastered"
	case PriorityDueOther:
		return "due_other"
	case PriorityFresh:
		return "fresh"
	default:
		return "unknown"
	}
}

// ClassifyPriority evaluates the ordered decision list against a submission
// snapshot. First match wins; comparisons are strict (attempts > 2,
// lastShownAt < dueThreshold).
func ClassifyPriority(sub *types.Submission, dueThreshold time.Time) Priority {
	if sub == nil {
		return PriorityNeverSeen
	}
	if sub.Attempts > StrugglingAttempts && sub.CorrectAttempts == 0 {
		return PriorityStruggling
	}
	due := sub.LastShownAt != nil && sub.LastShownAt.Before(dueThreshold)
	if due && sub.IsCorrect != nil && *sub.IsCorrect {
		return PriorityDueMastered
	}
	if due {
		return PriorityDueOther
	}
	return PriorityFresh
}
