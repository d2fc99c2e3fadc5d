// Package feed ranks practice questions for one user and pages through the
// score-ordered result with a keyset cursor.
package feed

import (
	"time"

	types "github.com/yungbote/practicefeed-backend/internal/domain"
)

const (
	PreferredTopicWeight  = 3
	InterestedTopicWeight = 2
	DifficultyWeight      = 2
	PriorityWeight        = 2
)

// Breakdown carries the ranking sub-scores next to the final score so they
// can be returned for debugging.
type Breakdown struct {
	MatchingTags    int      `json:"matchingTagsCount"`
	InterestedTags  int      `json:"interestedTagsCount"`
	DifficultyMatch int      `json:"difficultyMatch"`
	Priority        Priority `json:"priority"`
	Score           int      `json:"score"`
}

// Profile is a preferences snapshot prepared for repeated ranking calls.
// It is immutable once built and safe for concurrent use.
type Profile struct {
	preferred    map[string]struct{}
	interested   map[string]struct{}
	difficulties map[types.Difficulty]struct{}
}

// NewProfile builds a profile; nil preferences rank as empty preferences.
func NewProfile(prefs *types.UserPreferences) Profile {
	p := Profile{
		preferred:    map[string]struct{}{},
		interested:   map[string]struct{}{},
		difficulties: map[types.Difficulty]struct{}{},
	}
	if prefs == nil {
		return p
	}
	for _, t := range prefs.PreferredTopics {
		p.preferred[t] = struct{}{}
	}
	for _, t := range prefs.InterestedTopics {
		p.interested[t] = struct{}{}
	}
	for _, d := range prefs.PreferredDifficulties {
		p.difficulties[d] = struct{}{}
	}
	return p
}

// Rank scores one question for the profile. Tag matching is exact (no case
// folding) and tags are treated as a set.
func (p Profile) Rank(q *types.Question, sub *types.Submission, dueThreshold time.Time) Breakdown {
	var b Breakdown
	if q != nil {
		seen := make(map[string]struct{}, len(q.Tags))
		for _, tag := range q.Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if _, ok := p.preferred[tag]; ok {
				b.MatchingTags++
			}
			if _, ok := p.interested[tag]; ok {
				b.InterestedTags++
			}
		}
		if _, ok := p.difficulties[q.Difficulty]; ok {
			b.DifficultyMatch = 1
		}
	}
	b.Priority = ClassifyPriority(sub, dueThreshold)
	b.Score = b.MatchingTags*PreferredTopicWeight +
		b.InterestedTags*InterestedTopicWeight +
		b.DifficultyMatch*DifficultyWeight +
		int(b.Priority)*PriorityWeight
	return b
}

// Rank is the one-shot form of Profile.Rank.
func Rank(q *types.Question, prefs *types.UserPreferences, sub *types.Submission, dueThreshold time.Time) Breakdown {
	return NewProfile(prefs).Rank(q, sub, dueThreshold)
}

// DueThreshold is the review boundary for a given instant.
func DueThreshold(now time.Time, reviewInterval time.Duration) time.Time {
	return now.Add(-reviewInterval)
}
