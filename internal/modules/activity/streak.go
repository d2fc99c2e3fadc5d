package activity

import (
	"sort"
	"time"
)

// DateLayout is the bucket key for a day of activity, always in UTC.
const DateLayout = "2006-01-02"

// Event is one answered question.
type Event struct {
	At      time.Time
	Correct bool
}

type Day struct {
	Date          string
	TotalAttempts int
	TotalCorrect  int
}

type Summary struct {
	CurrentStreak    int
	LongestStreak    int
	LastActivityDate *string
	// Days holds the active days on or after the since date, oldest first.
	Days  []Day
	Today *Day
}

// Summarize buckets events by UTC day. The current streak runs back from
// today, or from yesterday when nothing was answered today yet, so a streak
// stays alive until the day it would be broken ends.
func Summarize(events []Event, now, since time.Time) Summary {
	byDate := map[string]*Day{}
	for _, ev := range events {
		key := ev.At.UTC().Format(DateLayout)
		d, ok := byDate[key]
		if !ok {
			d = &Day{Date: key}
			byDate[key] = d
		}
		d.TotalAttempts++
		if ev.Correct {
			d.TotalCorrect++
		}
	}

	dates := make([]string, 0, len(byDate))
	for k := range byDate {
		dates = append(dates, k)
	}
	sort.Strings(dates)

	out := Summary{Days: []Day{}}
	if len(dates) == 0 {
		return out
	}

	last := dates[len(dates)-1]
	out.LastActivityDate = &last

	run := 0
	var prev time.Time
	for i, key := range dates {
		day, _ := time.Parse(DateLayout, key)
		if i > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > out.LongestStreak {
			out.LongestStreak = run
		}
		prev = day
	}

	today := truncateDay(now)
	cursor := today
	if _, ok := byDate[cursor.Format(DateLayout)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}
	for {
		if _, ok := byDate[cursor.Format(DateLayout)]; !ok {
			break
		}
		out.CurrentStreak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	sinceKey := truncateDay(since).Format(DateLayout)
	for _, key := range dates {
		if key >= sinceKey {
			out.Days = append(out.Days, *byDate[key])
		}
	}
	if d, ok := byDate[today.Format(DateLayout)]; ok {
		t := *d
		out.Today = &t
	}
	return out
}

// Window is the start of the daily history returned alongside a streak.
func Window(now time.Time) time.Time {
	return now.UTC().AddDate(0, -3, 0)
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
