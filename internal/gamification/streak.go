package gamification

import "time"

const DateLayout = "2006-01-02"

// Today formats t as a UTC calendar date.
func Today(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// NextStreak applies one day of activity to a streak. lastActive is the
// previous active date (empty if never active). changed is false when the
// learner was already active today.
func NextStreak(current int, lastActive string, now time.Time) (streak int, date string, changed bool) {
	today := Today(now)
	if lastActive == today {
		return current, lastActive, false
	}

	yesterday := now.UTC().AddDate(0, 0, -1).Format(DateLayout)
	if lastActive == yesterday {
		return current + 1, today, true
	}

	// First activity or streak broken
	return 1, today, true
}
