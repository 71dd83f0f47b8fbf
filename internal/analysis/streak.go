package analysis

import (
	"sort"
	"time"
)

// Streak describes consecutive-activity-day runs.
type Streak struct {
	Current          int
	Longest          int
	LastActivityDate *time.Time
}

// CalculateStreak computes the current and longest consecutive-day streaks
// from a set of workout timestamps. The current streak only counts if the
// most recent activity was today or yesterday.
func CalculateStreak(dates []time.Time) Streak {
	return streakAt(dates, time.Now().UTC())
}

func streakAt(dates []time.Time, now time.Time) Streak {
	if len(dates) == 0 {
		return Streak{}
	}

	// Reduce to unique UTC calendar days, ascending.
	seen := make(map[string]time.Time)
	for _, d := range dates {
		day := truncateDay(d)
		seen[dayKey(day)] = day
	}
	days := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	today := truncateDay(now)
	yesterday := today.AddDate(0, 0, -1)

	last := days[len(days)-1]
	current := 0
	if last.Equal(today) || last.Equal(yesterday) {
		current = 1
		for i := len(days) - 2; i >= 0; i-- {
			if days[i].Equal(days[i+1].AddDate(0, 0, -1)) {
				current++
			} else {
				break
			}
		}
	}

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return Streak{
		Current:          current,
		Longest:          longest,
		LastActivityDate: &last,
	}
}
