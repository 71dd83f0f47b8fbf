package analysis

import (
	"testing"
	"time"
)

func TestCalculateStreak(t *testing.T) {
	today := testDay

	days := func(offsets ...int) []time.Time {
		out := make([]time.Time, len(offsets))
		for i, off := range offsets {
			out[i] = today.AddDate(0, 0, -off)
		}
		return out
	}

	tests := []struct {
		name        string
		dates       []time.Time
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "three days through today",
			dates:       days(0, 1, 2),
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name:        "single day two days ago",
			dates:       days(2),
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name:        "streak anchored at yesterday",
			dates:       days(1, 2, 3, 4),
			wantCurrent: 4,
			wantLongest: 4,
		},
		{
			name:        "gap breaks current but not longest",
			dates:       days(0, 1, 5, 6, 7, 8, 9),
			wantCurrent: 2,
			wantLongest: 5,
		},
		{
			name:        "multiple workouts on one day count once",
			dates:       append(days(0, 0, 0), days(1)...),
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name:        "old history only",
			dates:       days(30, 31, 32, 40),
			wantCurrent: 0,
			wantLongest: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := streakAt(tt.dates, today)
			if got.Current != tt.wantCurrent {
				t.Errorf("Current = %d, want %d", got.Current, tt.wantCurrent)
			}
			if got.Longest != tt.wantLongest {
				t.Errorf("Longest = %d, want %d", got.Longest, tt.wantLongest)
			}
			if got.LastActivityDate == nil {
				t.Error("LastActivityDate = nil, want most recent day")
			}
		})
	}
}

func TestCalculateStreak_Empty(t *testing.T) {
	got := streakAt(nil, testDay)
	if got.Current != 0 || got.Longest != 0 {
		t.Errorf("empty input: got {%d, %d}, want {0, 0}", got.Current, got.Longest)
	}
	if got.LastActivityDate != nil {
		t.Errorf("empty input: LastActivityDate = %v, want nil", got.LastActivityDate)
	}
}

func TestCalculateStreak_TimesOfDayCollapse(t *testing.T) {
	// Morning and evening sessions on consecutive UTC days.
	dates := []time.Time{
		testDay.Add(-2 * time.Hour),
		testDay.AddDate(0, 0, -1).Add(8 * time.Hour),
	}
	got := streakAt(dates, testDay)
	if got.Current != 2 {
		t.Errorf("Current = %d, want 2", got.Current)
	}
}
