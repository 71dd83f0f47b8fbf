package analysis

import (
	"time"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

func floatPtr(f float64) *float64 {
	return &f
}

// ergWorkout builds a minimal erg workout for tests.
func ergWorkout(id int64, date time.Time, machine store.MachineType, distanceM, durationSec float64) store.Workout {
	return store.Workout{
		ID:          id,
		AthleteID:   1,
		Date:        date,
		Sport:       store.SportErg,
		Machine:     machine,
		DistanceM:   floatPtr(distanceM),
		DurationSec: floatPtr(durationSec),
	}
}

// evenSplits builds n identical splits of the given distance and time.
func evenSplits(n int, distanceM, timeSec float64, power *float64) []store.Split {
	splits := make([]store.Split, n)
	for i := range splits {
		splits[i] = store.Split{Idx: i, DistanceM: distanceM, TimeSec: timeSec, AvgPower: power}
	}
	return splits
}

var testDay = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func defaultTestSettings() Settings {
	return Settings{
		MaxHR:       190,
		ThresholdHR: 169,
		FTP:         250,
		TSBAlert:    DefaultTSBAlert,
		ACWRAlert:   DefaultACWRAlert,
	}
}
