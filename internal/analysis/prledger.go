package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

// RecordDistance is one standard benchmark distance.
type RecordDistance struct {
	Label  string
	Meters float64
}

// RecordDistances lists the benchmark distances tracked per machine, in
// display order. Meters are for rower/ski-erg; bike-erg benchmarks are
// double (the standard erg-equivalency convention).
var RecordDistances = []RecordDistance{
	{"500m", 500},
	{"1k", 1000},
	{"2k", 2000},
	{"5k", 5000},
	{"6k", 6000},
	{"10k", 10000},
	{"hm", 21097},
	{"fm", 42195},
}

// BenchmarkMeters returns the machine-specific meter value for a benchmark.
func BenchmarkMeters(machine store.MachineType, d RecordDistance) float64 {
	if machine == store.MachineBikeErg {
		return d.Meters * 2
	}
	return d.Meters
}

// Power-from-pace estimation constants: power = k / (seconds per meter)³.
const (
	paceToPowerErg  = 2.8  // rower and ski-erg
	paceToPowerBike = 0.35 // bike-erg flywheel
	// maxPlausiblePower caps the estimate; anything above it is treated
	// as a data artifact and nulled out.
	maxPlausiblePower = 700.0
)

// distanceMatchTolerance is how close a workout's recorded distance must be
// to a benchmark to count as an exact-distance attempt, in meters.
const distanceMatchTolerance = 0.5

// Qualification thresholds for the best-split scan.
const (
	minScanDistanceM = 500.0
	minScanSplits    = 2
)

// Attempt is one timed effort at a benchmark distance.
type Attempt struct {
	TimeSec   float64
	Date      time.Time
	WorkoutID int64 // 0 for legacy erg tests
}

// BestSplitRecord is a benchmark effort discovered inside a longer workout.
type BestSplitRecord struct {
	TimeSec    float64
	Date       time.Time
	WorkoutID  int64
	StartIndex int
	EndIndex   int
	EstPower   *float64
}

// RecordEntry is the personal-record ledger row for one machine and one
// benchmark distance.
type RecordEntry struct {
	Machine store.MachineType
	Label   string
	Meters  float64

	// Best is the fastest exact-distance attempt, nil when the benchmark
	// has only ever been beaten inside a longer workout.
	Best     *Attempt
	EstPower *float64

	PreviousBest *float64 // second-fastest time, nil without one
	Improvement  *float64 // previous − best, positive = improvement

	Recent []Attempt // up to 3 most recent attempts, newest first

	// BestSplit is attached only when strictly faster than Best, or when
	// there is no exact-distance attempt at all.
	BestSplit *BestSplitRecord
}

// BuildPRLedger merges exact-distance workout attempts, the legacy erg test
// table, and best-split scan results into a ranked personal-record ledger
// per machine type. Pure function of its inputs.
func BuildPRLedger(workouts []store.Workout, legacy []store.ErgTest) map[store.MachineType][]RecordEntry {
	// Legacy tests predate machine tags but some were auto-generated from
	// non-rower workouts. Cross-reference by (day, distance) rather than
	// time, since the two sources can disagree slightly for the same
	// effort, and drop those from the legacy pool.
	nonRower := make(map[string]bool)
	for _, w := range workouts {
		if w.Machine == store.MachineNone || w.Machine == store.MachineRower {
			continue
		}
		if w.DistanceM != nil {
			nonRower[dayDistKey(w.Date, *w.DistanceM)] = true
		}
	}

	ledger := make(map[store.MachineType][]RecordEntry)
	for _, machine := range store.Machines {
		var entries []RecordEntry
		for _, dist := range RecordDistances {
			meters := BenchmarkMeters(machine, dist)

			attempts := collectAttempts(workouts, legacy, machine, meters, nonRower)
			bestSplit := scanForBestSplit(workouts, machine, meters)

			entry := buildEntry(machine, dist, meters, attempts, bestSplit)
			if entry != nil {
				entries = append(entries, *entry)
			}
		}
		if len(entries) > 0 {
			ledger[machine] = entries
		}
	}
	return ledger
}

// collectAttempts gathers exact-distance attempts for one machine/distance,
// merging workouts with (for the rower) the legacy test table, deduplicated
// by (day, time).
func collectAttempts(workouts []store.Workout, legacy []store.ErgTest, machine store.MachineType, meters float64, nonRower map[string]bool) []Attempt {
	var attempts []Attempt
	for _, w := range workouts {
		if w.Sport != store.SportErg || w.Machine != machine {
			continue
		}
		if w.DistanceM == nil || w.DurationSec == nil || *w.DurationSec <= 0 {
			continue
		}
		if math.Abs(*w.DistanceM-meters) > distanceMatchTolerance {
			continue
		}
		attempts = append(attempts, Attempt{TimeSec: *w.DurationSec, Date: w.Date, WorkoutID: w.ID})
	}

	if machine == store.MachineRower {
		for _, t := range legacy {
			if math.Abs(t.DistanceM-meters) > distanceMatchTolerance {
				continue
			}
			if nonRower[dayDistKey(t.Date, t.DistanceM)] {
				continue
			}
			attempts = append(attempts, Attempt{TimeSec: t.TimeSec, Date: t.Date})
		}
	}

	// Deduplicate: the same physical effort can arrive through both the
	// workout and legacy paths with an identical date and time.
	seen := make(map[string]bool)
	deduped := attempts[:0]
	for _, a := range attempts {
		key := fmt.Sprintf("%s|%.1f", dayKey(a.Date), a.TimeSec)
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, a)
	}
	return deduped
}

// scanForBestSplit finds the fastest window covering meters across all
// qualifying workouts on the given machine.
func scanForBestSplit(workouts []store.Workout, machine store.MachineType, meters float64) *BestSplitRecord {
	var best *BestSplitRecord
	for _, w := range workouts {
		if w.Sport != store.SportErg || w.Machine != machine {
			continue
		}
		if w.DistanceM == nil || *w.DistanceM <= minScanDistanceM || len(w.Splits) < minScanSplits {
			continue
		}
		window := FindBestSplitWindow(w.Splits, meters, w.AvgPower)
		if window == nil {
			continue
		}
		if best == nil || window.TimeSeconds < best.TimeSec {
			best = &BestSplitRecord{
				TimeSec:    window.TimeSeconds,
				Date:       w.Date,
				WorkoutID:  w.ID,
				StartIndex: window.StartIndex,
				EndIndex:   window.EndIndex,
				EstPower:   EstimatePowerFromPace(window.TimeSeconds, meters, machine),
			}
		}
	}
	return best
}

// buildEntry assembles a ledger row. Returns nil when the benchmark has no
// attempts and no discovered window.
func buildEntry(machine store.MachineType, dist RecordDistance, meters float64, attempts []Attempt, bestSplit *BestSplitRecord) *RecordEntry {
	if len(attempts) == 0 && bestSplit == nil {
		return nil
	}

	entry := &RecordEntry{
		Machine: machine,
		Label:   dist.Label,
		Meters:  meters,
	}

	if len(attempts) > 0 {
		byTime := make([]Attempt, len(attempts))
		copy(byTime, attempts)
		sort.Slice(byTime, func(i, j int) bool { return byTime[i].TimeSec < byTime[j].TimeSec })

		best := byTime[0]
		entry.Best = &best
		entry.EstPower = EstimatePowerFromPace(best.TimeSec, meters, machine)

		if len(byTime) > 1 {
			prev := byTime[1].TimeSec
			improvement := prev - best.TimeSec
			entry.PreviousBest = &prev
			entry.Improvement = &improvement
		}

		byDate := make([]Attempt, len(attempts))
		copy(byDate, attempts)
		sort.Slice(byDate, func(i, j int) bool { return byDate[i].Date.After(byDate[j].Date) })
		if len(byDate) > 3 {
			byDate = byDate[:3]
		}
		entry.Recent = byDate
	}

	if bestSplit != nil && (entry.Best == nil || bestSplit.TimeSec < entry.Best.TimeSec) {
		entry.BestSplit = bestSplit
	}

	return entry
}

// EstimatePowerFromPace estimates average watts for a time over a distance
// via power = k / (seconds per meter)³. Estimates above the plausibility
// cap are rejected as data artifacts (nil).
func EstimatePowerFromPace(timeSec, meters float64, machine store.MachineType) *float64 {
	if timeSec <= 0 || meters <= 0 {
		return nil
	}
	k := paceToPowerErg
	if machine == store.MachineBikeErg {
		k = paceToPowerBike
	}
	secPerMeter := timeSec / meters
	power := round1(k / (secPerMeter * secPerMeter * secPerMeter))
	if power > maxPlausiblePower {
		return nil
	}
	return &power
}

func dayDistKey(date time.Time, meters float64) string {
	return fmt.Sprintf("%s|%.0f", dayKey(date), meters)
}
