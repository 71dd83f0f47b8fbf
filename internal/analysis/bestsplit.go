package analysis

import (
	"math"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

// Empirical tuning constants for rest detection and data sanity. They have
// no documented derivation; override via ScanOptions rather than editing.
const (
	// RestPowerFraction: a split below this fraction of the workout's
	// average power is treated as a rest interval.
	RestPowerFraction = 0.4
	// RestPowerFloor is the minimum rest threshold when power is known.
	RestPowerFloor = 30.0
	// RestPowerNoData is the rest threshold when the workout has no
	// average power.
	RestPowerNoData = 50.0
	// MinPacePerMeter rejects splits faster than 1:10 per 500m, quicker
	// than anything ever rowed; such splits are corrupt telemetry.
	MinPacePerMeter = 0.14
)

// ScanOptions tunes the best-split window scan.
type ScanOptions struct {
	RestPowerFraction float64
	RestPowerFloor    float64
	RestPowerNoData   float64
	MinPacePerMeter   float64
}

// DefaultScanOptions returns the standard tuning constants.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		RestPowerFraction: RestPowerFraction,
		RestPowerFloor:    RestPowerFloor,
		RestPowerNoData:   RestPowerNoData,
		MinPacePerMeter:   MinPacePerMeter,
	}
}

// SplitWindow is the fastest contiguous sub-segment of a workout covering a
// target distance. Indices refer to positions in the original split list.
type SplitWindow struct {
	TimeSeconds float64
	StartIndex  int
	EndIndex    int
}

// FindBestSplitWindow finds the fastest contiguous run of splits covering
// targetDistance meters, using the default tuning constants. A long workout
// can hide a faster effort over a shorter benchmark distance inside it; this
// is how those efforts are discovered. Returns nil if no window reaches the
// target.
func FindBestSplitWindow(splits []store.Split, targetDistance float64, workoutAvgPower *float64) *SplitWindow {
	return FindBestSplitWindowOpts(splits, targetDistance, workoutAvgPower, DefaultScanOptions())
}

// scanPoint is one usable split within a work segment.
type scanPoint struct {
	idx      int // index in the original split list
	distance float64
	time     float64
}

// FindBestSplitWindowOpts is FindBestSplitWindow with explicit options.
//
// Splits below the rest threshold partition the workout into work segments;
// rest splits belong to no segment. Within a segment, splits with a
// physically impossible pace are dropped. Segments shorter than the target,
// or whose single largest split already covers the target, are skipped:
// a single split would be a standalone result, not a discovered window.
func FindBestSplitWindowOpts(splits []store.Split, targetDistance float64, workoutAvgPower *float64, opts ScanOptions) *SplitWindow {
	if len(splits) == 0 || targetDistance <= 0 {
		return nil
	}

	restThreshold := opts.RestPowerNoData
	if workoutAvgPower != nil && *workoutAvgPower > 0 {
		restThreshold = math.Max(*workoutAvgPower*opts.RestPowerFraction, opts.RestPowerFloor)
	}

	var best *SplitWindow

	var segment []scanPoint
	flush := func() {
		if w := scanSegment(segment, targetDistance); w != nil {
			if best == nil || w.TimeSeconds < best.TimeSeconds {
				best = w
			}
		}
		segment = segment[:0]
	}

	for i, sp := range splits {
		if sp.AvgPower != nil && *sp.AvgPower < restThreshold {
			// Rest interval: segment boundary, split dropped.
			flush()
			continue
		}
		if sp.DistanceM <= 0 || sp.TimeSec/sp.DistanceM < opts.MinPacePerMeter {
			// Corrupt split; it would poison the window sum.
			continue
		}
		segment = append(segment, scanPoint{idx: i, distance: sp.DistanceM, time: sp.TimeSec})
	}
	flush()

	return best
}

// scanSegment runs the tightest-window sliding scan over one work segment.
func scanSegment(seg []scanPoint, target float64) *SplitWindow {
	var total, largest float64
	for _, p := range seg {
		total += p.distance
		if p.distance > largest {
			largest = p.distance
		}
	}
	if total < target || largest >= target {
		return nil
	}

	var best *SplitWindow
	var dist, elapsed float64
	start := 0

	for end := 0; end < len(seg); end++ {
		dist += seg[end].distance
		elapsed += seg[end].time

		// Shrink to the tightest window still reaching the target.
		for dist-seg[start].distance >= target {
			dist -= seg[start].distance
			elapsed -= seg[start].time
			start++
		}

		if dist < target {
			continue
		}

		// The window overshoots by part of the rightmost split; estimate
		// the time to cover exactly the target by trimming that overshoot
		// at the rightmost split's pace.
		effective := elapsed
		if over := dist - target; over > 0 {
			effective -= seg[end].time * (over / seg[end].distance)
		}

		if best == nil || effective < best.TimeSeconds {
			best = &SplitWindow{
				TimeSeconds: effective,
				StartIndex:  seg[start].idx,
				EndIndex:    seg[end].idx,
			}
		}
	}

	return best
}
