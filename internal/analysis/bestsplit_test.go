package analysis

import (
	"math"
	"testing"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

func TestFindBestSplitWindow_ExactCoverage(t *testing.T) {
	// Four 500m splits totalling exactly 2000m: the window spans all
	// splits and the time is the plain sum, untouched by interpolation.
	splits := evenSplits(4, 500, 105, floatPtr(200))

	got := FindBestSplitWindow(splits, 2000, floatPtr(200))
	if got == nil {
		t.Fatal("expected a window, got nil")
	}
	if got.StartIndex != 0 || got.EndIndex != 3 {
		t.Errorf("window = [%d, %d], want [0, 3]", got.StartIndex, got.EndIndex)
	}
	if math.Abs(got.TimeSeconds-420) > 0.001 {
		t.Errorf("time = %v, want 420", got.TimeSeconds)
	}
}

func TestFindBestSplitWindow_Interpolation(t *testing.T) {
	// First split covers 90% of the target; the second covers the rest
	// plus excess. The interpolated time must sit strictly between the
	// first split's time and the two-split sum.
	splits := []store.Split{
		{Idx: 0, DistanceM: 1800, TimeSec: 540, AvgPower: floatPtr(210)},
		{Idx: 1, DistanceM: 400, TimeSec: 120, AvgPower: floatPtr(210)},
	}

	got := FindBestSplitWindow(splits, 2000, floatPtr(210))
	if got == nil {
		t.Fatal("expected a window, got nil")
	}
	if got.TimeSeconds <= 540 || got.TimeSeconds >= 660 {
		t.Errorf("interpolated time = %v, want strictly between 540 and 660", got.TimeSeconds)
	}
	// Overshoot is 200 of the rightmost 400m split: trim half its time.
	if math.Abs(got.TimeSeconds-600) > 0.001 {
		t.Errorf("interpolated time = %v, want 600", got.TimeSeconds)
	}
}

func TestFindBestSplitWindow_FindsFastestSegment(t *testing.T) {
	// A 6k where the middle 2k is ridden hard: the scan should find the
	// fast stretch, not the first window that reaches 2000m.
	var splits []store.Split
	for i := 0; i < 12; i++ {
		timeSec := 115.0 // 1:55/500m cruising
		if i >= 4 && i < 8 {
			timeSec = 100.0 // 1:40/500m piece
		}
		splits = append(splits, store.Split{Idx: i, DistanceM: 500, TimeSec: timeSec, AvgPower: floatPtr(220)})
	}

	got := FindBestSplitWindow(splits, 2000, floatPtr(220))
	if got == nil {
		t.Fatal("expected a window, got nil")
	}
	if got.StartIndex != 4 || got.EndIndex != 7 {
		t.Errorf("window = [%d, %d], want [4, 7]", got.StartIndex, got.EndIndex)
	}
	if math.Abs(got.TimeSeconds-400) > 0.001 {
		t.Errorf("time = %v, want 400", got.TimeSeconds)
	}
}

func TestFindBestSplitWindow_RestSplitsPartition(t *testing.T) {
	// Interval session: 3×1000m with low-power rest splits between. No
	// contiguous work segment reaches 2000m, so there is no window, even
	// though raw distance including rest would cover it.
	var splits []store.Split
	idx := 0
	for rep := 0; rep < 3; rep++ {
		splits = append(splits, store.Split{Idx: idx, DistanceM: 1000, TimeSec: 210, AvgPower: floatPtr(230)})
		idx++
		if rep < 2 {
			splits = append(splits, store.Split{Idx: idx, DistanceM: 200, TimeSec: 120, AvgPower: floatPtr(40)})
			idx++
		}
	}

	if got := FindBestSplitWindow(splits, 2000, floatPtr(180)); got != nil {
		t.Errorf("expected nil across rest boundaries, got window [%d, %d]", got.StartIndex, got.EndIndex)
	}

	// The 1000m target is reachable... but only as single splits, which
	// the granularity guard rejects.
	if got := FindBestSplitWindow(splits, 1000, floatPtr(180)); got != nil {
		t.Errorf("expected nil for single-split coverage, got window [%d, %d]", got.StartIndex, got.EndIndex)
	}
}

func TestFindBestSplitWindow_RestThresholdWithoutPower(t *testing.T) {
	// No workout average power: the fixed 50 W threshold applies.
	splits := []store.Split{
		{Idx: 0, DistanceM: 600, TimeSec: 130, AvgPower: floatPtr(180)},
		{Idx: 1, DistanceM: 100, TimeSec: 90, AvgPower: floatPtr(45)}, // rest
		{Idx: 2, DistanceM: 600, TimeSec: 130, AvgPower: floatPtr(180)},
	}

	if got := FindBestSplitWindow(splits, 1000, nil); got != nil {
		t.Errorf("expected nil, the rest split at 45 W should split the segment, got [%d, %d]", got.StartIndex, got.EndIndex)
	}
}

func TestFindBestSplitWindow_ImplausiblePaceDropped(t *testing.T) {
	// A corrupt 500m-in-10s split must not contribute to any window.
	splits := []store.Split{
		{Idx: 0, DistanceM: 500, TimeSec: 110, AvgPower: floatPtr(200)},
		{Idx: 1, DistanceM: 500, TimeSec: 10, AvgPower: floatPtr(200)}, // corrupt
		{Idx: 2, DistanceM: 500, TimeSec: 110, AvgPower: floatPtr(200)},
		{Idx: 3, DistanceM: 500, TimeSec: 110, AvgPower: floatPtr(200)},
	}

	got := FindBestSplitWindow(splits, 1500, floatPtr(200))
	if got == nil {
		t.Fatal("expected a window from the three clean splits, got nil")
	}
	if math.Abs(got.TimeSeconds-330) > 0.001 {
		t.Errorf("time = %v, want 330 (clean splits only)", got.TimeSeconds)
	}
}

func TestFindBestSplitWindow_SegmentShorterThanTarget(t *testing.T) {
	splits := evenSplits(3, 500, 110, floatPtr(200))
	if got := FindBestSplitWindow(splits, 2000, floatPtr(200)); got != nil {
		t.Errorf("expected nil for 1500m of work vs 2000m target, got [%d, %d]", got.StartIndex, got.EndIndex)
	}
}

func TestFindBestSplitWindow_SingleLargeSplitGuard(t *testing.T) {
	// A 2000m split can't be "discovered" as a 2000m window; that would
	// be a standalone result.
	splits := []store.Split{
		{Idx: 0, DistanceM: 2000, TimeSec: 430, AvgPower: floatPtr(210)},
		{Idx: 1, DistanceM: 1000, TimeSec: 220, AvgPower: floatPtr(205)},
	}
	if got := FindBestSplitWindow(splits, 2000, floatPtr(208)); got != nil {
		t.Errorf("expected nil when a single split covers the target, got [%d, %d]", got.StartIndex, got.EndIndex)
	}
}

func TestFindBestSplitWindow_Empty(t *testing.T) {
	if got := FindBestSplitWindow(nil, 2000, nil); got != nil {
		t.Errorf("expected nil for no splits, got %+v", got)
	}
}

func TestFindBestSplitWindow_TightestWindowPreferred(t *testing.T) {
	// 250m splits: the minimal window covering 1000m is four splits, and
	// the scan must slide to the fastest four, not settle for a longer
	// window that happens to reach the distance first.
	times := []float64{60, 60, 60, 55, 52, 52, 52, 60}
	var splits []store.Split
	for i, ts := range times {
		splits = append(splits, store.Split{Idx: i, DistanceM: 250, TimeSec: ts, AvgPower: floatPtr(200)})
	}

	got := FindBestSplitWindow(splits, 1000, floatPtr(200))
	if got == nil {
		t.Fatal("expected a window, got nil")
	}
	if got.StartIndex != 3 || got.EndIndex != 6 {
		t.Errorf("window = [%d, %d], want [3, 6]", got.StartIndex, got.EndIndex)
	}
	if math.Abs(got.TimeSeconds-211) > 0.001 {
		t.Errorf("time = %v, want 211", got.TimeSeconds)
	}
}
