package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

// EMA time constants and the warm-up buffer for ranged queries.
const (
	ctlTimeConstantDays = 42
	atlTimeConstantDays = 7

	// WarmupDays is how far before the requested range the simulation
	// starts, so the EMAs have converged by the first reported day.
	WarmupDays = 90

	// acwrMinDays is the minimum simulated days required before an
	// acute:chronic workload ratio is reported.
	acwrMinDays = 28
)

// PMCPoint is one day of the performance management chart.
// All values are rounded to one decimal.
type PMCPoint struct {
	Date time.Time
	Load float64 // summed training stress for the day
	CTL  float64 // chronic training load ("fitness")
	ATL  float64 // acute training load ("fatigue")
	TSB  float64 // training stress balance ("freshness")
}

// PMCResult is the outcome of a performance management chart computation.
// A user with zero workouts gets a well-formed zero result, not an error.
type PMCResult struct {
	Points []PMCPoint

	CurrentCTL float64
	CurrentATL float64
	CurrentTSB float64

	// DaysWithData counts distinct days with any training load across the
	// full (untrimmed) simulation window.
	DaysWithData int
	// TotalDays is the number of days in the returned series.
	TotalDays int

	// ACWR is the acute:chronic workload ratio, nil when there is
	// insufficient history or no chronic load.
	ACWR *float64
}

// ComputePMC runs the day-by-day fitness/fatigue simulation over the given
// workouts through today. rangeDays <= 0 means all time; otherwise the
// returned series covers the last rangeDays days while the simulation itself
// starts WarmupDays earlier so the EMAs are converged at the window edge.
// sport filters workouts by sport tag when non-empty.
func ComputePMC(workouts []store.Workout, s Settings, rangeDays int, sport string) PMCResult {
	return computePMCAt(workouts, s, rangeDays, sport, time.Now().UTC())
}

// computePMCAt is ComputePMC with an injectable clock.
//
// The simulation is a sequential recurrence: each day's CTL/ATL depends on
// the previous day's, and days with no activity still decay. That is why
// this is a day loop rather than a closed-form expression over workout days.
func computePMCAt(workouts []store.Workout, s Settings, rangeDays int, sport string, now time.Time) PMCResult {
	today := truncateDay(now)

	ranged := rangeDays > 0
	var rangeStart, queryStart time.Time
	if ranged {
		rangeStart = today.AddDate(0, 0, -rangeDays)
		queryStart = rangeStart.AddDate(0, 0, -WarmupDays)
	}

	// Bucket qualifying workouts into calendar days (UTC), summing scores.
	loadByDay := make(map[string]float64)
	var firstDay time.Time
	for _, w := range workouts {
		if sport != "" && w.Sport != sport {
			continue
		}
		day := truncateDay(w.Date)
		if ranged && day.Before(queryStart) {
			continue
		}
		if day.After(today) {
			continue
		}
		loadByDay[dayKey(day)] += EstimateLoad(w, s).Score
		if firstDay.IsZero() || day.Before(firstDay) {
			firstDay = day
		}
	}

	if len(loadByDay) == 0 {
		return PMCResult{}
	}

	decayC := math.Exp(-1.0 / ctlTimeConstantDays)
	decayA := math.Exp(-1.0 / atlTimeConstantDays)

	var full []PMCPoint
	var dailyLoads []float64
	var ctl, atl float64
	daysWithData := 0

	for d := firstDay; !d.After(today); d = d.AddDate(0, 0, 1) {
		load := loadByDay[dayKey(d)] // 0 on rest days; decay still applies
		if load > 0 {
			daysWithData++
		}

		ctl = ctl*decayC + load*(1-decayC)
		atl = atl*decayA + load*(1-decayA)

		full = append(full, PMCPoint{
			Date: d,
			Load: round1(load),
			CTL:  round1(ctl),
			ATL:  round1(atl),
			TSB:  round1(ctl - atl),
		})
		dailyLoads = append(dailyLoads, load)
	}

	// The pre-range days exist only to converge the EMAs; trim them.
	points := full
	if ranged {
		i := sort.Search(len(full), func(i int) bool {
			return !full[i].Date.Before(rangeStart)
		})
		points = full[i:]
	}

	result := PMCResult{
		Points:       points,
		DaysWithData: daysWithData,
		TotalDays:    len(points),
		ACWR:         computeACWR(dailyLoads),
	}
	if len(points) > 0 {
		last := points[len(points)-1]
		result.CurrentCTL = last.CTL
		result.CurrentATL = last.ATL
		result.CurrentTSB = last.TSB
	}
	return result
}

// computeACWR computes the acute:chronic workload ratio from the untrimmed
// daily-load tail: last 7 days over the weekly average of the last 28 days.
// Returns nil with fewer than acwrMinDays of simulated history or a zero
// chronic denominator.
func computeACWR(dailyLoads []float64) *float64 {
	if len(dailyLoads) < acwrMinDays {
		return nil
	}

	var acute, chronic float64
	n := len(dailyLoads)
	for _, v := range dailyLoads[n-7:] {
		acute += v
	}
	for _, v := range dailyLoads[n-28:] {
		chronic += v
	}
	if chronic == 0 {
		return nil
	}

	ratio := round2(acute / (chronic / 4))
	return &ratio
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
