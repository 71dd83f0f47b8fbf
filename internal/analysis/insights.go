package analysis

import "fmt"

// Insight levels
const (
	LevelWarning  = "warning"
	LevelPositive = "positive"
)

// Insight kinds, in emission order.
const (
	InsightOverloadRisk  = "overload_risk"
	InsightDeepFatigue   = "deep_fatigue"
	InsightFitnessRising = "fitness_rising"
	InsightConsistency   = "consistency"
	InsightFreshZone     = "fresh_zone"
)

// Insight is a qualitative coaching flag derived from a PMC result.
type Insight struct {
	Kind    string
	Level   string
	Message string
}

// Number of trailing points examined by the fitness-trend and consistency
// rules, and the minimum history before any insight fires.
const (
	minInsightDays       = 42
	fitnessTrendPoints   = 14
	consistencyWindow    = 7
	consistencyMinActive = 5
	freshZoneLow         = 5.0
	freshZoneHigh        = 25.0
)

// DeriveInsights applies a small rule set over a PMC result. Pure rule
// evaluation; multiple insights may fire together, always in the same order.
// With fewer than 42 days of training data there is not enough signal and
// the result is empty.
func DeriveInsights(r PMCResult, s Settings) []Insight {
	if r.DaysWithData < minInsightDays {
		return nil
	}

	var insights []Insight

	if r.CurrentTSB < s.TSBAlert && r.ACWR != nil && *r.ACWR > s.ACWRAlert {
		insights = append(insights, Insight{
			Kind:  InsightOverloadRisk,
			Level: LevelWarning,
			Message: fmt.Sprintf("Training load is ramping fast (ACWR %.2f) while fatigue is high (TSB %.1f). Consider a lighter week.",
				*r.ACWR, r.CurrentTSB),
		})
	}

	if r.CurrentTSB < s.TSBAlert-10 {
		insights = append(insights, Insight{
			Kind:    InsightDeepFatigue,
			Level:   LevelWarning,
			Message: fmt.Sprintf("Deep fatigue: TSB is %.1f. Recovery is overdue.", r.CurrentTSB),
		})
	}

	if n := len(r.Points); n >= fitnessTrendPoints {
		delta := r.Points[n-1].CTL - r.Points[n-fitnessTrendPoints].CTL
		if delta > 1.0 {
			insights = append(insights, Insight{
				Kind:    InsightFitnessRising,
				Level:   LevelPositive,
				Message: fmt.Sprintf("Fitness is trending up: CTL gained %.1f over the last two weeks.", delta),
			})
		}
	}

	if active := trailingActiveDays(r.Points, consistencyWindow); active >= consistencyMinActive {
		insights = append(insights, Insight{
			Kind:    InsightConsistency,
			Level:   LevelPositive,
			Message: fmt.Sprintf("Strong consistency: %d of the last %d days had training.", active, consistencyWindow),
		})
	}

	if r.CurrentTSB >= freshZoneLow && r.CurrentTSB <= freshZoneHigh {
		insights = append(insights, Insight{
			Kind:    InsightFreshZone,
			Level:   LevelPositive,
			Message: fmt.Sprintf("TSB %.1f is in the fresh zone. Good window for a test piece or race.", r.CurrentTSB),
		})
	}

	return insights
}

// trailingActiveDays counts non-zero-load days scanning backward from the
// most recent point, stopping at the first rest day or after window days.
func trailingActiveDays(points []PMCPoint, window int) int {
	active := 0
	for i := len(points) - 1; i >= 0 && len(points)-1-i < window; i-- {
		if points[i].Load == 0 {
			break
		}
		active++
	}
	return active
}
