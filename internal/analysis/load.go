package analysis

import (
	"math"

	"github.com/swdrow/RowLab-sub010/internal/store"
)

// Estimation tiers for a workout's load score, in priority order.
const (
	TierPower    = 1 // power vs FTP
	TierHeart    = 2 // heart rate vs threshold HR
	TierDuration = 3 // duration and sport multiplier only
)

// sportMultipliers weight the duration-only fallback by how stressful an
// hour of each sport typically is relative to erging.
var sportMultipliers = map[string]float64{
	store.SportErg:      1.0,
	store.SportOnWater:  0.85,
	store.SportStrength: 0.7,
	store.SportCardio:   0.8,
	store.SportOther:    0.5,
}

// defaultSportMultiplier is used for unrecognized sport tags.
const defaultSportMultiplier = 0.5

// LoadScore is a workout's estimated training stress and the telemetry tier
// that produced it.
type LoadScore struct {
	Score float64
	Tier  int
}

// EstimateLoad converts one workout into a scalar training stress value.
//
// Three-tier fallback: with average power and an FTP, the score is
// hours × (power/FTP)² × 100; with average heart rate and a threshold HR,
// the same formula on the HR ratio; otherwise hours × sport multiplier × 50.
// A workout with no (or zero) duration scores 0 and is tagged tier 3.
//
// Pure and side-effect-free; called once per workout per request.
func EstimateLoad(w store.Workout, s Settings) LoadScore {
	if w.DurationSec == nil || *w.DurationSec <= 0 {
		return LoadScore{Score: 0, Tier: TierDuration}
	}
	hours := *w.DurationSec / 3600.0

	if w.AvgPower != nil && *w.AvgPower > 0 && s.FTP > 0 {
		intensity := *w.AvgPower / s.FTP
		return LoadScore{Score: round1(hours * intensity * intensity * 100), Tier: TierPower}
	}

	if w.AvgHR != nil && *w.AvgHR > 0 && s.ThresholdHR > 0 {
		intensity := *w.AvgHR / s.ThresholdHR
		return LoadScore{Score: round1(hours * intensity * intensity * 100), Tier: TierHeart}
	}

	mult, ok := sportMultipliers[w.Sport]
	if !ok {
		mult = defaultSportMultiplier
	}
	return LoadScore{Score: round1(hours * mult * 50), Tier: TierDuration}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
