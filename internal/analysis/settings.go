package analysis

// Settings holds the resolved physiological thresholds for one analytics
// request. It is constructed fresh per request by the service layer and is
// immutable for the duration of a computation.
type Settings struct {
	MaxHR       float64 // effective max heart rate, bpm
	ThresholdHR float64 // lactate threshold heart rate, bpm
	FTP         float64 // functional threshold power, watts; 0 disables tier 1

	TSBAlert  float64 // fatigue-balance warning threshold (typically negative)
	ACWRAlert float64 // acute:chronic workload ratio warning threshold
}

// Default alert thresholds, applied by the service layer when the athlete
// hasn't configured their own.
const (
	DefaultTSBAlert  = -30.0
	DefaultACWRAlert = 1.5
)
