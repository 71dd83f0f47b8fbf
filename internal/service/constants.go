package service

// Date range presets offered by the UI, in days. 0 means all history.
var RangeDays = map[string]int{
	"30d":  30,
	"90d":  90,
	"180d": 180,
	"all":  0,
}

// RangeOrder is the cycle order for the range toggle.
var RangeOrder = []string{"30d", "90d", "180d", "all"}

const (
	// Heart rate fallbacks when nothing is configured
	defaultMaxHR   = 190.0
	ageBasedMaxHR  = 220
	lthrFraction   = 0.89

	// Sync page size for split backfill per invocation
	splitSyncBatch = 50
)
