package store

import "time"

// Sport tags for workouts. Anything else is treated as "other".
const (
	SportErg      = "erg"
	SportOnWater  = "on_water"
	SportStrength = "strength"
	SportCardio   = "cardio"
	SportOther    = "other"
)

// MachineType identifies the erg a workout was done on.
// The empty string means no machine (e.g. on-water rows).
type MachineType string

const (
	MachineRower   MachineType = "rower"
	MachineSkiErg  MachineType = "skierg"
	MachineBikeErg MachineType = "bikerg"
	MachineNone    MachineType = ""
)

// Machines lists the machine types that carry personal records.
var Machines = []MachineType{MachineRower, MachineSkiErg, MachineBikeErg}

// Athlete represents the local athlete profile synced from the logbook,
// plus any locally configured physiological thresholds.
type Athlete struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	BirthYear   *int      `db:"birth_year"`
	MaxHR       *float64  `db:"max_hr"`
	ThresholdHR *float64  `db:"threshold_hr"`
	FTP         *float64  `db:"ftp"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Workout represents a single training session.
// Optional telemetry fields are pointers so "not recorded" is
// distinguishable from a legitimate zero.
type Workout struct {
	ID           int64       `db:"id"`
	AthleteID    int64       `db:"athlete_id"`
	Date         time.Time   `db:"date"`
	Sport        string      `db:"sport"`
	Machine      MachineType `db:"machine"`
	DistanceM    *float64    `db:"distance_m"`   // meters
	DurationSec  *float64    `db:"duration_sec"` // seconds
	AvgPower     *float64    `db:"avg_power"`    // watts
	AvgHR        *float64    `db:"avg_hr"`       // bpm
	StrokeRate   *float64    `db:"stroke_rate"`  // spm
	Comment      string      `db:"comment"`
	SplitsSynced bool        `db:"splits_synced"`

	// Splits is populated only when requested via WorkoutFilter.WithSplits.
	Splits []Split `db:"-"`
}

// Split is one interval or distance split within a workout, ordered by Idx.
// Split order defines temporal order; splits are contiguous in time.
type Split struct {
	WorkoutID  int64    `db:"workout_id"`
	Idx        int      `db:"idx"`
	DistanceM  float64  `db:"distance_m"`
	TimeSec    float64  `db:"time_sec"`
	AvgPower   *float64 `db:"avg_power"`
	AvgHR      *float64 `db:"avg_hr"`
	StrokeRate *float64 `db:"stroke_rate"`
}

// ErgTest is a legacy per-athlete erg test row from before workouts carried
// machine tags. Historically rower/ski-erg only.
type ErgTest struct {
	ID        int64     `db:"id"`
	AthleteID int64     `db:"athlete_id"`
	Date      time.Time `db:"date"`
	DistanceM float64   `db:"distance_m"`
	TimeSec   float64   `db:"time_sec"`
}

// Auth represents OAuth tokens for logbook API access.
type Auth struct {
	UserID       int64     `db:"user_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	ExpiresAt    time.Time `db:"expires_at"`
}

// WorkoutFilter selects workouts for ListWorkouts.
// Zero values mean "no constraint".
type WorkoutFilter struct {
	Since      time.Time // inclusive lower bound on date
	Until      time.Time // inclusive upper bound on date
	Sport      string
	Machine    MachineType
	WithSplits bool
}
