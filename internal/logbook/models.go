package logbook

import (
	"fmt"
	"time"
)

// User is the logbook profile for the authenticated user.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"` // YYYY-MM-DD
	MaxHR     *int   `json:"max_heart_rate"`
}

// Name returns the user's display name.
func (u User) Name() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}

// BirthYear parses the year out of the DOB field, 0 if unknown.
func (u User) BirthYear() int {
	t, err := time.Parse("2006-01-02", u.DOB)
	if err != nil {
		return 0
	}
	return t.Year()
}

// Result is one logged workout result. Times come over the wire in tenths
// of a second.
type Result struct {
	ID         int64    `json:"id"`
	UserID     int64    `json:"user_id"`
	Date       string   `json:"date"` // "2006-01-02 15:04:05"
	Timezone   string   `json:"timezone"`
	Distance   float64  `json:"distance"` // meters
	Time       float64  `json:"time"`     // tenths of seconds
	Type       string   `json:"type"`     // "rower", "skierg", "bike", "water", ...
	StrokeRate *float64 `json:"stroke_rate"`
	HeartRate  *HeartRate `json:"heart_rate"`
	Comments   string   `json:"comments"`

	// Workout is present on detail responses only.
	Workout *ResultWorkout `json:"workout"`
}

// HeartRate carries the heart rate summary of a result.
type HeartRate struct {
	Min     *float64 `json:"min"`
	Average *float64 `json:"average"`
	Max     *float64 `json:"max"`
}

// ResultWorkout holds the split/interval breakdown of a result detail.
type ResultWorkout struct {
	Splits    []ResultSplit `json:"splits"`
	Intervals []ResultSplit `json:"intervals"`
}

// ResultSplit is one split or interval. Time is in tenths of seconds.
type ResultSplit struct {
	Time       float64  `json:"time"`
	Distance   float64  `json:"distance"`
	StrokeRate *float64 `json:"stroke_rate"`
	HeartRate  *HeartRate `json:"heart_rate"`
	Watts      *float64 `json:"watts"`
}

// TimeSeconds converts the wire time (tenths) to seconds.
func (r Result) TimeSeconds() float64 {
	return r.Time / 10
}

// ParsedDate parses the result date in its timezone, falling back to UTC.
func (r Result) ParsedDate() (time.Time, error) {
	loc := time.UTC
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", r.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing result date %q: %w", r.Date, err)
	}
	return t, nil
}

// AvgWatts estimates the result's average power from its pace when the
// machine reports distance and time. The logbook doesn't return average
// watts on summary rows.
func (r Result) AvgWatts() *float64 {
	if r.Distance <= 0 || r.Time <= 0 {
		return nil
	}
	// Concept2 pace-to-watts: 2.80 / (sec/m)³ for rower and ski-erg.
	k := 2.8
	if r.Type == "bike" {
		k = 0.35
	}
	secPerMeter := r.TimeSeconds() / r.Distance
	w := k / (secPerMeter * secPerMeter * secPerMeter)
	return &w
}

// resultsPage is the paginated envelope of list endpoints.
type resultsPage struct {
	Data []Result `json:"data"`
	Meta struct {
		Pagination struct {
			Total       int `json:"total"`
			Count       int `json:"count"`
			PerPage     int `json:"per_page"`
			CurrentPage int `json:"current_page"`
			TotalPages  int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

// userEnvelope wraps single-object responses.
type userEnvelope struct {
	Data User `json:"data"`
}

type resultEnvelope struct {
	Data Result `json:"data"`
}
