package service

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "h:mm:ss" or "m:ss.t" for short efforts
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	if seconds < 3600 {
		mins := int(seconds) / 60
		secs := seconds - float64(mins*60)
		return fmt.Sprintf("%d:%04.1f", mins, secs)
	}
	hours := int(seconds) / 3600
	mins := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, mins, secs)
}

// FormatPace500 renders the average pace per 500m as "m:ss.t"
func FormatPace500(timeSec, meters float64) string {
	if timeSec <= 0 || meters <= 0 {
		return "-"
	}
	pace := timeSec / meters * 500
	mins := int(pace) / 60
	secs := pace - float64(mins*60)
	return fmt.Sprintf("%d:%04.1f", mins, secs)
}

// FormatDistance renders meters compactly ("2,000m", "21,097m")
func FormatDistance(meters float64) string {
	m := int(math.Round(meters))
	if m < 1000 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%d,%03dm", m/1000, m%1000)
}
