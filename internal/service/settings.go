package service

import (
	"time"

	"github.com/swdrow/RowLab-sub010/internal/analysis"
	"github.com/swdrow/RowLab-sub010/internal/config"
	"github.com/swdrow/RowLab-sub010/internal/store"
)

// SettingsFromProfile resolves effective analysis settings from the config
// file and the synced athlete row. Config wins over the athlete profile,
// which wins over derived fallbacks.
func SettingsFromProfile(cfg *config.Config, athlete *store.Athlete) analysis.Settings {
	return settingsAt(cfg, athlete, time.Now())
}

func settingsAt(cfg *config.Config, athlete *store.Athlete, now time.Time) analysis.Settings {
	s := analysis.Settings{
		TSBAlert:  analysis.DefaultTSBAlert,
		ACWRAlert: analysis.DefaultACWRAlert,
	}

	// Max heart rate: configured, else profile, else age-derived, else a
	// conservative default.
	switch {
	case cfg != nil && cfg.Athlete.MaxHR > 0:
		s.MaxHR = cfg.Athlete.MaxHR
	case athlete != nil && athlete.MaxHR != nil && *athlete.MaxHR > 0:
		s.MaxHR = *athlete.MaxHR
	default:
		if year := birthYear(cfg, athlete); year > 0 {
			age := now.Year() - year
			if age > 0 && age < 120 {
				s.MaxHR = float64(ageBasedMaxHR - age)
			}
		}
		if s.MaxHR == 0 {
			s.MaxHR = defaultMaxHR
		}
	}

	// Threshold heart rate: configured, else profile, else a fixed
	// fraction of max.
	switch {
	case cfg != nil && cfg.Athlete.ThresholdHR > 0:
		s.ThresholdHR = cfg.Athlete.ThresholdHR
	case athlete != nil && athlete.ThresholdHR != nil && *athlete.ThresholdHR > 0:
		s.ThresholdHR = *athlete.ThresholdHR
	default:
		s.ThresholdHR = lthrFraction * s.MaxHR
	}

	// FTP: configured, else profile, else unknown. Zero disables the
	// power tier of load estimation.
	switch {
	case cfg != nil && cfg.Athlete.FTP > 0:
		s.FTP = cfg.Athlete.FTP
	case athlete != nil && athlete.FTP != nil && *athlete.FTP > 0:
		s.FTP = *athlete.FTP
	}

	if cfg != nil && cfg.Athlete.TSBAlert != 0 {
		s.TSBAlert = cfg.Athlete.TSBAlert
	}
	if cfg != nil && cfg.Athlete.ACWRAlert > 0 {
		s.ACWRAlert = cfg.Athlete.ACWRAlert
	}

	return s
}

func birthYear(cfg *config.Config, athlete *store.Athlete) int {
	if cfg != nil && cfg.Athlete.BirthYear > 0 {
		return cfg.Athlete.BirthYear
	}
	if athlete != nil && athlete.BirthYear != nil {
		return *athlete.BirthYear
	}
	return 0
}
