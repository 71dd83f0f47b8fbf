package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the application configuration
type Config struct {
	Logbook LogbookConfig `json:"logbook"`
	Athlete AthleteConfig `json:"athlete"`
	Display DisplayConfig `json:"display"`
}

// LogbookConfig holds Concept2 Logbook API credentials
type LogbookConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// AthleteConfig holds athlete-specific settings. Zero values mean
// "not configured"; the service layer resolves effective values.
type AthleteConfig struct {
	BirthYear   int     `json:"birth_year"`
	MaxHR       float64 `json:"max_hr"`
	ThresholdHR float64 `json:"threshold_hr"`
	FTP         float64 `json:"ftp"`
	TSBAlert    float64 `json:"tsb_alert"`
	ACWRAlert   float64 `json:"acwr_alert"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DefaultRange string `json:"default_range"` // "30d", "90d", "180d", "all"
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// ValidRanges lists the accepted default_range values.
var ValidRanges = []string{"30d", "90d", "180d", "all"}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			DefaultRange: "90d",
		},
	}
}

// Load reads the configuration from ~/.rowlab/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Display.DefaultRange == "" {
		cfg.Display.DefaultRange = defaults.Display.DefaultRange
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.rowlab/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := Config{
		Logbook: LogbookConfig{
			ClientID:     "YOUR_CLIENT_ID",
			ClientSecret: "YOUR_CLIENT_SECRET",
		},
		Athlete: AthleteConfig{
			BirthYear: 2000,
		},
		Display: DisplayConfig{
			DefaultRange: "90d",
		},
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Logbook.ClientID == "" || c.Logbook.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("logbook.client_id is required - get it from https://log.concept2.com/developers")
	}
	if c.Logbook.ClientSecret == "" || c.Logbook.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("logbook.client_secret is required - get it from https://log.concept2.com/developers")
	}

	if c.Display.DefaultRange != "" {
		valid := false
		for _, r := range ValidRanges {
			if c.Display.DefaultRange == r {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("display.default_range must be one of %v, got %q", ValidRanges, c.Display.DefaultRange)
		}
	}

	// Validate threshold_hr < max_hr when both are set
	if c.Athlete.ThresholdHR > 0 && c.Athlete.MaxHR > 0 && c.Athlete.ThresholdHR >= c.Athlete.MaxHR {
		return fmt.Errorf("athlete.threshold_hr (%v) must be less than athlete.max_hr (%v)", c.Athlete.ThresholdHR, c.Athlete.MaxHR)
	}
	if c.Athlete.ACWRAlert < 0 {
		return fmt.Errorf("athlete.acwr_alert must be positive, got %v", c.Athlete.ACWRAlert)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".rowlab", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".rowlab"), nil
}
