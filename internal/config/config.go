package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Settings is the tunable reconciliation configuration, loadable from a YAML
// file and overridable via environment variables.
type Settings struct {
	// StreetThreshold is the edit-distance ratio for street-name clustering.
	StreetThreshold float64 `yaml:"street_threshold"`

	// CityThreshold is the edit-distance ratio for city-name clustering.
	CityThreshold float64 `yaml:"city_threshold"`

	// Workers caps the concurrent grouping-key fan-out. Zero means one
	// worker per CPU.
	Workers int `yaml:"workers"`

	// DataDir is where the input tables live.
	DataDir string `yaml:"data_dir"`

	// OutDir is where the cleaned tables and the audit log are written.
	OutDir string `yaml:"out_dir"`
}

// DefaultSettings returns the defaults the pipeline ships with.
func DefaultSettings() Settings {
	return Settings{
		StreetThreshold: 0.10,
		CityThreshold:   0.10,
		DataDir:         "data",
		OutDir:          "data_cleaned",
	}
}

// LoadSettings builds the effective settings: defaults, then the YAML file
// (if given), then environment overrides.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	s.StreetThreshold = GetEnvFloat("RECONCILE_STREET_THRESHOLD", s.StreetThreshold)
	s.CityThreshold = GetEnvFloat("RECONCILE_CITY_THRESHOLD", s.CityThreshold)
	s.Workers = GetEnvInt("RECONCILE_WORKERS", s.Workers)
	s.DataDir = GetEnv("RECONCILE_DATA_DIR", s.DataDir)
	s.OutDir = GetEnv("RECONCILE_OUT_DIR", s.OutDir)

	if s.StreetThreshold <= 0 || s.StreetThreshold >= 1 {
		return s, fmt.Errorf("street_threshold must be in (0, 1), got %g", s.StreetThreshold)
	}
	if s.CityThreshold <= 0 || s.CityThreshold >= 1 {
		return s, fmt.Errorf("city_threshold must be in (0, 1), got %g", s.CityThreshold)
	}
	return s, nil
}
