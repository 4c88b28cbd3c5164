package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Settings holds all configuration options.
type Settings struct {
	// Target device
	DSPModel string `json:"dsp_model"`

	// AutoEq source
	IndexURL   string `json:"index_url"`
	BaseRawURL string `json:"base_raw_url"`

	// Gain policy: when true the profile's preamp becomes masterGain,
	// otherwise masterGain is fixed to 0.
	UsePreampGain bool `json:"use_preamp_gain"`

	// Local paths
	CacheDir  string `json:"cache_dir"`
	OutputDir string `json:"output_dir"`

	// Network
	TimeoutSeconds int `json:"timeout_seconds"`

	// Batch conversion
	MaxConcurrentConversions int `json:"max_concurrent_conversions"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DSPModel:   "FIIO KA17",
		IndexURL:   "https://raw.githubusercontent.com/jaakkopasanen/AutoEq/master/results/INDEX.md",
		BaseRawURL: "https://raw.githubusercontent.com/jaakkopasanen/AutoEq/master/results/",

		UsePreampGain: true,

		CacheDir:  filepath.Join(homeDir, ".autoeq-fiio"),
		OutputDir: ".",

		TimeoutSeconds: 30,

		MaxConcurrentConversions: 4,
	}
}

// Timeout returns the HTTP timeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned so first runs
// need no setup. Values absent from the file keep their defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
