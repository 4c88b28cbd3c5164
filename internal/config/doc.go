// Package config provides configuration management for autoeq-fiio.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Targets the FIIO KA17
//	// Fetches from the AutoEq results repository
//	// Caches the index under ~/.autoeq-fiio
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Configuration Options
//
// Settings includes options for:
//   - Target DSP model name
//   - AutoEq index and raw-file URLs
//   - The masterGain policy (profile preamp vs. fixed 0)
//   - Cache and output directories
//   - HTTP timeout and batch concurrency
package config
