package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings are per-user CLI defaults. They never describe a corpus; the
// manifest does that.
type Settings struct {
	// NumJobs is the extractor worker count (0 = number of CPUs).
	NumJobs int `yaml:"num_jobs" json:"num_jobs"`

	// LogLevel is the level used by --verbose and --debug logging.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// NoColor disables styled progress output.
	NoColor bool `yaml:"no_color" json:"no_color"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() *Settings {
	return &Settings{
		NumJobs:  0,
		LogLevel: "info",
	}
}

// SettingsPath returns the user settings file location:
//   - $XDG_CONFIG_HOME/datashed/settings.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/datashed/settings.yaml (default)
func SettingsPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "datashed", "settings.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "datashed", "settings.yaml")
	}
	return filepath.Join(home, ".config", "datashed", "settings.yaml")
}

// LoadSettings applies, in order of increasing precedence:
//  1. Built-in defaults
//  2. The user settings file, if present
//  3. Environment variables (DATASHED_NUM_JOBS, DATASHED_LOG_LEVEL, NO_COLOR)
//
// Command-line flags override the result at the call site.
func LoadSettings() (*Settings, error) {
	s := DefaultSettings()

	path := SettingsPath()
	if data, err := os.ReadFile(path); err == nil {
		if err := s.mergeYAML(data); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}

	if err := s.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// mergeYAML overlays the non-zero values found in data.
func (s *Settings) mergeYAML(data []byte) error {
	var parsed Settings
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return err
	}

	if parsed.NumJobs != 0 {
		s.NumJobs = parsed.NumJobs
	}
	if parsed.LogLevel != "" {
		s.LogLevel = parsed.LogLevel
	}
	if parsed.NoColor {
		s.NoColor = true
	}
	return nil
}

func (s *Settings) applyEnvOverrides() error {
	if v := os.Getenv("DATASHED_NUM_JOBS"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value '%s' for DATASHED_NUM_JOBS: expected a non-negative integer", v)
		}
		s.NumJobs = n
	}
	if v := os.Getenv("DATASHED_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		s.NoColor = true
	}
	return nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.NumJobs < 0 {
		return fmt.Errorf("num_jobs must be >= 0, got %d", s.NumJobs)
	}
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", s.LogLevel)
	}
	return nil
}

// WriteYAML saves the settings to path, creating parent directories.
func (s *Settings) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
