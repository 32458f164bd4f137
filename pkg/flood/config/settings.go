package config

import (
	"fmt"
	"log/slog"
	"time"
)

// DefaultPulsetime is the largest gap that gets filled unless configured otherwise.
const DefaultPulsetime = 5 * time.Second

// Settings is the typed view of a flood configuration file:
//
//	flood:
//	  pulsetime: 5s        # or 5 (seconds)
//	  dummy_type: dummy
//	observability:
//	  log_level: info
//	  metrics: true
//	  tracing: false
//	diagnostics:
//	  db: ./diagnostics.db # empty keeps diagnostics in memory only
type Settings struct {
	Pulsetime     time.Duration
	DummyType     string
	LogLevel      slog.Level
	Metrics       bool
	Tracing       bool
	DiagnosticsDB string
}

// DefaultSettings returns the settings used when no file is given.
func DefaultSettings() Settings {
	return Settings{
		Pulsetime: DefaultPulsetime,
		DummyType: "dummy",
		LogLevel:  slog.LevelInfo,
	}
}

// ParseSettings extracts Settings from a Config, falling back to defaults
// for missing keys.
func ParseSettings(cfg Config) (Settings, error) {
	s := DefaultSettings()

	flood := cfg.Section("flood")
	s.Pulsetime = flood.Duration("pulsetime", s.Pulsetime)
	if s.Pulsetime < 0 {
		return Settings{}, fmt.Errorf("flood.pulsetime must not be negative, got %s", s.Pulsetime)
	}
	s.DummyType = flood.String("dummy_type", s.DummyType)
	if s.DummyType == "" {
		return Settings{}, fmt.Errorf("flood.dummy_type must not be empty")
	}

	obs := cfg.Section("observability")
	if level := obs.String("log_level", ""); level != "" {
		if err := s.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Settings{}, fmt.Errorf("observability.log_level: %w", err)
		}
	}
	s.Metrics = obs.Bool("metrics", s.Metrics)
	s.Tracing = obs.Bool("tracing", s.Tracing)

	s.DiagnosticsDB = cfg.Section("diagnostics").String("db", s.DiagnosticsDB)
	return s, nil
}

// LoadSettings reads and parses a YAML or JSON settings file.
func LoadSettings(path string) (Settings, error) {
	cfg, err := FromFile(path)
	if err != nil {
		return Settings{}, err
	}
	return ParseSettings(cfg)
}
