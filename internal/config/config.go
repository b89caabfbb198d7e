// YAML config loader with CUE validation integration
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"aimtrain/internal/arena"
	"aimtrain/internal/heatmap"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/session"
	"aimtrain/internal/sim"
	"aimtrain/internal/tracking"
)

// Arena is the playable area in pixels.
type Arena struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Target shapes and places targets.
type Target struct {
	Diameter    float64 `yaml:"diameter"`
	Padding     float64 `yaml:"padding"`
	MaxAttempts int     `yaml:"max_attempts"`
}

// Challenge holds rules shared by speed and accuracy runs.
type Challenge struct {
	MaxConcurrent  int     `yaml:"max_concurrent"`
	TargetLifetime float64 `yaml:"target_lifetime"`
}

// Tracking tunes moving targets.
type Tracking struct {
	KillThreshold float64 `yaml:"kill_threshold"`
	SpeedMin      float64 `yaml:"speed_min"`
	SpeedMax      float64 `yaml:"speed_max"`
	Concurrent    int     `yaml:"concurrent"`
	TickMS        int     `yaml:"tick_ms"`
}

// Heatmap sizes the hit heatmap.
type Heatmap struct {
	Grid        int `yaml:"grid"`
	SplatRadius int `yaml:"splat_radius"`
	Scale       int `yaml:"scale"`
}

// History sizes the in-memory run history.
type History struct {
	Capacity int `yaml:"capacity"`
}

// Preset is a named run setting for a mode.
type Preset struct {
	Name            string  `yaml:"name"`
	Mode            string  `yaml:"mode"`
	Targets         int     `yaml:"targets"`
	DurationSeconds float64 `yaml:"duration_seconds"`
}

// Config is the root configuration.
type Config struct {
	Arena     Arena         `yaml:"arena"`
	Target    Target        `yaml:"target"`
	Challenge Challenge     `yaml:"challenge"`
	Tracking  Tracking      `yaml:"tracking"`
	Heatmap   Heatmap       `yaml:"heatmap"`
	History   History       `yaml:"history"`
	Bot       sim.BotConfig `yaml:"bot"`
	Presets   []Preset      `yaml:"presets"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Arena:     Arena{Width: 1280, Height: 720},
		Target:    Target{Diameter: 60, Padding: 8, MaxAttempts: arena.DefaultMaxAttempts},
		Challenge: Challenge{MaxConcurrent: 3},
		Tracking: Tracking{
			KillThreshold: tracking.DefaultKillThreshold,
			SpeedMin:      120,
			SpeedMax:      320,
			Concurrent:    2,
			TickMS:        16,
		},
		Heatmap: Heatmap{Grid: heatmap.DefaultSize, SplatRadius: heatmap.DefaultSplatRadius, Scale: heatmap.DefaultScale},
		History: History{Capacity: record.DefaultCapacity},
		Bot:     sim.DefaultBotConfig(),
		Presets: DefaultPresets(),
	}
}

// DefaultPresets lists the stock settings for every mode.
func DefaultPresets() []Preset {
	return []Preset{
		{Name: "30", Mode: "speed", Targets: 30},
		{Name: "60", Mode: "speed", Targets: 60},
		{Name: "100", Mode: "speed", Targets: 100},
		{Name: "30", Mode: "accuracy", Targets: 30},
		{Name: "60", Mode: "accuracy", Targets: 60},
		{Name: "100", Mode: "accuracy", Targets: 100},
		{Name: "30s", Mode: "tracking", Targets: 20, DurationSeconds: 30},
		{Name: "60s", Mode: "tracking", Targets: 40, DurationSeconds: 60},
		{Name: "90s", Mode: "tracking", Targets: 60, DurationSeconds: 90},
	}
}

// Load reads a YAML config, validates it against the CUE schema and applies
// it over the defaults. An empty path returns the defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(configPath, data)
}

// Parse validates and decodes YAML bytes. filename is used in error messages.
func Parse(filename string, data []byte) (*Config, error) {
	// Validate with CUE first
	if err := ValidateWithCue(filename, data); err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Tracking.SpeedMax < cfg.Tracking.SpeedMin {
		return nil, fmt.Errorf("tracking.speed_max %v below speed_min %v", cfg.Tracking.SpeedMax, cfg.Tracking.SpeedMin)
	}
	slog.Debug("loaded configuration", "path", filename, "presets", len(cfg.Presets))
	return cfg, nil
}

// TickInterval returns the session tick.
func (c *Config) TickInterval() time.Duration {
	if c.Tracking.TickMS <= 0 {
		return sim.DefaultTickInterval
	}
	return time.Duration(c.Tracking.TickMS) * time.Millisecond
}

// Preset finds a preset by mode and name.
func (c *Config) Preset(mode scoring.Mode, name string) (Preset, bool) {
	for _, p := range c.Presets {
		if strings.EqualFold(p.Mode, string(mode)) && p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// PresetNames lists the preset names available for mode.
func (c *Config) PresetNames(mode scoring.Mode) []string {
	var out []string
	for _, p := range c.Presets {
		if strings.EqualFold(p.Mode, string(mode)) {
			out = append(out, p.Name)
		}
	}
	return out
}

// Settings builds session settings for a mode and preset name.
func (c *Config) Settings(mode scoring.Mode, name string) (session.Settings, error) {
	p, ok := c.Preset(mode, name)
	if !ok {
		return session.Settings{}, fmt.Errorf("no %s preset named %q (have %s)", mode, name, strings.Join(c.PresetNames(mode), ", "))
	}
	s := session.Settings{
		Mode:               mode,
		Setting:            p.Name,
		TargetCount:        p.Targets,
		DurationSeconds:    p.DurationSeconds,
		Arena:              arena.Bounds{Width: c.Arena.Width, Height: c.Arena.Height},
		Diameter:           c.Target.Diameter,
		Padding:            c.Target.Padding,
		MaxAttempts:        c.Target.MaxAttempts,
		MaxConcurrent:      c.Challenge.MaxConcurrent,
		TargetLifetime:     c.Challenge.TargetLifetime,
		KillThreshold:      c.Tracking.KillThreshold,
		SpeedMin:           c.Tracking.SpeedMin,
		SpeedMax:           c.Tracking.SpeedMax,
		TrackingConcurrent: c.Tracking.Concurrent,
		HeatmapSize:        c.Heatmap.Grid,
		SplatRadius:        c.Heatmap.SplatRadius,
		HeatmapScale:       c.Heatmap.Scale,
	}
	if err := s.Validate(); err != nil {
		return session.Settings{}, fmt.Errorf("preset %s/%s: %w", mode, name, err)
	}
	return s, nil
}
