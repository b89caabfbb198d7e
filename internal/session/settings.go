package session

import (
	"fmt"

	"aimtrain/internal/arena"
	"aimtrain/internal/heatmap"
	"aimtrain/internal/scoring"
	"aimtrain/internal/tracking"
)

// Settings fully describe one run. Together with the rng seed they make a run
// reproducible.
type Settings struct {
	Mode            scoring.Mode `json:"mode"`
	Setting         string       `json:"setting"`
	TargetCount     int          `json:"target_count"`
	DurationSeconds float64      `json:"duration_seconds,omitempty"`

	Arena       arena.Bounds `json:"arena"`
	Diameter    float64      `json:"diameter"`
	Padding     float64      `json:"padding"`
	MaxAttempts int          `json:"max_attempts,omitempty"`

	// MaxConcurrent caps live targets in speed and accuracy runs.
	MaxConcurrent int `json:"max_concurrent"`
	// TargetLifetime expires untouched targets as misses. Zero disables it.
	TargetLifetime float64 `json:"target_lifetime,omitempty"`

	KillThreshold      float64 `json:"kill_threshold,omitempty"`
	SpeedMin           float64 `json:"speed_min,omitempty"`
	SpeedMax           float64 `json:"speed_max,omitempty"`
	TrackingConcurrent int     `json:"tracking_concurrent,omitempty"`

	HeatmapSize  int `json:"heatmap_size"`
	SplatRadius  int `json:"splat_radius"`
	HeatmapScale int `json:"heatmap_scale"`
}

// DefaultSettings returns a playable 30 target speed run.
func DefaultSettings() Settings {
	return Settings{
		Mode:               scoring.ModeSpeed,
		Setting:            "30",
		TargetCount:        30,
		DurationSeconds:    30,
		Arena:              arena.Bounds{Width: 1280, Height: 720},
		Diameter:           60,
		Padding:            8,
		MaxAttempts:        arena.DefaultMaxAttempts,
		MaxConcurrent:      3,
		KillThreshold:      tracking.DefaultKillThreshold,
		SpeedMin:           120,
		SpeedMax:           320,
		TrackingConcurrent: 2,
		HeatmapSize:        heatmap.DefaultSize,
		SplatRadius:        heatmap.DefaultSplatRadius,
		HeatmapScale:       heatmap.DefaultScale,
	}
}

// Validate reports settings that cannot produce a run.
func (s Settings) Validate() error {
	if _, err := scoring.ParseMode(string(s.Mode)); err != nil {
		return err
	}
	if s.Diameter <= 0 {
		return fmt.Errorf("diameter must be positive, got %v", s.Diameter)
	}
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		return fmt.Errorf("arena must be positive, got %vx%v", s.Arena.Width, s.Arena.Height)
	}
	if s.Arena.Width < s.Diameter+2 || s.Arena.Height < s.Diameter+2 {
		return fmt.Errorf("arena %vx%v cannot fit a %v target", s.Arena.Width, s.Arena.Height, s.Diameter)
	}
	switch s.Mode {
	case scoring.ModeTracking:
		if s.DurationSeconds <= 0 {
			return fmt.Errorf("tracking needs a positive duration")
		}
		if s.SpeedMax < s.SpeedMin {
			return fmt.Errorf("speed_max %v below speed_min %v", s.SpeedMax, s.SpeedMin)
		}
	default:
		if s.TargetCount <= 0 {
			return fmt.Errorf("%s needs a positive target count", s.Mode)
		}
	}
	return nil
}

func (s Settings) concurrency() int {
	if s.Mode == scoring.ModeTracking {
		if s.TrackingConcurrent <= 0 {
			return 1
		}
		return s.TrackingConcurrent
	}
	if s.MaxConcurrent <= 0 {
		return 1
	}
	return s.MaxConcurrent
}
