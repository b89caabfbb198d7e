// Package record holds completed challenge runs.
package record

import (
	"time"

	"aimtrain/internal/heatmap"
	"aimtrain/internal/scoring"
)

// Record is an immutable completed run.
type Record struct {
	ID              string             `json:"id"`
	Mode            scoring.Mode       `json:"mode"`
	Setting         string             `json:"setting"`
	TargetCount     int                `json:"target_count"`
	DurationSeconds float64            `json:"duration_seconds,omitempty"`
	ElapsedSeconds  float64            `json:"elapsed_seconds"`
	Metrics         scoring.RunMetrics `json:"metrics"`
	Breakdown       scoring.Breakdown  `json:"breakdown"`
	Heatmap         heatmap.Snapshot   `json:"heatmap"`
	Rank            string             `json:"rank"`
	Coins           int                `json:"coins"`
	Seed            int64              `json:"seed"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (r Record) Clone() Record {
	c := r
	c.Heatmap = r.Heatmap.Clone()
	c.Breakdown.Bonuses = append([]scoring.Bonus(nil), r.Breakdown.Bonuses...)
	return c
}

// CoinSink receives integer coin awards.
type CoinSink interface {
	AwardCoins(amount int) error
}
