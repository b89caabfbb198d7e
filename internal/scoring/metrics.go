package scoring

import (
	"math"

	"aimtrain/internal/arena"
)

// ShotEvent is one resolved attempt: a click or a target timeout. Offset is
// nil for pure misses.
type ShotEvent struct {
	Hit    bool         `json:"hit"`
	Offset *arena.Point `json:"offset,omitempty"`
	// Time is the run clock in seconds.
	Time float64 `json:"t"`
}

// HitAt returns a hit event at offset (dx, dy) from the target center.
func HitAt(t, dx, dy float64) ShotEvent {
	return ShotEvent{Hit: true, Offset: &arena.Point{X: dx, Y: dy}, Time: t}
}

// Miss returns a miss event.
func Miss(t float64) ShotEvent {
	return ShotEvent{Time: t}
}

// RunMetrics summarizes a run for scoring.
type RunMetrics struct {
	Hits             int     `json:"hits"`
	Misses           int     `json:"misses"`
	OverallAccuracy  float64 `json:"overall_accuracy"`
	InTargetAccuracy float64 `json:"in_target_accuracy"`
	AvgDistance      float64 `json:"avg_distance"`
}

// Attempts returns hits plus misses.
func (m RunMetrics) Attempts() int { return m.Hits + m.Misses }

// Aggregator reduces shot events incrementally. The zero value is not usable;
// use NewAggregator.
type Aggregator struct {
	diameter    float64
	hits        int
	misses      int
	distanceSum float64
}

// NewAggregator returns an aggregator for targets of the given diameter.
func NewAggregator(diameter float64) *Aggregator {
	return &Aggregator{diameter: diameter}
}

// Add folds one event into the totals.
func (a *Aggregator) Add(ev ShotEvent) {
	if !ev.Hit {
		a.misses++
		return
	}
	a.hits++
	if ev.Offset != nil {
		a.distanceSum += ev.Offset.Len()
	}
}

// AddMisses counts n misses without individual events.
func (a *Aggregator) AddMisses(n int) {
	if n > 0 {
		a.misses += n
	}
}

// Reset clears all totals.
func (a *Aggregator) Reset() {
	a.hits, a.misses, a.distanceSum = 0, 0, 0
}

// Metrics returns the current summary.
func (a *Aggregator) Metrics() RunMetrics {
	m := RunMetrics{Hits: a.hits, Misses: a.misses, OverallAccuracy: 1}
	if attempts := a.hits + a.misses; attempts > 0 {
		m.OverallAccuracy = float64(a.hits) / float64(attempts)
	}
	if a.hits == 0 {
		m.AvgDistance = a.diameter
		m.InTargetAccuracy = 0
		return m
	}
	m.AvgDistance = a.distanceSum / float64(a.hits)
	m.InTargetAccuracy = InTargetAccuracy(m.AvgDistance, a.diameter)
	return m
}

// Aggregate reduces a full event list for targets of the given diameter.
func Aggregate(events []ShotEvent, diameter float64) RunMetrics {
	a := NewAggregator(diameter)
	for _, ev := range events {
		a.Add(ev)
	}
	return a.Metrics()
}

// InTargetAccuracy scores the average hit distance relative to the diameter.
func InTargetAccuracy(avgDistance, diameter float64) float64 {
	if diameter <= 0 || math.IsNaN(avgDistance) {
		return 0
	}
	return clamp01(1 - avgDistance/diameter)
}
