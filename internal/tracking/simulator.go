// Package tracking simulates moving targets that are killed by cursor dwell.
package tracking

import (
	"math"

	"aimtrain/internal/arena"
)

// DefaultKillThreshold is the dwell time in seconds needed to kill a target.
const DefaultKillThreshold = 0.9

// Target is a moving tracking target. Dwell only ever grows.
type Target struct {
	arena.Target
	Vel   arena.Point `json:"vel"`
	Dwell float64     `json:"dwell"`
	// LastOffset is the cursor offset from the center on the most recent
	// contained tick.
	LastOffset arena.Point `json:"last_offset"`
}

// Kill describes a target removed on the tick its dwell reached the threshold.
type Kill struct {
	Target *Target
	Offset arena.Point
}

// TickResult lists the targets killed during a tick and those still alive.
type TickResult struct {
	Killed []Kill
	Alive  []*Target
}

// Simulator advances tracking targets inside fixed bounds.
// It is not safe for concurrent use; the owning session serializes calls.
type Simulator struct {
	bounds        arena.Bounds
	killThreshold float64
	targets       []*Target
}

// NewSimulator returns a simulator for the given arena. A non-positive
// killThreshold uses DefaultKillThreshold.
func NewSimulator(b arena.Bounds, killThreshold float64) *Simulator {
	if killThreshold <= 0 {
		killThreshold = DefaultKillThreshold
	}
	return &Simulator{bounds: b, killThreshold: killThreshold}
}

// KillThreshold returns the dwell time needed to kill a target.
func (s *Simulator) KillThreshold() float64 { return s.killThreshold }

// Add puts a target into the live population.
func (s *Simulator) Add(t *Target) { s.targets = append(s.targets, t) }

// Targets returns the live population. The slice must not be modified.
func (s *Simulator) Targets() []*Target { return s.targets }

// Len returns the number of live targets.
func (s *Simulator) Len() int { return len(s.targets) }

// Clear drops every live target and returns them.
func (s *Simulator) Clear() []*Target {
	out := s.targets
	s.targets = nil
	return out
}

// Progress returns the target's normalized health bar value in [0,1].
func (s *Simulator) Progress(t *Target) float64 {
	return math.Min(1, t.Dwell/s.killThreshold)
}

// Tick moves every target by dt seconds, applies dwell for the cursor and
// removes targets whose dwell reached the threshold. inside reports whether
// cursor tracking is enabled for this tick.
func (s *Simulator) Tick(dt float64, cursor arena.Point, inside bool) TickResult {
	var res TickResult
	if dt < 0 {
		dt = 0
	}
	alive := s.targets[:0]
	for _, t := range s.targets {
		s.move(t, dt)
		if inside && t.Contains(cursor) {
			t.LastOffset = t.Offset(cursor)
			t.Dwell = math.Min(s.killThreshold, t.Dwell+dt)
		}
		if t.Dwell >= s.killThreshold {
			res.Killed = append(res.Killed, Kill{Target: t, Offset: t.LastOffset})
			continue
		}
		alive = append(alive, t)
	}
	for i := len(alive); i < len(s.targets); i++ {
		s.targets[i] = nil
	}
	s.targets = alive
	res.Alive = append([]*Target(nil), alive...)
	return res
}

func (s *Simulator) move(t *Target, dt float64) {
	t.X, t.Vel.X = reflect(t.X+t.Vel.X*dt, t.Vel.X, s.bounds.Width-t.Diameter)
	t.Y, t.Vel.Y = reflect(t.Y+t.Vel.Y*dt, t.Vel.Y, s.bounds.Height-t.Diameter)
}

// reflect clamps pos into [0, limit] and negates vel when a boundary was crossed.
func reflect(pos, vel, limit float64) (float64, float64) {
	if limit < 0 {
		limit = 0
	}
	switch {
	case pos < 0:
		return 0, math.Abs(vel)
	case pos > limit:
		return limit, -math.Abs(vel)
	}
	return pos, vel
}

// RandomVelocity returns a velocity with the given speed along angle radians.
func RandomVelocity(speed, angle float64) arena.Point {
	return arena.Point{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
}
