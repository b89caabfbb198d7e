// Package session runs one challenge from start to score.
package session

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"aimtrain/internal/arena"
	"aimtrain/internal/heatmap"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/tracking"

	"github.com/google/uuid"
)

// State is the lifecycle stage of a session.
type State int

const (
	Armed State = iota
	Running
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case Armed:
		return "armed"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

var (
	ErrNotArmed     = errors.New("session already started")
	ErrNotCompleted = errors.New("session not completed")
)

// ClickResult describes the outcome of a click.
type ClickResult struct {
	Hit       bool        `json:"hit"`
	TargetID  int         `json:"target_id,omitempty"`
	Offset    arena.Point `json:"offset"`
	Completed bool        `json:"completed"`
}

// TickResult describes what happened during a tick.
type TickResult struct {
	Killed    []tracking.Kill
	Alive     []*tracking.Target
	Expired   []int
	Completed bool
}

// Session owns the live state of one run. It is single-writer: callers
// serialize Start, Click, Tick and Abort.
type Session struct {
	settings Settings
	seed     int64
	rng      *rand.Rand
	state    State

	clock     float64
	remaining float64
	nextID    int
	spawned   int

	targets []*arena.Target
	sim     *tracking.Simulator
	agg     *scoring.Aggregator
	heat    *heatmap.Accumulator
	events  []scoring.ShotEvent
}

// New returns an armed session. The seed is recorded on the run record.
func New(settings Settings, seed int64) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.Mode == scoring.ModeTracking && settings.KillThreshold <= 0 {
		settings.KillThreshold = tracking.DefaultKillThreshold
	}
	return &Session{
		settings:  settings,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		remaining: settings.DurationSeconds,
		sim:       tracking.NewSimulator(settings.Arena, settings.KillThreshold),
		agg:       scoring.NewAggregator(settings.Diameter),
		heat:      heatmap.New(settings.HeatmapSize, settings.SplatRadius),
	}, nil
}

// Settings returns the run settings.
func (s *Session) Settings() Settings { return s.settings }

// Seed returns the rng seed.
func (s *Session) Seed() int64 { return s.seed }

// State returns the lifecycle stage.
func (s *Session) State() State { return s.state }

// Elapsed returns the run clock in seconds.
func (s *Session) Elapsed() float64 { return s.clock }

// Remaining returns the tracking countdown in seconds.
func (s *Session) Remaining() float64 { return s.remaining }

// Metrics returns the live metrics.
func (s *Session) Metrics() scoring.RunMetrics { return s.agg.Metrics() }

// Events returns a copy of the recorded shot events.
func (s *Session) Events() []scoring.ShotEvent {
	return append([]scoring.ShotEvent(nil), s.events...)
}

// Targets returns the live static targets. The slice must not be modified.
func (s *Session) Targets() []*arena.Target { return s.targets }

// TrackingTargets returns the live moving targets. The slice must not be modified.
func (s *Session) TrackingTargets() []*tracking.Target { return s.sim.Targets() }

// Progress returns the health bar value of a tracking target.
func (s *Session) Progress(t *tracking.Target) float64 { return s.sim.Progress(t) }

// Pending returns how many spawns are owed but could not be placed yet.
func (s *Session) Pending() int {
	if s.state != Running {
		return 0
	}
	return s.wanted() - s.live()
}

// Start spawns the initial population.
func (s *Session) Start() error {
	if s.state != Armed {
		return ErrNotArmed
	}
	s.state = Running
	s.fill()
	return nil
}

// Click resolves a click at p. Only speed and accuracy runs take clicks.
func (s *Session) Click(p arena.Point) ClickResult {
	if s.state != Running || s.settings.Mode == scoring.ModeTracking {
		return ClickResult{}
	}
	for i := len(s.targets) - 1; i >= 0; i-- {
		t := s.targets[i]
		if !t.Contains(p) {
			continue
		}
		off := t.Offset(p)
		s.recordHit(off, t.Radius())
		s.targets = append(s.targets[:i], s.targets[i+1:]...)
		res := ClickResult{Hit: true, TargetID: t.ID, Offset: off}
		if s.staticDone() {
			s.complete()
			res.Completed = true
			return res
		}
		s.fill()
		return res
	}
	s.recordMiss()
	return ClickResult{}
}

// Tick advances the run by dt seconds. cursor and inside feed tracking dwell.
func (s *Session) Tick(dt float64, cursor arena.Point, inside bool) TickResult {
	if s.state != Running {
		return TickResult{}
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	if s.settings.Mode == scoring.ModeTracking {
		return s.tickTracking(dt, cursor, inside)
	}
	return s.tickStatic(dt)
}

func (s *Session) tickStatic(dt float64) TickResult {
	var res TickResult
	s.clock += dt
	if lt := s.settings.TargetLifetime; lt > 0 {
		kept := s.targets[:0]
		for _, t := range s.targets {
			if s.clock-t.SpawnedAt >= lt {
				res.Expired = append(res.Expired, t.ID)
				s.recordMiss()
				continue
			}
			kept = append(kept, t)
		}
		s.targets = kept
	}
	if s.staticDone() {
		s.complete()
		res.Completed = true
		return res
	}
	s.fill()
	return res
}

func (s *Session) tickTracking(dt float64, cursor arena.Point, inside bool) TickResult {
	step := math.Min(dt, s.remaining)
	s.clock += step
	s.remaining -= step

	tr := s.sim.Tick(step, cursor, inside)
	res := TickResult{Killed: tr.Killed, Alive: tr.Alive}
	for _, k := range tr.Killed {
		s.recordHit(k.Offset, k.Target.Radius())
	}

	if s.remaining <= 0 {
		left := s.sim.Clear()
		for range left {
			s.recordMiss()
		}
		res.Alive = nil
		s.complete()
		res.Completed = true
		return res
	}
	if s.budget() > 0 && s.spawned >= s.budget() && s.sim.Len() == 0 {
		s.complete()
		res.Completed = true
		return res
	}
	s.fill()
	res.Alive = append([]*tracking.Target(nil), s.sim.Targets()...)
	return res
}

// Abort drops all live state of an armed or running session. Later calls
// are no-ops.
func (s *Session) Abort() {
	if s.state != Armed && s.state != Running {
		return
	}
	s.state = Aborted
	s.targets = nil
	s.sim.Clear()
	s.agg.Reset()
	s.heat.Reset()
	s.events = nil
}

// Finish scores a completed run and returns its record.
func (s *Session) Finish(now time.Time) (record.Record, error) {
	if s.state != Completed {
		return record.Record{}, ErrNotCompleted
	}
	m := s.agg.Metrics()
	b := scoring.Compute(scoring.Input{
		Mode:            s.settings.Mode,
		TargetCount:     s.settings.TargetCount,
		DurationSeconds: s.settings.DurationSeconds,
		ElapsedSeconds:  s.clock,
		Metrics:         m,
	})
	return record.Record{
		ID:              uuid.NewString(),
		Mode:            s.settings.Mode,
		Setting:         s.settings.Setting,
		TargetCount:     s.settings.TargetCount,
		DurationSeconds: s.settings.DurationSeconds,
		ElapsedSeconds:  s.clock,
		Metrics:         m,
		Breakdown:       b,
		Heatmap:         s.heat.Snapshot(s.settings.HeatmapScale),
		Rank:            scoring.Rank(b.FinalScore, b.BaseMax),
		Coins:           scoring.Coins(b.FinalScore),
		Seed:            s.seed,
		Timestamp:       now.UTC(),
	}, nil
}

func (s *Session) complete() {
	s.state = Completed
	s.targets = nil
}

func (s *Session) recordHit(off arena.Point, radius float64) {
	ev := scoring.HitAt(s.clock, off.X, off.Y)
	s.events = append(s.events, ev)
	s.agg.Add(ev)
	if radius > 0 {
		s.heat.RecordHit(off.X/radius, off.Y/radius)
	}
}

func (s *Session) recordMiss() {
	ev := scoring.Miss(s.clock)
	s.events = append(s.events, ev)
	s.agg.Add(ev)
}

// budget is the number of targets the run spawns in total; 0 means unlimited.
func (s *Session) budget() int { return s.settings.TargetCount }

func (s *Session) staticDone() bool {
	return s.spawned >= s.budget() && len(s.targets) == 0
}

func (s *Session) live() int {
	if s.settings.Mode == scoring.ModeTracking {
		return s.sim.Len()
	}
	return len(s.targets)
}

func (s *Session) wanted() int {
	n := s.settings.concurrency()
	if b := s.budget(); b > 0 {
		if left := b - s.spawned + s.live(); left < n {
			n = left
		}
	}
	return n
}

// fill tops the live population up to the wanted size. A spawn that finds no
// room is retried on the next tick.
func (s *Session) fill() {
	for s.live() < s.wanted() {
		if !s.spawn() {
			return
		}
	}
}

func (s *Session) spawn() bool {
	var existing []arena.Point
	if s.settings.Mode == scoring.ModeTracking {
		for _, t := range s.sim.Targets() {
			existing = append(existing, t.Center())
		}
	} else {
		existing = arena.Centers(s.targets)
	}
	pos, ok := arena.TryPlace(s.rng, s.settings.Arena, s.settings.Diameter, existing, s.settings.Padding, s.settings.MaxAttempts)
	if !ok {
		return false
	}
	s.nextID++
	s.spawned++
	base := arena.Target{ID: s.nextID, X: pos.X, Y: pos.Y, Diameter: s.settings.Diameter, SpawnedAt: s.clock}
	if s.settings.Mode != scoring.ModeTracking {
		s.targets = append(s.targets, &base)
		return true
	}
	speed := s.settings.SpeedMin + s.rng.Float64()*(s.settings.SpeedMax-s.settings.SpeedMin)
	vel := tracking.RandomVelocity(speed, s.rng.Float64()*2*math.Pi)
	s.sim.Add(&tracking.Target{Target: base, Vel: vel})
	return true
}
