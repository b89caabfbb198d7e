package sim

import (
	"math"
	"math/rand"

	"aimtrain/internal/arena"
	"aimtrain/internal/scoring"
	"aimtrain/internal/session"
)

// Action is what a player does during one tick.
type Action struct {
	Cursor arena.Point
	Inside bool
	Click  *arena.Point
}

// Player supplies input to a session.
type Player interface {
	Act(s *session.Session, dt float64) Action
}

// BotConfig tunes the simulated player.
type BotConfig struct {
	// ReactionSeconds is the delay between acquiring a target and clicking it.
	ReactionSeconds float64 `yaml:"reaction_seconds" json:"reaction_seconds"`
	// AimJitter is the standard deviation of click placement in pixels.
	AimJitter float64 `yaml:"aim_jitter" json:"aim_jitter"`
	// MissChance is the probability of a deliberate off-target click.
	MissChance float64 `yaml:"miss_chance" json:"miss_chance"`
	// FollowRate is how quickly the cursor closes in on a tracking target, per second.
	FollowRate float64 `yaml:"follow_rate" json:"follow_rate"`
}

// DefaultBotConfig is a competent but imperfect player.
func DefaultBotConfig() BotConfig {
	return BotConfig{ReactionSeconds: 0.35, AimJitter: 6, MissChance: 0.05, FollowRate: 8}
}

// Bot is a seeded simulated player.
type Bot struct {
	cfg    BotConfig
	rng    *rand.Rand
	cursor arena.Point
	aimID  int
	waited float64
}

// NewBot returns a bot with its own rng.
func NewBot(cfg BotConfig, seed int64) *Bot {
	if cfg.MissChance < 0 {
		cfg.MissChance = 0
	}
	if cfg.MissChance > 0.95 {
		cfg.MissChance = 0.95
	}
	if cfg.ReactionSeconds < 0 {
		cfg.ReactionSeconds = 0
	}
	return &Bot{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// Act implements Player.
func (b *Bot) Act(s *session.Session, dt float64) Action {
	if s.Settings().Mode == scoring.ModeTracking {
		return b.track(s, dt)
	}
	return b.click(s, dt)
}

func (b *Bot) click(s *session.Session, dt float64) Action {
	tg := nearestStatic(s.Targets(), b.cursor)
	if tg == nil {
		b.aimID = 0
		return Action{Cursor: b.cursor, Inside: true}
	}
	if tg.ID != b.aimID {
		b.aimID = tg.ID
		b.waited = 0
	}
	b.waited += dt
	if b.waited < b.cfg.ReactionSeconds {
		return Action{Cursor: b.cursor, Inside: true}
	}
	c := tg.Center()
	aim := arena.Point{X: c.X + b.rng.NormFloat64()*b.cfg.AimJitter, Y: c.Y + b.rng.NormFloat64()*b.cfg.AimJitter}
	if b.rng.Float64() < b.cfg.MissChance {
		ang := b.rng.Float64() * 2 * math.Pi
		r := tg.Radius() * 1.5
		aim = arena.Point{X: c.X + r*math.Cos(ang), Y: c.Y + r*math.Sin(ang)}
	}
	b.cursor = aim
	b.aimID = 0
	return Action{Cursor: aim, Inside: true, Click: &aim}
}

func (b *Bot) track(s *session.Session, dt float64) Action {
	live := s.TrackingTargets()
	if len(live) == 0 {
		return Action{Cursor: b.cursor, Inside: true}
	}
	best := live[0]
	bestD := best.Center().Dist(b.cursor)
	for _, t := range live[1:] {
		if d := t.Center().Dist(b.cursor); d < bestD {
			best, bestD = t, d
		}
	}
	alpha := 1 - math.Exp(-b.cfg.FollowRate*dt)
	c := best.Center()
	b.cursor = arena.Point{
		X: b.cursor.X + (c.X-b.cursor.X)*alpha + b.rng.NormFloat64()*b.cfg.AimJitter*0.25,
		Y: b.cursor.Y + (c.Y-b.cursor.Y)*alpha + b.rng.NormFloat64()*b.cfg.AimJitter*0.25,
	}
	return Action{Cursor: b.cursor, Inside: true}
}

func nearestStatic(targets []*arena.Target, from arena.Point) *arena.Target {
	var best *arena.Target
	bestD := math.Inf(1)
	for _, t := range targets {
		if d := t.Center().Dist(from); d < bestD {
			best, bestD = t, d
		}
	}
	return best
}
