// Package scoring turns run metrics into a score breakdown.
package scoring

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects the challenge rules.
type Mode string

const (
	ModeSpeed    Mode = "speed"
	ModeAccuracy Mode = "accuracy"
	ModeTracking Mode = "tracking"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeSpeed, ModeAccuracy, ModeTracking}

// ParseMode accepts a mode name in any case.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeSpeed, ModeAccuracy, ModeTracking:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Bonus is one graded dimension of a breakdown.
type Bonus struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Breakdown is the scored result of a run.
type Breakdown struct {
	Mode       Mode    `json:"mode"`
	BaseMax    int     `json:"base_max"`
	BaseScore  int     `json:"base_score"`
	Bonuses    []Bonus `json:"bonuses"`
	FinalScore int     `json:"final_score"`
}

// Bonus returns the named bonus value, or 0.
func (b Breakdown) Bonus(name string) int {
	for _, x := range b.Bonuses {
		if x.Name == name {
			return x.Value
		}
	}
	return 0
}

// BonusTotal sums all bonuses.
func (b Breakdown) BonusTotal() int {
	sum := 0
	for _, x := range b.Bonuses {
		sum += x.Value
	}
	return sum
}

// Bonus names.
const (
	BonusOverall     = "overall_accuracy"
	BonusInTarget    = "in_target_accuracy"
	BonusPace        = "pace"
	BonusTime        = "time"
	BonusMissRate    = "miss_rate"
	BonusDistance    = "avg_distance"
	BonusCompletion  = "completion"
	BonusEarlyFinish = "early_finish"
)

// Input carries everything Compute needs.
type Input struct {
	Mode            Mode       `json:"mode"`
	TargetCount     int        `json:"target_count"`
	DurationSeconds float64    `json:"duration_seconds"`
	ElapsedSeconds  float64    `json:"elapsed_seconds"`
	Metrics         RunMetrics `json:"metrics"`
}

var baseMaxTable = map[int]int{30: 30000, 60: 60000, 100: 100000}

// BaseMax returns the score ceiling for a mode and setting.
func BaseMax(mode Mode, targetCount int, durationSeconds float64) int {
	if mode == ModeTracking {
		return int(math.Round(math.Max(0, durationSeconds) * 1000))
	}
	if v, ok := baseMaxTable[targetCount]; ok {
		return v
	}
	if targetCount < 0 {
		return 0
	}
	return targetCount * 1000
}

// Compute scores a run. It has no side effects; identical inputs give
// identical breakdowns. A run without hits scores zero on every term.
func Compute(in Input) Breakdown {
	bm := BaseMax(in.Mode, in.TargetCount, in.DurationSeconds)
	b := Breakdown{Mode: in.Mode, BaseMax: bm}
	if in.Metrics.Hits <= 0 {
		b.Bonuses = zeroBonuses(in.Mode)
		return b
	}
	g := newGrader(in, float64(bm))
	switch in.Mode {
	case ModeSpeed:
		g.speed(&b)
	case ModeAccuracy:
		g.accuracy(&b)
	case ModeTracking:
		g.tracking(&b)
	}
	b.FinalScore = b.BaseScore + b.BonusTotal()
	if b.FinalScore < 0 {
		b.FinalScore = 0
	}
	return b
}

type grader struct {
	in       Input
	baseMax  float64
	overall  float64
	inTarget float64
	pace     float64
	missRate float64
}

func newGrader(in Input, baseMax float64) grader {
	g := grader{
		in:       in,
		baseMax:  baseMax,
		overall:  clamp01(in.Metrics.OverallAccuracy),
		inTarget: clamp01(in.Metrics.InTargetAccuracy),
	}
	if in.TargetCount > 0 {
		n := float64(in.TargetCount)
		g.pace = math.Max(0, in.ElapsedSeconds) / n
		g.missRate = float64(in.Metrics.Misses) / n
	} else {
		g.pace = math.Max(0, in.ElapsedSeconds)
		// Unlimited budget: rate misses against attempts.
		if n := in.Metrics.Hits + in.Metrics.Misses; n > 0 {
			g.missRate = float64(in.Metrics.Misses) / float64(n)
		}
	}
	return g
}

func (g grader) higher(value, ok, good, minFrac, maxFrac, power float64) int {
	return BonusHigherBetter(value, ok, good, minFrac*g.baseMax, maxFrac*g.baseMax, power)
}

func (g grader) lower(value, goodMax, amazingMax, minFrac, maxFrac, power float64) int {
	return BonusLowerBetter(value, goodMax, amazingMax, minFrac*g.baseMax, maxFrac*g.baseMax, power)
}

func (g grader) speed(b *Breakdown) {
	rate := 0.0
	if g.in.ElapsedSeconds > 0 {
		rate = float64(g.in.TargetCount) / g.in.ElapsedSeconds
	}
	b.BaseScore = int(math.Round(g.baseMax * Ramp(rate, 0.5, 1.25)))
	d := g.in.Metrics.AvgDistance
	b.Bonuses = []Bonus{
		{BonusOverall, g.higher(g.overall, 0.85, 1.00, 0.02, 0.15, 3)},
		{BonusInTarget, g.higher(g.inTarget, 0.60, 0.95, 0.02, 0.10, 2)},
		{BonusPace, g.lower(g.pace, 1.00, 0.50, 0.02, 0.12, 3)},
		{BonusMissRate, g.lower(g.missRate, 0.20, 0.00, 0.01, 0.05, 2)},
		{BonusDistance, g.lower(d, 20, 4, 0.01, 0.08, 2)},
	}
}

func (g grader) accuracy(b *Breakdown) {
	blend := 0.7*Ramp(g.overall, 0.70, 1.00) + 0.3*Ramp(g.inTarget, 0.40, 0.95)
	b.BaseScore = int(math.Round(g.baseMax * blend))
	n := float64(g.in.TargetCount)
	d := g.in.Metrics.AvgDistance
	b.Bonuses = []Bonus{
		{BonusOverall, g.higher(g.overall, 0.90, 1.00, 0.03, 0.20, 4)},
		{BonusInTarget, g.higher(g.inTarget, 0.70, 0.98, 0.02, 0.12, 3)},
		{BonusTime, g.lower(g.in.ElapsedSeconds, 2.0*n, 1.0*n, 0.01, 0.05, 2)},
		{BonusPace, g.lower(g.pace, 1.20, 0.70, 0.01, 0.05, 2)},
		{BonusMissRate, g.lower(g.missRate, 0.10, 0.00, 0.01, 0.06, 3)},
		{BonusDistance, g.lower(d, 15, 3, 0.02, 0.10, 3)},
	}
}

// earlyFinishGate is the completion needed before unused time is rewarded.
const earlyFinishGate = 0.98

func (g grader) tracking(b *Breakdown) {
	b.BaseScore = int(math.Round(g.baseMax * g.overall))
	d := g.in.Metrics.AvgDistance
	b.Bonuses = []Bonus{
		{BonusInTarget, g.higher(g.inTarget, 0.60, 0.95, 0.02, 0.10, 2)},
		{BonusCompletion, g.higher(g.overall, 0.80, 1.00, 0.03, 0.15, 3)},
		{BonusMissRate, g.lower(g.missRate, 0.30, 0.00, 0.01, 0.05, 2)},
		{BonusDistance, g.lower(d, 25, 5, 0.01, 0.08, 2)},
		{BonusEarlyFinish, g.earlyFinish()},
	}
}

func (g grader) earlyFinish() int {
	if g.overall < earlyFinishGate || g.in.DurationSeconds <= 0 {
		return 0
	}
	unused := clamp01(1 - g.in.ElapsedSeconds/g.in.DurationSeconds)
	return int(math.Round(0.25 * g.baseMax * PowEase(unused, 3)))
}

func zeroBonuses(mode Mode) []Bonus {
	var names []string
	switch mode {
	case ModeSpeed:
		names = []string{BonusOverall, BonusInTarget, BonusPace, BonusMissRate, BonusDistance}
	case ModeAccuracy:
		names = []string{BonusOverall, BonusInTarget, BonusTime, BonusPace, BonusMissRate, BonusDistance}
	case ModeTracking:
		names = []string{BonusInTarget, BonusCompletion, BonusMissRate, BonusDistance, BonusEarlyFinish}
	}
	out := make([]Bonus, 0, len(names))
	for _, n := range names {
		out = append(out, Bonus{Name: n})
	}
	return out
}
