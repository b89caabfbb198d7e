package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseMax(t *testing.T) {
	assert.Equal(t, 30000, BaseMax(ModeSpeed, 30, 0))
	assert.Equal(t, 60000, BaseMax(ModeAccuracy, 60, 0))
	assert.Equal(t, 100000, BaseMax(ModeSpeed, 100, 0))
	assert.Equal(t, 45000, BaseMax(ModeSpeed, 45, 0))
	assert.Equal(t, 30000, BaseMax(ModeTracking, 99, 30))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" Tracking ")
	require.NoError(t, err)
	assert.Equal(t, ModeTracking, m)
	_, err = ParseMode("flick")
	assert.Error(t, err)
}

func speedScenario() Input {
	return Input{
		Mode:           ModeSpeed,
		TargetCount:    30,
		ElapsedSeconds: 18,
		Metrics: RunMetrics{
			Hits:             29,
			Misses:           1,
			OverallAccuracy:  0.95,
			InTargetAccuracy: 0.90,
			AvgDistance:      5,
		},
	}
}

func TestCompute_SpeedScenario(t *testing.T) {
	b := Compute(speedScenario())

	assert.Equal(t, 30000, b.BaseMax)
	assert.Equal(t, 30000, b.BaseScore)
	require.Len(t, b.Bonuses, 5)
	for _, x := range b.Bonuses {
		assert.Greater(t, x.Value, 0, x.Name)
	}
	assert.Equal(t, 1756, b.Bonus(BonusOverall))
	assert.Equal(t, 2363, b.Bonus(BonusInTarget))
	assert.Equal(t, 2136, b.Bonus(BonusPace))
	assert.Equal(t, 1133, b.Bonus(BonusMissRate))
	assert.Equal(t, 2146, b.Bonus(BonusDistance))
	assert.Equal(t, b.BaseScore+b.BonusTotal(), b.FinalScore)
}

func TestCompute_AbortedRunScoresZero(t *testing.T) {
	m := Aggregate(nil, 60)
	for _, mode := range Modes {
		b := Compute(Input{Mode: mode, TargetCount: 30, DurationSeconds: 30, Metrics: m})
		assert.Zero(t, b.BaseScore, mode)
		assert.Zero(t, b.BonusTotal(), mode)
		assert.Zero(t, b.FinalScore, mode)
		assert.NotEmpty(t, b.Bonuses, mode)
	}
}

func TestCompute_AccuracyMode(t *testing.T) {
	b := Compute(Input{
		Mode:           ModeAccuracy,
		TargetCount:    30,
		ElapsedSeconds: 27,
		Metrics: RunMetrics{
			Hits:             30,
			OverallAccuracy:  1,
			InTargetAccuracy: 0.95,
			AvgDistance:      3,
		},
	})
	// 0.7*1 + 0.3*1
	assert.Equal(t, 30000, b.BaseScore)
	assert.Equal(t, 6000, b.Bonus(BonusOverall))
	assert.Equal(t, 1500, b.Bonus(BonusTime))
	assert.Equal(t, 1800, b.Bonus(BonusMissRate))
	assert.Equal(t, 3000, b.Bonus(BonusDistance))
	assert.Greater(t, b.Bonus(BonusPace), 0)
	assert.Greater(t, b.FinalScore, b.BaseMax)
}

func TestCompute_AccuracyBelowThresholds(t *testing.T) {
	b := Compute(Input{
		Mode:           ModeAccuracy,
		TargetCount:    30,
		ElapsedSeconds: 90,
		Metrics: RunMetrics{
			Hits:             21,
			Misses:           9,
			OverallAccuracy:  0.7,
			InTargetAccuracy: 0.4,
			AvgDistance:      30,
		},
	})
	assert.Zero(t, b.BaseScore)
	assert.Zero(t, b.BonusTotal())
	assert.Zero(t, b.FinalScore)
}

func trackingInput(elapsed float64) Input {
	return Input{
		Mode:            ModeTracking,
		TargetCount:     20,
		DurationSeconds: 30,
		ElapsedSeconds:  elapsed,
		Metrics: RunMetrics{
			Hits:             20,
			OverallAccuracy:  1,
			InTargetAccuracy: 0.95,
			AvgDistance:      2,
		},
	}
}

func TestCompute_TrackingEarlyFinish(t *testing.T) {
	half := Compute(trackingInput(15))
	assert.Equal(t, 30000, half.BaseScore)
	assert.Equal(t, 938, half.Bonus(BonusEarlyFinish))

	late := Compute(trackingInput(24))
	assert.Equal(t, 60, late.Bonus(BonusEarlyFinish))
	assert.Less(t, late.FinalScore, half.FinalScore)

	full := Compute(trackingInput(30))
	assert.Zero(t, full.Bonus(BonusEarlyFinish))
}

func TestCompute_TrackingEarlyFinishGated(t *testing.T) {
	in := trackingInput(10)
	in.Metrics.Misses = 1
	in.Metrics.OverallAccuracy = 20.0 / 21.0
	b := Compute(in)
	assert.Zero(t, b.Bonus(BonusEarlyFinish))
	assert.Equal(t, 28571, b.BaseScore)
}

func TestCompute_UnlimitedTrackingMissRate(t *testing.T) {
	in := trackingInput(30)
	in.TargetCount = 0
	in.Metrics.Hits, in.Metrics.Misses = 10, 10
	assert.Zero(t, Compute(in).Bonus(BonusMissRate))

	in.Metrics.Misses = 0
	assert.Equal(t, 1500, Compute(in).Bonus(BonusMissRate))

	in.Metrics.Hits = 0
	assert.Equal(t, 1500, Compute(in).Bonus(BonusMissRate))
}

func TestCompute_Idempotent(t *testing.T) {
	for _, in := range []Input{speedScenario(), trackingInput(12)} {
		assert.Equal(t, Compute(in), Compute(in))
	}
}

func TestCompute_ClampsOutOfRangeAccuracy(t *testing.T) {
	in := speedScenario()
	in.Metrics.OverallAccuracy = 1.7
	in.Metrics.InTargetAccuracy = -3
	b := Compute(in)
	assert.Equal(t, 4500, b.Bonus(BonusOverall))
	assert.Zero(t, b.Bonus(BonusInTarget))
	assert.GreaterOrEqual(t, b.FinalScore, 0)
}

func TestRank(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{40000, "S+"},
		{33000, "S"},
		{28500, "A"},
		{24000, "B"},
		{18000, "C"},
		{17999, "D"},
		{0, "D"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Rank(c.score, 30000), "score %d", c.score)
	}
	assert.Equal(t, "D", Rank(100, 0))
}

func TestCoins(t *testing.T) {
	assert.Equal(t, 39, Coins(39533))
	assert.Zero(t, Coins(999))
	assert.Zero(t, Coins(-5))
}
