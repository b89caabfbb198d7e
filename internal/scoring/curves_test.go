package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRamp(t *testing.T) {
	assert.Equal(t, 0.0, Ramp(0.2, 0.5, 1.0))
	assert.Equal(t, 1.0, Ramp(3, 0.5, 1.0))
	assert.InDelta(t, 0.5, Ramp(0.75, 0.5, 1.0), 1e-12)

	for v := -2.0; v <= 2.0; v += 0.05 {
		r := Ramp(v, -0.3, 0.9)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
	}
}

func TestRamp_DegenerateIsStep(t *testing.T) {
	assert.Equal(t, 0.0, Ramp(0.49, 0.5, 0.5))
	assert.Equal(t, 1.0, Ramp(0.5, 0.5, 0.5))
	assert.Equal(t, 1.0, Ramp(0.7, 0.5, 0.2))
	assert.Equal(t, 0.0, Ramp(0.1, 0.5, 0.2))
}

func TestPowEase(t *testing.T) {
	assert.Equal(t, 0.0, PowEase(-1, 3))
	assert.Equal(t, 1.0, PowEase(5, 3))
	assert.InDelta(t, 0.125, PowEase(0.5, 3), 1e-12)
}

func TestBonusHigherBetter_FloorThenRamp(t *testing.T) {
	assert.Equal(t, 0, BonusHigherBetter(0.849, 0.85, 1.0, 600, 4500, 3))
	assert.Equal(t, 600, BonusHigherBetter(0.85, 0.85, 1.0, 600, 4500, 3))
	assert.Equal(t, 4500, BonusHigherBetter(1.0, 0.85, 1.0, 600, 4500, 3))
	assert.Equal(t, 4500, BonusHigherBetter(1.2, 0.85, 1.0, 600, 4500, 3))

	prev := 0
	for v := 0.85; v <= 1.0; v += 0.001 {
		b := BonusHigherBetter(v, 0.85, 1.0, 600, 4500, 3)
		assert.GreaterOrEqual(t, b, 600)
		assert.GreaterOrEqual(t, b, prev)
		prev = b
	}
}

func TestBonusHigherBetter_NaN(t *testing.T) {
	assert.Equal(t, 0, BonusHigherBetter(math.NaN(), 0.5, 1, 10, 20, 2))
}

func TestBonusLowerBetter(t *testing.T) {
	assert.Equal(t, 0, BonusLowerBetter(1.01, 1.0, 0.5, 600, 3600, 3))
	assert.Equal(t, 600, BonusLowerBetter(1.0, 1.0, 0.5, 600, 3600, 3))
	assert.Equal(t, 3600, BonusLowerBetter(0.5, 1.0, 0.5, 600, 3600, 3))
	assert.Equal(t, 3600, BonusLowerBetter(0.1, 1.0, 0.5, 600, 3600, 3))
	assert.Equal(t, 2136, BonusLowerBetter(0.6, 1.0, 0.5, 600, 3600, 3))
}

func TestBonusLowerBetter_Misconfigured(t *testing.T) {
	assert.Equal(t, 0, BonusLowerBetter(0.1, 0.5, 0.5, 600, 3600, 3))
	assert.Equal(t, 0, BonusLowerBetter(0.1, 0.5, 0.9, 600, 3600, 3))
}
