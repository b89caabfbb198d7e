package scoring

import "math"

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Ramp maps value linearly from good (0) to amazing (1), clamped to [0,1].
// When amazing <= good it is a step at good.
func Ramp(value, good, amazing float64) float64 {
	if amazing <= good {
		if value >= good {
			return 1
		}
		return 0
	}
	return clamp01((value - good) / (amazing - good))
}

// PowEase returns clamp01(t)^power.
func PowEase(t, power float64) float64 {
	return math.Pow(clamp01(t), power)
}

// BonusHigherBetter is 0 below ok, jumps to at least minBonus at ok and eases
// towards maxBonus as value approaches good. value == ok pays minBonus, not 0.
func BonusHigherBetter(value, ok, good, minBonus, maxBonus, power float64) int {
	if math.IsNaN(value) || value < ok {
		return 0
	}
	return floorThenRamp(Ramp(value, ok, good), minBonus, maxBonus, power)
}

// BonusLowerBetter mirrors BonusHigherBetter for metrics where smaller wins;
// value == goodMax pays minBonus.
// A goodMax that is not above amazingMax yields 0.
func BonusLowerBetter(value, goodMax, amazingMax, minBonus, maxBonus, power float64) int {
	if goodMax <= amazingMax {
		return 0
	}
	if math.IsNaN(value) || value > goodMax {
		return 0
	}
	return floorThenRamp(clamp01((goodMax-value)/(goodMax-amazingMax)), minBonus, maxBonus, power)
}

// floorThenRamp is only reached once the threshold is met, so t == 0 still
// earns minBonus.
func floorThenRamp(t, minBonus, maxBonus, power float64) int {
	bonus := int(math.Round(minBonus + (maxBonus-minBonus)*PowEase(t, power)))
	if floor := int(math.Round(minBonus)); bonus < floor {
		bonus = floor
	}
	return bonus
}
