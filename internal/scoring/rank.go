package scoring

// Rank grades a final score against the mode ceiling.
func Rank(finalScore, baseMax int) string {
	if baseMax <= 0 {
		return "D"
	}
	r := float64(finalScore) / float64(baseMax)
	switch {
	case r >= 1.25:
		return "S+"
	case r >= 1.10:
		return "S"
	case r >= 0.95:
		return "A"
	case r >= 0.80:
		return "B"
	case r >= 0.60:
		return "C"
	}
	return "D"
}

// Coins converts a final score into currency.
func Coins(finalScore int) int {
	if finalScore <= 0 {
		return 0
	}
	return finalScore / 1000
}
