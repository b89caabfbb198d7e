package arena

import "math/rand"

// DefaultMaxAttempts bounds the rejection sampling loop when callers pass 0.
const DefaultMaxAttempts = 150

// TryPlace finds a top-left position for a new target of the given diameter by
// uniform rejection sampling. A candidate is rejected when its center is within
// diameter+padding of any existing center. The first accepted candidate wins.
//
// ok is false when the arena cannot fit a target (smaller than diameter+2 on
// either axis) or when maxAttempts candidates were all rejected. Callers skip
// the spawn in that case.
func TryPlace(rng *rand.Rand, b Bounds, diameter float64, existing []Point, padding float64, maxAttempts int) (Point, bool) {
	if b.Width < diameter+2 || b.Height < diameter+2 {
		return Point{}, false
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	minDist := diameter + padding
	spanX := b.Width - diameter
	spanY := b.Height - diameter
	for attempt := 0; attempt < maxAttempts; attempt++ {
		pos := Point{X: rng.Float64() * spanX, Y: rng.Float64() * spanY}
		center := Point{X: pos.X + diameter/2, Y: pos.Y + diameter/2}
		if overlaps(center, existing, minDist) {
			continue
		}
		return pos, true
	}
	return Point{}, false
}

func overlaps(center Point, existing []Point, minDist float64) bool {
	for _, c := range existing {
		if center.Dist(c) <= minDist {
			return true
		}
	}
	return false
}

// Centers collects the centers of the given targets.
func Centers(targets []*Target) []Point {
	out := make([]Point, 0, len(targets))
	for _, t := range targets {
		out = append(out, t.Center())
	}
	return out
}
