// Arena geometry shared by the placement and simulation code
package arena

import "math"

// Point is a position in arena pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Len returns the vector length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Bounds is the playable arena size.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Target is a circular target. X/Y hold the top-left corner of its bounding box.
type Target struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Diameter float64 `json:"diameter"`
	// SpawnedAt is the run clock (seconds) at spawn time.
	SpawnedAt float64 `json:"spawned_at"`
}

// Radius returns half the diameter.
func (t *Target) Radius() float64 { return t.Diameter / 2 }

// Center returns the target center.
func (t *Target) Center() Point {
	return Point{X: t.X + t.Diameter/2, Y: t.Y + t.Diameter/2}
}

// Contains reports whether p lies inside the circular hit region.
func (t *Target) Contains(p Point) bool {
	return t.Center().Dist(p) <= t.Radius()
}

// Offset returns p relative to the target center.
func (t *Target) Offset(p Point) Point {
	return p.Sub(t.Center())
}
