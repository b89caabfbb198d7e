package arena

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryPlace_StaysInsideArena(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := Bounds{Width: 400, Height: 300}
	for i := 0; i < 200; i++ {
		pos, ok := TryPlace(rng, b, 50, nil, 0, 0)
		require.True(t, ok)
		assert.GreaterOrEqual(t, pos.X, 0.0)
		assert.GreaterOrEqual(t, pos.Y, 0.0)
		assert.LessOrEqual(t, pos.X, b.Width-50)
		assert.LessOrEqual(t, pos.Y, b.Height-50)
	}
}

func TestTryPlace_RespectsSeparation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b := Bounds{Width: 800, Height: 600}
	const diameter, padding = 60.0, 10.0

	var centers []Point
	for i := 0; i < 40; i++ {
		pos, ok := TryPlace(rng, b, diameter, centers, padding, 150)
		if !ok {
			continue
		}
		c := Point{X: pos.X + diameter/2, Y: pos.Y + diameter/2}
		for _, other := range centers {
			assert.Greater(t, c.Dist(other), diameter+padding)
		}
		centers = append(centers, c)
	}
	assert.NotEmpty(t, centers)
}

func TestTryPlace_ArenaTooSmall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, ok := TryPlace(rng, Bounds{Width: 51, Height: 500}, 50, nil, 0, 10)
	assert.False(t, ok)
	_, ok = TryPlace(rng, Bounds{Width: 500, Height: 50}, 50, nil, 0, 10)
	assert.False(t, ok)
}

func TestTryPlace_Exhaustion(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	b := Bounds{Width: 100, Height: 100}
	// A single center in the middle blocks every candidate in a 100x100 arena.
	blocker := []Point{{X: 50, Y: 50}}
	_, ok := TryPlace(rng, b, 60, blocker, 20, 150)
	assert.False(t, ok)
}

func TestTarget_ContainsAndOffset(t *testing.T) {
	tg := &Target{X: 100, Y: 100, Diameter: 40}
	assert.Equal(t, Point{X: 120, Y: 120}, tg.Center())
	assert.True(t, tg.Contains(Point{X: 120, Y: 140}))
	assert.False(t, tg.Contains(Point{X: 141, Y: 120}))
	assert.Equal(t, Point{X: -5, Y: 3}, tg.Offset(Point{X: 115, Y: 123}))
}

func TestCenters(t *testing.T) {
	ts := []*Target{{X: 0, Y: 0, Diameter: 10}, {X: 10, Y: 20, Diameter: 10}}
	assert.Equal(t, []Point{{X: 5, Y: 5}, {X: 15, Y: 25}}, Centers(ts))
}
