package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/rand"
)

// Random is a seeded generator so spawns are reproducible.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

// Float32 returns a value in [low, high).
func (r *Random) Float32(low, high float32) float32 {
	return low + r.rng.Float32()*(high-low)
}

// Intn returns a value in [0, n).
func (r *Random) Intn(n int) int {
	return r.rng.Intn(n)
}

// PointIn returns a point inside the rectangle [min, max).
func (r *Random) PointIn(min, max mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{r.Float32(min.X(), max.X()), r.Float32(min.Y(), max.Y())}
}
