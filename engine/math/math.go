// Package math holds the small helpers the engine needs on top of mgl32.
package math

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Float32Equal compares with the engine wide tolerance.
func Float32Equal(a, b float32) bool {
	return mgl32.FloatEqualThreshold(a, b, 1e-5)
}

// Vec4FromRGBA converts 8-bit colour channels to normalized floats.
func Vec4FromRGBA(r, g, b, a uint8) mgl32.Vec4 {
	return mgl32.Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}
