package components

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/math"
)

// MaxPitch keeps the orbit away from the poles where LookAt degenerates.
const MaxPitch float32 = 89

/**
 * @brief An orbit camera looking at Target from Distance away. Yaw and
 * Pitch are in degrees. Change them through the setters so the view matrix
 * is rebuilt when needed.
 */
type Camera struct {
	Target      mgl32.Vec3
	Distance    float32
	MinDistance float32
	MaxDistance float32
	Yaw         float32
	Pitch       float32
	/** @brief Vertical field of view, degrees. */
	FOV  float32
	Near float32
	Far  float32

	isDirty    bool
	viewMatrix mgl32.Mat4
}

func NewCamera(target mgl32.Vec3, distance, minDistance, maxDistance, yaw, pitch, fov float32) Camera {
	c := Camera{
		Target:      target,
		MinDistance: minDistance,
		MaxDistance: maxDistance,
		FOV:         fov,
		Near:        0.1,
		Far:         1000,
	}
	c.Distance = math.Clamp(distance, minDistance, maxDistance)
	c.Yaw = wrapDegrees(yaw)
	c.Pitch = math.Clamp(pitch, -MaxPitch, MaxPitch)
	c.isDirty = true
	return c
}

func (c *Camera) SetTarget(target mgl32.Vec3) {
	c.Target = target
	c.isDirty = true
}

// Orbit adds to yaw and pitch; pitch is clamped, yaw wraps around.
func (c *Camera) Orbit(deltaYaw, deltaPitch float32) {
	c.Yaw = wrapDegrees(c.Yaw + deltaYaw)
	c.Pitch = math.Clamp(c.Pitch+deltaPitch, -MaxPitch, MaxPitch)
	c.isDirty = true
}

// Zoom moves the camera towards (negative) or away from the target.
func (c *Camera) Zoom(delta float32) {
	c.Distance = math.Clamp(c.Distance+delta, c.MinDistance, c.MaxDistance)
	c.isDirty = true
}

func (c *Camera) Position() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))
	offset := mgl32.Vec3{
		float32(stdmath.Cos(pitch) * stdmath.Sin(yaw)),
		float32(stdmath.Sin(pitch)),
		float32(stdmath.Cos(pitch) * stdmath.Cos(yaw)),
	}
	return c.Target.Add(offset.Mul(c.Distance))
}

func (c *Camera) View() mgl32.Mat4 {
	if c.isDirty {
		c.viewMatrix = mgl32.LookAtV(c.Position(), c.Target, mgl32.Vec3{0, 1, 0})
		c.isDirty = false
	}
	return c.viewMatrix
}

// Projection is Vulkan ready.
func (c *Camera) Projection(aspect float32) mgl32.Mat4 {
	return math.Perspective(c.FOV, aspect, c.Near, c.Far)
}

func wrapDegrees(d float32) float32 {
	w := float32(stdmath.Mod(float64(d), 360))
	if w < 0 {
		w += 360
	}
	return w
}
