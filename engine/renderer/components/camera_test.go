package components

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

func TestCameraPosition(t *testing.T) {
	c := NewCamera(mgl32.Vec3{1, 0, 0}, 5, 1, 10, 0, 0, 45)
	p := c.Position()
	if !near(p.X(), 1) || !near(p.Y(), 0) || !near(p.Z(), 5) {
		t.Fatalf("yaw 0 pitch 0 should sit on +Z, got %v", p)
	}

	c.Orbit(90, 0)
	p = c.Position()
	if !near(p.X(), 6) || !near(p.Z(), 0) {
		t.Fatalf("yaw 90 should sit on +X, got %v", p)
	}
}

func TestCameraLimits(t *testing.T) {
	c := NewCamera(mgl32.Vec3{}, 50, 2, 30, -30, 120, 45)
	if c.Distance != 30 {
		t.Fatalf("distance should clamp to 30, got %f", c.Distance)
	}
	if c.Pitch != MaxPitch {
		t.Fatalf("pitch should clamp to %f, got %f", MaxPitch, c.Pitch)
	}
	if c.Yaw != 330 {
		t.Fatalf("yaw should wrap to 330, got %f", c.Yaw)
	}

	c.Orbit(0, -500)
	if c.Pitch != -MaxPitch {
		t.Fatalf("pitch should clamp to %f, got %f", -MaxPitch, c.Pitch)
	}
	c.Zoom(-100)
	if c.Distance != 2 {
		t.Fatalf("zoom should clamp at min distance, got %f", c.Distance)
	}
}

func TestCameraViewLooksAtTarget(t *testing.T) {
	c := NewCamera(mgl32.Vec3{0, 1, 0}, 4, 1, 10, 30, 20, 45)
	target := c.View().Mul4x1(mgl32.Vec4{0, 1, 0, 1})
	if !near(target.X(), 0) || !near(target.Y(), 0) || !near(target.Z(), -4) {
		t.Fatalf("target should be straight ahead at distance 4, got %v", target)
	}

	before := c.View()
	c.SetTarget(mgl32.Vec3{0, 2, 0})
	if c.View() == before {
		t.Fatal("moving the target must rebuild the view")
	}
}
