package math

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-4
}

func near4(a, b mgl32.Vec4) bool {
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Clamp int high = %d", got)
	}
	if got := Clamp(-1.5, -1.0, 1.0); got != -1.0 {
		t.Errorf("Clamp float low = %f", got)
	}
	if got := Clamp[float32](0.25, 0, 1); got != 0.25 {
		t.Errorf("Clamp inside = %f", got)
	}
}

func TestTransformLocal(t *testing.T) {
	tr := NewTransform()
	tr.SetPosition(mgl32.Vec3{1, 2, 3})
	tr.SetScale(mgl32.Vec3{2, 2, 2})

	p := tr.Local().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want := mgl32.Vec4{3, 2, 3, 1}
	if !near4(p, want) {
		t.Fatalf("expected %v, got %v", want, p)
	}

	tr.RotateAxis(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	p = tr.Local().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	want = mgl32.Vec4{1, 2, 1, 1}
	if !near4(p, want) {
		t.Fatalf("expected %v after rotation, got %v", want, p)
	}
}

func TestTransformWorld(t *testing.T) {
	parent := NewTransform()
	parent.SetPosition(mgl32.Vec3{10, 0, 0})
	child := NewTransform()
	child.SetPosition(mgl32.Vec3{0, 1, 0})

	world := child.World(parent.Local())
	origin := world.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near4(origin, mgl32.Vec4{10, 1, 0, 1}) {
		t.Fatalf("child origin should be offset by the parent, got %v", origin)
	}
}

func TestOrtho2DCorners(t *testing.T) {
	proj := Ortho2D(800, 600)
	topLeft := proj.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	bottomRight := proj.Mul4x1(mgl32.Vec4{800, 600, 0, 1})
	if !near(topLeft.X(), -1) || !near(topLeft.Y(), -1) {
		t.Fatalf("top-left pixel should map to (-1,-1), got %v", topLeft)
	}
	if !near(bottomRight.X(), 1) || !near(bottomRight.Y(), 1) {
		t.Fatalf("bottom-right pixel should map to (1,1), got %v", bottomRight)
	}
	if !near(topLeft.Z(), 0) {
		t.Fatalf("sprites should sit on depth 0, got %f", topLeft.Z())
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(45, 16.0/9.0, 0.1, 100)
	nearP := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	if !near(nearP.Z()/nearP.W(), 0) {
		t.Fatalf("near plane should map to depth 0, got %f", nearP.Z()/nearP.W())
	}
	if !near(far.Z()/far.W(), 1) {
		t.Fatalf("far plane should map to depth 1, got %f", far.Z()/far.W())
	}
	if Aspect(100, 0) != 1 {
		t.Fatal("zero height aspect should fall back to 1")
	}
}

func TestRandomIsSeeded(t *testing.T) {
	a, b := NewRandom(7), NewRandom(7)
	for i := 0; i < 10; i++ {
		va, vb := a.Float32(-5, 5), b.Float32(-5, 5)
		if va != vb {
			t.Fatal("same seed must produce the same sequence")
		}
		if va < -5 || va >= 5 {
			t.Fatalf("value %f out of range", va)
		}
	}
	p := a.PointIn(mgl32.Vec2{0, 0}, mgl32.Vec2{10, 20})
	if p.X() < 0 || p.X() >= 10 || p.Y() < 0 || p.Y() >= 20 {
		t.Fatalf("point %v out of rectangle", p)
	}
}
