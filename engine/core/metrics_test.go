package core

import (
	"math"
	"testing"
)

func TestFrameMetrics(t *testing.T) {
	m := NewFrameMetrics()
	for i := 0; i < AVG_COUNT; i++ {
		m.Update(0.010)
	}
	if math.Abs(m.FrameTime()-10) > 1e-9 {
		t.Fatalf("expected 10ms average, got %f", m.FrameTime())
	}
	if m.FPS() != 0 {
		t.Fatalf("fps should not be reported before a full second, got %f", m.FPS())
	}
	for i := 0; i < 71; i++ {
		m.Update(0.010)
	}
	if m.FPS() != 101 {
		t.Fatalf("expected 101 frames in the first second, got %f", m.FPS())
	}
}

func TestIdentifier(t *testing.T) {
	a, b := NewIdentifier(), NewIdentifier()
	if a == b {
		t.Fatal("identifiers must be unique")
	}
	if !IsIdentifier(a) {
		t.Fatalf("%q should parse as an identifier", a)
	}
	if IsIdentifier(NewNamedIdentifier("quad")) {
		t.Fatal("named identifiers carry a prefix")
	}
}
