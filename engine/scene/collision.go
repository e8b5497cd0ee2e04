package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/generic"
)

type body struct {
	pos    *Position
	radius float32
	static bool
}

// updateCollision separates overlapping solid circles. Each body of an
// overlapping pair moves half the overlap along the line between centres.
// When one of them is static the other one moves the whole overlap, and two
// static bodies are left alone. Coincident centres are split along the X axis.
func (s *Scene) updateCollision() {
	var bodies []body
	query := generic.NewFilter2[Position, Collider]().Query(&s.world)
	for query.Next() {
		pos, col := query.Get()
		if !col.Solid {
			continue
		}
		bodies = append(bodies, body{pos: pos, radius: col.Radius, static: col.Static})
	}

	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if a.static && b.static {
				continue
			}
			minDist := a.radius + b.radius
			delta := mgl32.Vec2{a.pos.X - b.pos.X, a.pos.Y - b.pos.Y}
			distSq := delta.Dot(delta)
			if distSq >= minDist*minDist {
				continue
			}

			var normal mgl32.Vec2
			var overlap float32
			if distSq < 1e-8 {
				normal = mgl32.Vec2{1, 0}
				overlap = minDist
			} else {
				dist := delta.Len()
				normal = delta.Mul(1 / dist)
				overlap = minDist - dist
			}
			switch {
			case a.static:
				push := normal.Mul(overlap)
				b.pos.X -= push.X()
				b.pos.Y -= push.Y()
			case b.static:
				push := normal.Mul(overlap)
				a.pos.X += push.X()
				a.pos.Y += push.Y()
			default:
				push := normal.Mul(overlap * 0.5)
				a.pos.X += push.X()
				a.pos.Y += push.Y()
				b.pos.X -= push.X()
				b.pos.Y -= push.Y()
			}
		}
	}
}
