package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
)

// updateMovement steps every unit with a Destination towards it. A unit
// that would reach or pass the target this frame snaps onto it and loses
// the Destination.
func (s *Scene) updateMovement(dt float32) {
	var arrived []ecs.Entity

	query := generic.NewFilter3[Position, Velocity, Destination]().Query(&s.world)
	for query.Next() {
		pos, vel, dest := query.Get()
		delta := mgl32.Vec2{dest.X - pos.X, dest.Y - pos.Y}
		dist := delta.Len()
		step := vel.Speed * dt

		if dist <= step {
			pos.X, pos.Y = dest.X, dest.Y
			arrived = append(arrived, query.Entity())
			continue
		}
		move := delta.Mul(step / dist)
		pos.X += move.X()
		pos.Y += move.Y()
	}

	for _, e := range arrived {
		s.destinations.Remove(e)
	}
}
