package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
)

// Deeper chains are treated as roots; this also stops parent cycles.
const maxHierarchyDepth = 32

func (s *Scene) updateSpin(dt float32) {
	query := generic.NewFilter2[Transform, Spin]().Query(&s.world)
	for query.Next() {
		t, spin := query.Get()
		t.RotateAxis(spin.Speed*dt, spin.Axis)
	}
}

// updateHierarchy recomputes every world matrix as parent world × local.
func (s *Scene) updateHierarchy() {
	var entities []ecs.Entity
	query := generic.NewFilter1[Transform]().Query(&s.world)
	for query.Next() {
		entities = append(entities, query.Entity())
	}

	resolved := make(map[ecs.Entity]bool, len(entities))
	for _, e := range entities {
		s.resolveWorld(e, resolved, 0)
	}
}

func (s *Scene) resolveWorld(e ecs.Entity, resolved map[ecs.Entity]bool, depth int) mgl32.Mat4 {
	t := s.transforms.Get(e)
	if resolved[e] {
		return t.world
	}

	parent := mgl32.Ident4()
	if s.hasTransform(t.Parent) && depth < maxHierarchyDepth {
		parent = s.resolveWorld(t.Parent, resolved, depth+1)
	}
	t.world = t.World(parent)
	resolved[e] = true
	return t.world
}

func (s *Scene) hasTransform(e ecs.Entity) bool {
	return !e.IsZero() && s.world.Alive(e) && s.world.Has(e, ecs.ComponentID[Transform](&s.world))
}
