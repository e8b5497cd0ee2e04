// Package scene is the game layer: an arche world holding 2D units and 3D
// meshes, the per-frame systems that move them and the packet builder that
// hands them to the renderer.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"

	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/renderer/components"
)

type Settings struct {
	// Unit speed in pixels per second.
	UnitSpeed  float32
	UnitRadius float32
	// Degrees per second while an orbit key is held.
	OrbitSpeed float32
	// Distance per wheel notch.
	ZoomStep float32
	// Drawn behind selected units.
	Highlight mgl32.Vec4
}

type Scene struct {
	settings Settings
	world    ecs.World

	units        generic.Map4[Position, Sprite, Velocity, Collider]
	obstacles    generic.Map3[Position, Sprite, Collider]
	meshes       generic.Map2[Transform, MeshRenderer]
	destinations generic.Map1[Destination]
	selected     generic.Map1[Selected]
	spins        generic.Map1[Spin]
	cameras      generic.Map1[components.Camera]
	transforms   generic.Map1[Transform]
	positions    generic.Map1[Position]

	destinationID ecs.ID
	selectedID    ecs.ID
	positionID    ecs.ID
	transformID   ecs.ID

	camera    ecs.Entity
	selection selection
}

func New(settings Settings) *Scene {
	s := &Scene{
		settings: settings,
		world:    ecs.NewWorld(),
	}
	s.units = generic.NewMap4[Position, Sprite, Velocity, Collider](&s.world)
	s.obstacles = generic.NewMap3[Position, Sprite, Collider](&s.world)
	s.meshes = generic.NewMap2[Transform, MeshRenderer](&s.world)
	s.destinations = generic.NewMap1[Destination](&s.world)
	s.selected = generic.NewMap1[Selected](&s.world)
	s.spins = generic.NewMap1[Spin](&s.world)
	s.cameras = generic.NewMap1[components.Camera](&s.world)
	s.transforms = generic.NewMap1[Transform](&s.world)
	s.positions = generic.NewMap1[Position](&s.world)
	s.destinationID = ecs.ComponentID[Destination](&s.world)
	s.selectedID = ecs.ComponentID[Selected](&s.world)
	s.positionID = ecs.ComponentID[Position](&s.world)
	s.transformID = ecs.ComponentID[Transform](&s.world)
	return s
}

// World exposes the underlying arche world, e.g. for custom queries.
func (s *Scene) World() *ecs.World {
	return &s.world
}

// SpawnUnit adds a solid unit centred at pos.
func (s *Scene) SpawnUnit(pos mgl32.Vec2, color mgl32.Vec4) ecs.Entity {
	return s.units.NewWith(
		&Position{X: pos.X(), Y: pos.Y()},
		&Sprite{Color: color, Size: s.settings.UnitRadius * 2},
		&Velocity{Speed: s.settings.UnitSpeed},
		&Collider{Radius: s.settings.UnitRadius, Solid: true},
	)
}

// SpawnObstacle adds an immovable circle of the given radius. Obstacles
// block units but cannot be selected or commanded.
func (s *Scene) SpawnObstacle(pos mgl32.Vec2, radius float32, color mgl32.Vec4) ecs.Entity {
	return s.obstacles.NewWith(
		&Position{X: pos.X(), Y: pos.Y()},
		&Sprite{Color: color, Size: radius * 2},
		&Collider{Radius: radius, Solid: true, Static: true},
	)
}

// SpawnUnits scatters n units inside [min, max) with colours drawn from palette.
func (s *Scene) SpawnUnits(n int, rng *math.Random, palette []mgl32.Vec4, min, max mgl32.Vec2) []ecs.Entity {
	out := make([]ecs.Entity, 0, n)
	for i := 0; i < n; i++ {
		color := mgl32.Vec4{1, 1, 1, 1}
		if len(palette) > 0 {
			color = palette[rng.Intn(len(palette))]
		}
		out = append(out, s.SpawnUnit(rng.PointIn(min, max), color))
	}
	return out
}

// SpawnMesh adds a drawable transform. Pass the zero entity for a root.
func (s *Scene) SpawnMesh(transform Transform, mesh MeshRenderer, parent ecs.Entity) ecs.Entity {
	transform.Parent = parent
	return s.meshes.NewWith(&transform, &mesh)
}

func (s *Scene) AddSpin(entity ecs.Entity, axis mgl32.Vec3, speed float32) {
	s.spins.Assign(entity, &Spin{Axis: axis, Speed: speed})
}

// SetCamera creates the camera entity, or replaces its component.
func (s *Scene) SetCamera(camera components.Camera) ecs.Entity {
	if !s.camera.IsZero() && s.world.Alive(s.camera) {
		*s.cameras.Get(s.camera) = camera
		return s.camera
	}
	s.camera = s.cameras.NewWith(&camera)
	return s.camera
}

// Camera is nil until SetCamera is called.
func (s *Scene) Camera() *components.Camera {
	if s.camera.IsZero() || !s.world.Alive(s.camera) {
		return nil
	}
	return s.cameras.Get(s.camera)
}

// SetDestination orders a unit to move to (x, y).
func (s *Scene) SetDestination(entity ecs.Entity, x, y float32) {
	if s.world.Has(entity, s.destinationID) {
		*s.destinations.Get(entity) = Destination{X: x, Y: y}
		return
	}
	s.destinations.Assign(entity, &Destination{X: x, Y: y})
}

func (s *Scene) HasDestination(entity ecs.Entity) bool {
	return s.world.Has(entity, s.destinationID)
}

func (s *Scene) IsSelected(entity ecs.Entity) bool {
	return s.world.Has(entity, s.selectedID)
}

// Position reports false when the entity is dead or has no Position.
func (s *Scene) Position(entity ecs.Entity) (Position, bool) {
	if !s.hasComponent(entity, s.positionID) {
		return Position{}, false
	}
	return *s.positions.Get(entity), true
}

// Transform is nil when the entity is dead or has no Transform.
func (s *Scene) Transform(entity ecs.Entity) *Transform {
	if !s.hasComponent(entity, s.transformID) {
		return nil
	}
	return s.transforms.Get(entity)
}

func (s *Scene) hasComponent(entity ecs.Entity, id ecs.ID) bool {
	return !entity.IsZero() && s.world.Alive(entity) && s.world.Has(entity, id)
}

// Update runs the systems in order: input driven ones first, then movement,
// separation and finally the transform hierarchy.
func (s *Scene) Update(dt float32, input FrameInput) {
	s.updateSelection(input)
	s.updateCamera(dt, input)
	s.updateMovement(dt)
	s.updateCollision()
	s.updateSpin(dt)
	s.updateHierarchy()
}
