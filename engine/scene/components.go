package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"

	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// Position is a unit's centre in window pixels, origin top-left.
type Position struct {
	X, Y float32
}

// Sprite is how a unit is drawn: a square of Size pixels.
type Sprite struct {
	Color mgl32.Vec4
	Size  float32
}

// Destination is removed once the unit arrives.
type Destination struct {
	X, Y float32
}

// Velocity holds the movement speed in pixels per second.
type Velocity struct {
	Speed float32
}

type Collider struct {
	Radius float32
	// Only solid colliders take part in separation.
	Solid bool
	// Static colliders never move; whatever overlaps them takes the full push.
	Static bool
}

// Selected tags units picked by the player.
type Selected struct{}

// Transform places a mesh in the world. A non-zero Parent makes the local
// matrix relative to the parent's world matrix.
type Transform struct {
	math.Transform
	Parent ecs.Entity

	world mgl32.Mat4
}

func NewTransform(position mgl32.Vec3, scale mgl32.Vec3) Transform {
	return Transform{
		Transform: math.NewTransformFrom(position, mgl32.QuatIdent(), scale),
		world:     mgl32.Ident4(),
	}
}

// WorldMatrix is the matrix computed by the last hierarchy pass.
func (t *Transform) WorldMatrix() mgl32.Mat4 {
	return t.world
}

type MeshRenderer struct {
	Geometry *metadata.Geometry
	// nil draws with the default texture.
	Texture *metadata.Texture
	Tint    mgl32.Vec4
}

// Spin rotates a transform about Axis, Speed in radians per second.
type Spin struct {
	Axis  mgl32.Vec3
	Speed float32
}
