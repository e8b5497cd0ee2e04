package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/generic"

	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

const (
	WorldViewName  = "world"
	SpriteViewName = "sprites"

	// Extra pixels the highlight extends around a selected unit.
	highlightBorder = 4
)

// selection rectangle fill
var dragTint = mgl32.Vec4{1, 1, 1, 0.15}

// BuildPacket appends the world view, drawn with the orbit camera, and the
// sprite view, drawn in window pixels with sprite as the unit quad.
func (s *Scene) BuildPacket(packet *metadata.RenderPacket, width, height uint32, sprite *metadata.Geometry) {
	s.buildWorldView(packet, width, height)
	s.buildSpriteView(packet, width, height, sprite)
}

func (s *Scene) buildWorldView(packet *metadata.RenderPacket, width, height uint32) {
	cam := s.Camera()
	if cam == nil {
		return
	}
	view := packet.AddView(WorldViewName, cam.Projection(math.Aspect(width, height)), cam.View())

	query := generic.NewFilter2[Transform, MeshRenderer]().Query(&s.world)
	for query.Next() {
		t, mesh := query.Get()
		if mesh.Geometry == nil {
			continue
		}
		texture := mesh.Texture
		if texture != nil && texture.Generation == metadata.InvalidGeneration {
			// still loading
			texture = nil
		}
		view.Add(t.WorldMatrix(), mesh.Geometry, texture, mesh.Tint)
	}
}

func (s *Scene) buildSpriteView(packet *metadata.RenderPacket, width, height uint32, quad *metadata.Geometry) {
	if quad == nil {
		return
	}
	view := packet.AddView(SpriteViewName, math.Ortho2D(float32(width), float32(height)), mgl32.Ident4())

	query := generic.NewFilter2[Position, Sprite]().Query(&s.world)
	for query.Next() {
		pos, sprite := query.Get()
		if s.world.Has(query.Entity(), s.selectedID) {
			size := sprite.Size + highlightBorder
			view.Add(spriteModel(pos.X, pos.Y, size, size), quad, nil, s.settings.Highlight)
		}
		view.Add(spriteModel(pos.X, pos.Y, sprite.Size, sprite.Size), quad, nil, sprite.Color)
	}

	if x, y, w, h, ok := s.SelectionRect(); ok && (w > 0 || h > 0) {
		view.Add(spriteModel(x+w*0.5, y+h*0.5, w, h), quad, nil, dragTint)
	}
}

// spriteModel scales the unit quad to w×h pixels centred on (x, y).
func spriteModel(x, y, w, h float32) mgl32.Mat4 {
	return mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(w, h, 1))
}
