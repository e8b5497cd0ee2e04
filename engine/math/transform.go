package math

import "github.com/go-gl/mathgl/mgl32"

// Transform is a position, rotation and scale with a lazily rebuilt local matrix.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	local   mgl32.Mat4
	isDirty bool
}

func NewTransform() Transform {
	return NewTransformFrom(mgl32.Vec3{}, mgl32.QuatIdent(), mgl32.Vec3{1, 1, 1})
}

func NewTransformFrom(position mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: rotation,
		Scale:    scale,
		local:    mgl32.Ident4(),
		isDirty:  true,
	}
}

func (t *Transform) SetPosition(position mgl32.Vec3) {
	t.Position = position
	t.isDirty = true
}

func (t *Transform) Translate(translation mgl32.Vec3) {
	t.Position = t.Position.Add(translation)
	t.isDirty = true
}

func (t *Transform) SetRotation(rotation mgl32.Quat) {
	t.Rotation = rotation
	t.isDirty = true
}

// Rotate applies rotation after the current one.
func (t *Transform) Rotate(rotation mgl32.Quat) {
	t.Rotation = rotation.Mul(t.Rotation).Normalize()
	t.isDirty = true
}

// RotateAxis rotates by angle radians about axis.
func (t *Transform) RotateAxis(angle float32, axis mgl32.Vec3) {
	if axis.Len() == 0 {
		return
	}
	t.Rotate(mgl32.QuatRotate(angle, axis.Normalize()))
}

func (t *Transform) SetScale(scale mgl32.Vec3) {
	t.Scale = scale
	t.isDirty = true
}

// Local returns translation × rotation × scale.
func (t *Transform) Local() mgl32.Mat4 {
	if t.isDirty {
		tr := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
		s := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
		t.local = tr.Mul4(t.Rotation.Mat4()).Mul4(s)
		t.isDirty = false
	}
	return t.local
}

// World composes the local matrix under a parent's world matrix.
func (t *Transform) World(parent mgl32.Mat4) mgl32.Mat4 {
	return parent.Mul4(t.Local())
}
