package scene

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"

	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/renderer/components"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

func mustPosition(t *testing.T, s *Scene, e ecs.Entity) Position {
	t.Helper()
	p, ok := s.Position(e)
	if !ok {
		t.Fatalf("entity %v has no position", e)
	}
	return p
}

var testSettings = Settings{
	UnitSpeed:  100,
	UnitRadius: 10,
	OrbitSpeed: 90,
	ZoomStep:   0.5,
	Highlight:  mgl32.Vec4{1, 1, 0, 1},
}

var red = mgl32.Vec4{1, 0, 0, 1}

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-3
}

func nearVec3(a, b mgl32.Vec3) bool {
	return near(a.X(), b.X()) && near(a.Y(), b.Y()) && near(a.Z(), b.Z())
}

func click(s *Scene, p mgl32.Vec2) {
	s.Update(0, FrameInput{Mouse: p, LeftDown: true})
	s.Update(0, FrameInput{Mouse: p, LeftWasDown: true})
}

func drag(s *Scene, from, to mgl32.Vec2) {
	s.Update(0, FrameInput{Mouse: from, LeftDown: true})
	s.Update(0, FrameInput{Mouse: to, LeftDown: true, LeftWasDown: true})
	s.Update(0, FrameInput{Mouse: to, LeftWasDown: true})
}

func TestMovementStepsTowardsDestination(t *testing.T) {
	s := New(testSettings)
	e := s.SpawnUnit(mgl32.Vec2{0, 0}, red)
	s.SetDestination(e, 300, 400)

	s.Update(1, FrameInput{})
	p := mustPosition(t, s, e)
	if !near(p.X, 60) || !near(p.Y, 80) {
		t.Fatalf("expected (60, 80) after one second, got (%f, %f)", p.X, p.Y)
	}
	if !s.HasDestination(e) {
		t.Fatal("destination removed before arrival")
	}

	for i := 0; i < 4; i++ {
		s.Update(1, FrameInput{})
	}
	p = mustPosition(t, s, e)
	if p.X != 300 || p.Y != 400 {
		t.Fatalf("unit did not snap onto the target: (%f, %f)", p.X, p.Y)
	}
	if s.HasDestination(e) {
		t.Fatal("destination must be removed on arrival")
	}
}

func TestMovementRetarget(t *testing.T) {
	s := New(testSettings)
	e := s.SpawnUnit(mgl32.Vec2{0, 0}, red)
	s.SetDestination(e, 100, 0)
	s.SetDestination(e, -100, 0)

	s.Update(0.5, FrameInput{})
	if p := mustPosition(t, s, e); !near(p.X, -50) {
		t.Fatalf("expected x = -50, got %f", p.X)
	}
}

func TestCollisionSeparation(t *testing.T) {
	tests := []struct {
		name    string
		a, b    mgl32.Vec2
		solid   bool
		staticA bool
		staticB bool
		wantA   Position
		wantB   Position
	}{
		{"overlapping", mgl32.Vec2{0, 0}, mgl32.Vec2{15, 0}, true, false, false, Position{-2.5, 0}, Position{17.5, 0}},
		{"coincident", mgl32.Vec2{50, 50}, mgl32.Vec2{50, 50}, true, false, false, Position{60, 50}, Position{40, 50}},
		{"apart", mgl32.Vec2{0, 0}, mgl32.Vec2{30, 0}, true, false, false, Position{0, 0}, Position{30, 0}},
		{"not solid", mgl32.Vec2{0, 0}, mgl32.Vec2{15, 0}, false, false, false, Position{0, 0}, Position{15, 0}},
		{"static first", mgl32.Vec2{100, 0}, mgl32.Vec2{85, 0}, true, true, false, Position{100, 0}, Position{80, 0}},
		{"static second", mgl32.Vec2{85, 0}, mgl32.Vec2{100, 0}, true, false, true, Position{80, 0}, Position{100, 0}},
		{"static coincident", mgl32.Vec2{50, 50}, mgl32.Vec2{50, 50}, true, true, false, Position{50, 50}, Position{30, 50}},
		{"both static", mgl32.Vec2{0, 0}, mgl32.Vec2{15, 0}, true, true, true, Position{0, 0}, Position{15, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testSettings)
			a := s.SpawnUnit(tt.a, red)
			b := s.SpawnUnit(tt.b, red)
			colliders := generic.NewMap1[Collider](s.World())
			colliders.Get(a).Solid = tt.solid
			colliders.Get(b).Solid = tt.solid
			colliders.Get(a).Static = tt.staticA
			colliders.Get(b).Static = tt.staticB

			s.Update(0, FrameInput{})
			pa, pb := mustPosition(t, s, a), mustPosition(t, s, b)
			if !near(pa.X, tt.wantA.X) || !near(pa.Y, tt.wantA.Y) {
				t.Errorf("a = %+v, want %+v", pa, tt.wantA)
			}
			if !near(pb.X, tt.wantB.X) || !near(pb.Y, tt.wantB.Y) {
				t.Errorf("b = %+v, want %+v", pb, tt.wantB)
			}
		})
	}
}

func TestObstacleBlocksUnits(t *testing.T) {
	s := New(testSettings)
	wall := s.SpawnObstacle(mgl32.Vec2{100, 0}, 10, red)
	walker := s.SpawnUnit(mgl32.Vec2{85, 0}, red)

	s.Update(0, FrameInput{})
	if p := mustPosition(t, s, wall); p != (Position{100, 0}) {
		t.Fatalf("obstacle moved to %+v", p)
	}
	if p := mustPosition(t, s, walker); !near(p.X, 80) || !near(p.Y, 0) {
		t.Fatalf("walker = %+v, want {80 0}", p)
	}

	// dragging over the obstacle only picks up the unit
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{60, -20}, LeftDown: true})
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{120, 20}, LeftWasDown: true})
	if s.IsSelected(wall) || !s.IsSelected(walker) {
		t.Fatalf("selection: wall %v walker %v", s.IsSelected(wall), s.IsSelected(walker))
	}
}

func TestPositionOfMissingEntity(t *testing.T) {
	s := New(testSettings)
	mesh := s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{}, ecs.Entity{})
	if _, ok := s.Position(mesh); ok {
		t.Fatal("a mesh has no 2D position")
	}
	if _, ok := s.Position(ecs.Entity{}); ok {
		t.Fatal("the zero entity has no position")
	}
	unit := s.SpawnUnit(mgl32.Vec2{1, 2}, red)
	s.World().RemoveEntity(unit)
	if _, ok := s.Position(unit); ok {
		t.Fatal("a removed unit has no position")
	}
	if s.Transform(unit) != nil {
		t.Fatal("a removed unit has no transform")
	}
}

func TestSelection(t *testing.T) {
	s := New(testSettings)
	u1 := s.SpawnUnit(mgl32.Vec2{100, 100}, red)
	u2 := s.SpawnUnit(mgl32.Vec2{200, 200}, red)
	u3 := s.SpawnUnit(mgl32.Vec2{300, 100}, red)

	click(s, mgl32.Vec2{102, 98})
	if !s.IsSelected(u1) || s.SelectedCount() != 1 {
		t.Fatalf("click should select exactly u1, selected %d", s.SelectedCount())
	}

	drag(s, mgl32.Vec2{90, 90}, mgl32.Vec2{210, 210})
	if !s.IsSelected(u1) || !s.IsSelected(u2) || s.IsSelected(u3) {
		t.Fatal("drag should select u1 and u2 only")
	}

	click(s, mgl32.Vec2{300, 100})
	if s.IsSelected(u1) || s.IsSelected(u2) || !s.IsSelected(u3) {
		t.Fatal("a new click must replace the selection")
	}

	click(s, mgl32.Vec2{500, 500})
	if s.SelectedCount() != 0 {
		t.Fatal("clicking empty ground clears the selection")
	}
}

func TestClickPicksTopmost(t *testing.T) {
	s := New(testSettings)
	bottom := s.SpawnUnit(mgl32.Vec2{100, 100}, red)
	top := s.SpawnUnit(mgl32.Vec2{105, 100}, red)

	// no Update: the two units still overlap
	s.applySelection(rect{x: 103, y: 100})
	if !s.IsSelected(top) || s.IsSelected(bottom) {
		t.Fatal("the unit drawn last must win a click")
	}
}

func TestRightClickCommandsSelected(t *testing.T) {
	s := New(testSettings)
	u1 := s.SpawnUnit(mgl32.Vec2{100, 100}, red)
	u2 := s.SpawnUnit(mgl32.Vec2{300, 300}, red)

	click(s, mgl32.Vec2{100, 100})
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{500, 100}, RightDown: true})

	if !s.HasDestination(u1) {
		t.Fatal("selected unit got no destination")
	}
	if s.HasDestination(u2) {
		t.Fatal("unselected unit got a destination")
	}

	// holding the button does not re-issue; a second click retargets
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{600, 100}, RightDown: true, RightWasDown: true})
	if d := s.destinations.Get(u1); d.X != 500 {
		t.Fatalf("held button re-issued the command: %+v", d)
	}
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{600, 100}, RightWasDown: true})
	s.Update(0, FrameInput{Mouse: mgl32.Vec2{700, 100}, RightDown: true})

	s.Update(100, FrameInput{RightDown: true, RightWasDown: true})
	if p := mustPosition(t, s, u1); p.X != 700 || p.Y != 100 {
		t.Fatalf("unit should end on the last command, got %+v", p)
	}
}

func TestHierarchy(t *testing.T) {
	s := New(testSettings)
	parent := s.SpawnMesh(NewTransform(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{1, 1, 1}), MeshRenderer{}, ecs.Entity{})
	child := s.SpawnMesh(NewTransform(mgl32.Vec3{0, 2, 0}, mgl32.Vec3{1, 1, 1}), MeshRenderer{}, parent)

	s.Update(0, FrameInput{})
	got := s.Transform(child).WorldMatrix().Col(3).Vec3()
	if !nearVec3(got, mgl32.Vec3{1, 2, 0}) {
		t.Fatalf("child world translation = %v", got)
	}

	s.Transform(parent).SetPosition(mgl32.Vec3{5, 0, 0})
	s.Update(0, FrameInput{})
	got = s.Transform(child).WorldMatrix().Col(3).Vec3()
	if !nearVec3(got, mgl32.Vec3{5, 2, 0}) {
		t.Fatalf("child did not follow its parent: %v", got)
	}

	s.World().RemoveEntity(parent)
	s.Update(0, FrameInput{})
	got = s.Transform(child).WorldMatrix().Col(3).Vec3()
	if !nearVec3(got, mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("orphan should become a root: %v", got)
	}
}

func TestSpin(t *testing.T) {
	s := New(testSettings)
	e := s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{}, ecs.Entity{})
	s.AddSpin(e, mgl32.Vec3{0, 1, 0}, stdmath.Pi/2)

	s.Update(1, FrameInput{})
	got := s.Transform(e).Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	if !nearVec3(got, mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("+X rotated a quarter turn about +Y should be -Z, got %v", got)
	}
}

func TestCameraControls(t *testing.T) {
	s := New(testSettings)
	if s.Camera() != nil {
		t.Fatal("no camera before SetCamera")
	}
	s.SetCamera(components.NewCamera(mgl32.Vec3{}, 10, 2, 30, 0, 0, 45))

	s.Update(2, FrameInput{OrbitUp: true, OrbitRight: true})
	cam := s.Camera()
	if cam.Pitch != components.MaxPitch {
		t.Fatalf("pitch must clamp at %f, got %f", components.MaxPitch, cam.Pitch)
	}
	if !near(cam.Yaw, 180) {
		t.Fatalf("yaw = %f, want 180", cam.Yaw)
	}

	s.Update(0, FrameInput{Scroll: 2})
	if !near(cam.Distance, 9) {
		t.Fatalf("distance = %f, want 9", cam.Distance)
	}
	s.Update(0, FrameInput{Scroll: -100})
	if cam.Distance != 30 {
		t.Fatalf("distance must clamp at 30, got %f", cam.Distance)
	}
}

func TestBuildPacket(t *testing.T) {
	s := New(testSettings)
	s.SetCamera(components.NewCamera(mgl32.Vec3{}, 10, 2, 30, 0, 30, 45))
	cube := &metadata.Geometry{Name: "cube"}
	quad := &metadata.Geometry{Name: "quad"}
	s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{Geometry: cube, Tint: red}, ecs.Entity{})
	s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{}, ecs.Entity{})

	u1 := s.SpawnUnit(mgl32.Vec2{100, 100}, red)
	s.SpawnUnit(mgl32.Vec2{300, 300}, red)
	s.Select(u1)
	s.Update(0, FrameInput{})

	packet := &metadata.RenderPacket{}
	packet.Reset(0.016)
	s.BuildPacket(packet, 800, 600, quad)

	if len(packet.Views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(packet.Views))
	}
	world, sprites := packet.Views[0], packet.Views[1]
	if world.Name != WorldViewName || len(world.Geometries) != 1 {
		t.Fatalf("world view %q has %d draws", world.Name, len(world.Geometries))
	}
	if sprites.Name != SpriteViewName || len(sprites.Geometries) != 3 {
		t.Fatalf("sprite view %q has %d draws", sprites.Name, len(sprites.Geometries))
	}
	var highlights []metadata.GeometryRenderData
	for _, g := range sprites.Geometries {
		if g.Tint == testSettings.Highlight {
			highlights = append(highlights, g)
		}
	}
	if len(highlights) != 1 {
		t.Fatalf("expected one highlight, got %d", len(highlights))
	}
	highlight := highlights[0]
	if !near(highlight.Model.At(0, 0), 24) {
		t.Fatalf("highlight width = %f, want 24", highlight.Model.At(0, 0))
	}

	// the highlight is centred on the selected unit's pixel position
	clip := sprites.ProjectionMatrix.Mul4(highlight.Model).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	wantX := float32(100)/800*2 - 1
	if !near(clip.X(), wantX) {
		t.Fatalf("clip x = %f, want %f", clip.X(), wantX)
	}
}

func TestBuildPacketSkipsLoadingTextures(t *testing.T) {
	s := New(testSettings)
	s.SetCamera(components.NewCamera(mgl32.Vec3{}, 10, 2, 30, 0, 30, 45))
	cube := &metadata.Geometry{Name: "cube"}
	loading := &metadata.Texture{Name: "loading", Generation: metadata.InvalidGeneration}
	ready := &metadata.Texture{Name: "ready", Generation: 0}
	s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{Geometry: cube, Texture: loading}, ecs.Entity{})
	s.SpawnMesh(NewTransform(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}), MeshRenderer{Geometry: cube, Texture: ready}, ecs.Entity{})
	s.Update(0, FrameInput{})

	packet := &metadata.RenderPacket{}
	packet.Reset(0.016)
	s.BuildPacket(packet, 800, 600, &metadata.Geometry{Name: "quad"})

	world := packet.Views[0]
	if len(world.Geometries) != 2 {
		t.Fatalf("expected 2 mesh draws, got %d", len(world.Geometries))
	}
	var nilTextures, readyTextures int
	for _, g := range world.Geometries {
		switch g.Texture {
		case nil:
			nilTextures++
		case ready:
			readyTextures++
		}
	}
	if nilTextures != 1 || readyTextures != 1 {
		t.Fatalf("expected one default and one ready texture, got %d and %d", nilTextures, readyTextures)
	}
}

func TestSpawnUnitsIsDeterministic(t *testing.T) {
	palette := []mgl32.Vec4{red, {0, 1, 0, 1}}
	spawn := func() []Position {
		s := New(testSettings)
		es := s.SpawnUnits(5, math.NewRandom(7), palette, mgl32.Vec2{0, 0}, mgl32.Vec2{640, 480})
		out := make([]Position, len(es))
		for i, e := range es {
			out[i] = mustPosition(t, s, e)
		}
		return out
	}
	a, b := spawn(), spawn()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("spawn %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].X < 0 || a[i].X >= 640 || a[i].Y < 0 || a[i].Y >= 480 {
			t.Fatalf("spawn %d out of bounds: %+v", i, a[i])
		}
	}
}
