package systems

import (
	"errors"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/assets/loaders"
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/platform"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/headless"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

func newHeadlessManager(t *testing.T) (*SystemManager, *headless.Backend) {
	t.Helper()
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendHeadless
	sm, err := NewSystemManager(cfg, platform.NewHeadless(0), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := sm.Initialize(320, 240); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sm.Shutdown() })
	return sm, sm.Backend().(*headless.Backend)
}

func TestNewBackend(t *testing.T) {
	if _, err := NewBackend("headless", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := NewBackend("Vulkan", platform.NewHeadless(1)); err == nil {
		t.Fatal("headless window cannot provide a vulkan surface")
	}
	if _, err := NewBackend("opengl", nil); !errors.Is(err, core.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestManagerCreatesBuiltins(t *testing.T) {
	sm, b := newHeadlessManager(t)

	stats := b.Stats()
	if stats.Geometries != 3 {
		t.Fatalf("expected 3 builtin geometries, got %d", stats.Geometries)
	}
	if stats.Textures != 2 {
		t.Fatalf("expected 2 builtin textures, got %d", stats.Textures)
	}

	cube := sm.GeometrySystem.GetCube()
	if cube == nil || cube.IndexCount != 36 {
		t.Fatalf("unexpected cube %+v", cube)
	}
	if cube.Generation != 0 {
		t.Fatalf("first geometry upload must be generation 0, got %d", cube.Generation)
	}
	quad := sm.GeometrySystem.GetQuad()
	if quad == nil || quad.VertexCount != 4 {
		t.Fatalf("unexpected quad %+v", quad)
	}
	if sm.GeometrySystem.GetDefault() == nil {
		t.Fatal("default geometry missing")
	}

	checker := sm.TextureSystem.GetChecker()
	if checker.Width != 256 || checker.Height != 256 {
		t.Fatalf("checker is %dx%d, want 256x256", checker.Width, checker.Height)
	}
	if checker.Generation != 0 {
		t.Fatalf("first upload must be generation 0, got %d", checker.Generation)
	}
	if sm.TextureSystem.GetDefault().HasTransparency {
		t.Fatal("default texture is opaque")
	}

	// the systems stop at the limits the backends are sized for
	if got := sm.TextureSystem.config.MaxTextureCount; got != renderer.MaxTextureCount {
		t.Fatalf("texture limit %d, backend supports %d", got, renderer.MaxTextureCount)
	}
	if got := sm.GeometrySystem.config.MaxGeometryCount; got != renderer.MaxGeometryCount {
		t.Fatalf("geometry limit %d, backend supports %d", got, renderer.MaxGeometryCount)
	}
}

func TestManagerShutdownReleasesEverything(t *testing.T) {
	sm, b := newHeadlessManager(t)
	cube := sm.GeometrySystem.GetCube()
	white := sm.TextureSystem.GetDefault()

	if err := sm.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := sm.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if cube.InternalID != metadata.InvalidID {
		t.Fatal("cube still has a backend slot")
	}
	if white.Generation != metadata.InvalidGeneration {
		t.Fatal("default texture still uploaded")
	}
	if s := b.Stats(); s.Geometries != 0 || s.Textures != 0 {
		t.Fatalf("leftovers after shutdown: %+v", s)
	}
}

// failingBackend brings the headless backend up, then reports failure, like a
// GPU backend that dies after creating its instance.
type failingBackend struct {
	*headless.Backend
	fail      bool
	shutdowns int
}

func (f *failingBackend) Initialize(cfg *metadata.RendererBackendConfig) error {
	if err := f.Backend.Initialize(cfg); err != nil {
		return err
	}
	if f.fail {
		return errors.New("device lost")
	}
	return nil
}

func (f *failingBackend) Shutdown() error {
	f.shutdowns++
	return f.Backend.Shutdown()
}

func TestManagerShutdownAfterFailedInitialize(t *testing.T) {
	tests := []struct {
		name          string
		initialize    bool
		fail          bool
		wantShutdowns int
	}{
		{name: "never initialized", wantShutdowns: 0},
		{name: "backend failed", initialize: true, fail: true, wantShutdowns: 1},
		{name: "initialized", initialize: true, wantShutdowns: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &failingBackend{Backend: headless.New(), fail: tt.fail}
			sm, err := NewSystemManagerWithBackend(config.Default(), b, nil)
			if err != nil {
				t.Fatal(err)
			}
			if tt.initialize {
				err := sm.Initialize(320, 240)
				if (err != nil) != tt.fail {
					t.Fatalf("Initialize() error = %v, fail %v", err, tt.fail)
				}
			}
			for i := 0; i < 2; i++ {
				if err := sm.Shutdown(); err != nil {
					t.Fatal(err)
				}
			}
			if b.shutdowns != tt.wantShutdowns {
				t.Fatalf("backend shut down %d times, want %d", b.shutdowns, tt.wantShutdowns)
			}
			if s := b.Stats(); s.Geometries != 0 || s.Textures != 0 {
				t.Fatalf("leftovers after shutdown: %+v", s)
			}
		})
	}
}

func TestGeometryAcquireRelease(t *testing.T) {
	sm, b := newHeadlessManager(t)
	gs := sm.GeometrySystem

	cfg := metadata.GenerateQuad("", 2, 2, 1, 1)
	g, err := gs.AcquireFromConfig(cfg, true)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name == "" {
		t.Fatal("generated geometry has no name")
	}
	if _, err := gs.AcquireFromConfig(&metadata.GeometryConfig{Name: g.Name, Vertices: cfg.Vertices}, false); err == nil {
		t.Fatal("duplicate names must be rejected")
	}

	again, err := gs.AcquireByName(g.Name)
	if err != nil || again != g {
		t.Fatalf("acquire by name: %v", err)
	}
	gs.Release(g)
	if b.Stats().Geometries != 4 {
		t.Fatal("geometry destroyed while still referenced")
	}
	gs.Release(g)
	if b.Stats().Geometries != 3 {
		t.Fatal("auto release did not destroy the geometry")
	}
	if _, err := gs.AcquireByName(g.Name); err == nil {
		t.Fatal("released geometry is still registered")
	}

	// builtins are never auto released
	quad := gs.GetQuad()
	gs.Release(quad)
	if gs.GetQuad() == nil {
		t.Fatal("builtin quad was released")
	}
}

func TestGeometryLimit(t *testing.T) {
	sm, _ := newHeadlessManager(t)
	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: 1}, sm.Renderer)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := gs.AcquireFromConfig(metadata.GenerateQuad("a", 1, 1, 1, 1), false); err != nil {
		t.Fatal(err)
	}
	if _, err := gs.AcquireFromConfig(metadata.GenerateQuad("b", 1, 1, 1, 1), false); err == nil {
		t.Fatal("limit not enforced")
	}
	if _, err := NewGeometrySystem(&GeometrySystemConfig{}, sm.Renderer); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestTextureLoadIsAsync(t *testing.T) {
	sm, b := newHeadlessManager(t)
	ts := sm.TextureSystem

	tex, err := ts.Load("stripes", &loaders.TextureParams{
		Kind:   loaders.TextureGradient,
		Width:  8,
		Height: 8,
		Color:  color.RGBA{R: 255, A: 255},
		Alt:    color.RGBA{B: 255, A: 128},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ts.Load("stripes", &loaders.TextureParams{Width: 1, Height: 1}); err == nil {
		t.Fatal("duplicate texture accepted")
	}

	ts.jobSystem.Flush()
	if tex.Generation != 0 {
		t.Fatalf("texture not uploaded, generation %d", tex.Generation)
	}
	if !tex.HasTransparency {
		t.Fatal("gradient to a translucent colour must report transparency")
	}
	got, err := ts.Acquire("stripes")
	if err != nil || got != tex {
		t.Fatalf("acquire: %v", err)
	}
	if b.Stats().Textures != 3 {
		t.Fatalf("expected 3 textures, got %d", b.Stats().Textures)
	}

	if err := ts.Destroy("stripes"); err != nil {
		t.Fatal(err)
	}
	if err := ts.Destroy(metadata.CheckerTextureName); err == nil {
		t.Fatal("builtin destroyed")
	}
	if _, err := ts.Acquire("stripes"); err == nil {
		t.Fatal("destroyed texture still registered")
	}
}

func TestTextureFailureUnregisters(t *testing.T) {
	sm, _ := newHeadlessManager(t)
	ts := sm.TextureSystem
	if _, err := ts.Load("broken", &loaders.TextureParams{Width: 0, Height: 4}); err != nil {
		t.Fatal(err)
	}
	sm.Update()
	ts.jobSystem.Flush()
	if _, err := ts.Acquire("broken"); err == nil {
		t.Fatal("failed texture must be unregistered")
	}
}

func TestManagerDrawFrame(t *testing.T) {
	sm, b := newHeadlessManager(t)

	packet := &metadata.RenderPacket{}
	packet.Reset(0.016)
	world := packet.AddView("world", mgl32.Ident4(), mgl32.Ident4())
	world.Add(mgl32.Ident4(), sm.GeometrySystem.GetCube(), sm.TextureSystem.GetChecker(), mgl32.Vec4{1, 1, 1, 1})
	world.Add(mgl32.Ident4(), sm.GeometrySystem.GetQuad(), nil, mgl32.Vec4{1, 0, 0, 1})

	if err := sm.DrawFrame(packet); err != nil {
		t.Fatal(err)
	}
	if b.Stats().LastFrameDraws != 2 {
		t.Fatalf("expected 2 draws, got %d", b.Stats().LastFrameDraws)
	}

	// resize skips exactly one frame
	if err := sm.OnResize(640, 480); err != nil {
		t.Fatal(err)
	}
	if err := sm.DrawFrame(packet); err != nil {
		t.Fatal(err)
	}
	if sm.Renderer.SkippedFrames() != 1 || sm.Renderer.FrameNumber() != 1 {
		t.Fatalf("skipped=%d frames=%d", sm.Renderer.SkippedFrames(), sm.Renderer.FrameNumber())
	}

	sm.SetClearColor(color.RGBA{R: 255, A: 255})
	if b.ClearColor() != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Fatalf("clear colour not forwarded: %v", b.ClearColor())
	}
}
