package headless

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

func newRenderer(t *testing.T) (*renderer.Renderer, *Backend) {
	t.Helper()
	b := New()
	r := renderer.New(b)
	if err := r.Initialize(&metadata.RendererBackendConfig{ApplicationName: "test", Width: 800, Height: 600}); err != nil {
		t.Fatal(err)
	}
	return r, b
}

func uploadQuad(t *testing.T, r *renderer.Renderer) *metadata.Geometry {
	t.Helper()
	cfg := metadata.GenerateQuad("quad", 1, 1, 1, 1)
	g := &metadata.Geometry{Name: cfg.Name, InternalID: metadata.InvalidID, Generation: metadata.InvalidGeneration}
	if err := r.CreateGeometry(g, cfg.Vertices, cfg.Indices); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFrameProtocol(t *testing.T) {
	b := New()
	if err := b.BeginFrame(0); !errors.Is(err, core.ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	b.Initialize(&metadata.RendererBackendConfig{Width: 10, Height: 10})
	if err := b.EndFrame(0); !errors.Is(err, core.ErrFrameNotStarted) {
		t.Fatalf("expected ErrFrameNotStarted, got %v", err)
	}
	if err := b.BeginFrame(0); err != nil {
		t.Fatal(err)
	}
	if err := b.BeginFrame(0); err == nil {
		t.Fatal("nested begin frame must fail")
	}
}

func TestDrawFrameComputesMVP(t *testing.T) {
	r, b := newRenderer(t)
	quad := uploadQuad(t, r)

	proj := mgl32.Scale3D(2, 2, 2)
	view := mgl32.Translate3D(1, 0, 0)
	model := mgl32.Translate3D(0, 3, 0)

	packet := &metadata.RenderPacket{}
	packet.Reset(0.016)
	packet.AddView("world", proj, view).Add(model, quad, nil, mgl32.Vec4{1, 0, 0, 1})

	if err := r.DrawFrame(packet); err != nil {
		t.Fatal(err)
	}
	if len(b.LastCalls) != 1 {
		t.Fatalf("expected one draw call, got %d", len(b.LastCalls))
	}
	got := b.LastCalls[0].MVP.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if got != (mgl32.Vec4{2, 6, 0, 1}) {
		t.Fatalf("mvp should be proj*view*model, origin maps to %v", got)
	}
	if b.LastCalls[0].Tint != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Fatal("tint not forwarded")
	}
	if r.FrameNumber() != 1 {
		t.Fatalf("expected frame 1, got %d", r.FrameNumber())
	}
}

func TestFramesInFlightAlternate(t *testing.T) {
	r, b := newRenderer(t)
	packet := &metadata.RenderPacket{}
	var seen []uint32
	for i := 0; i < 4; i++ {
		seen = append(seen, b.CurrentFrame())
		if err := r.DrawFrame(packet); err != nil {
			t.Fatal(err)
		}
	}
	for i, f := range seen {
		if f != uint32(i%renderer.MaxFramesInFlight) {
			t.Fatalf("frame indices %v do not cycle modulo %d", seen, renderer.MaxFramesInFlight)
		}
	}
}

func TestResizeSkipsOneFrame(t *testing.T) {
	r, b := newRenderer(t)
	packet := &metadata.RenderPacket{}

	r.DrawFrame(packet)
	if err := r.OnResize(1024, 768); err != nil {
		t.Fatal(err)
	}
	if err := r.DrawFrame(packet); err != nil {
		t.Fatalf("booting frame should be skipped silently, got %v", err)
	}
	if r.SkippedFrames() != 1 || b.Stats().Recreations != 1 {
		t.Fatalf("expected one skipped frame and one recreation, got %d/%d", r.SkippedFrames(), b.Stats().Recreations)
	}
	r.DrawFrame(packet)
	if r.FrameNumber() != 2 {
		t.Fatalf("expected 2 submitted frames, got %d", r.FrameNumber())
	}
	if w, h := r.FramebufferSize(); w != 1024 || h != 768 {
		t.Fatalf("size not tracked: %dx%d", w, h)
	}
}

func TestUploadValidation(t *testing.T) {
	r, b := newRenderer(t)
	g := &metadata.Geometry{Name: "broken", InternalID: metadata.InvalidID}
	if err := r.CreateGeometry(g, []metadata.Vertex3D{{}}, []uint32{0, 1, 2}); err == nil {
		t.Fatal("out of range index must be rejected")
	}

	tex := &metadata.Texture{Name: "t", Width: 2, Height: 2, Generation: metadata.InvalidGeneration}
	if err := r.CreateTexture(tex, make([]uint8, 3)); err == nil {
		t.Fatal("short pixel buffer must be rejected")
	}
	if err := r.CreateTexture(tex, make([]uint8, 16)); err != nil {
		t.Fatal(err)
	}
	if tex.Generation != 0 {
		t.Fatalf("first upload should be generation 0, got %d", tex.Generation)
	}

	quad := uploadQuad(t, r)
	if quad.Generation != 0 {
		t.Fatalf("first geometry upload should be generation 0, got %d", quad.Generation)
	}
	packet := &metadata.RenderPacket{}
	packet.AddView("ui", mgl32.Ident4(), mgl32.Ident4()).Add(mgl32.Ident4(), quad, &metadata.Texture{Name: "missing"}, mgl32.Vec4{})
	if err := r.DrawFrame(packet); err == nil {
		t.Fatal("drawing with an unknown texture must fail")
	}

	r.DestroyGeometry(quad)
	if quad.InternalID != metadata.InvalidID || b.Stats().Geometries != 0 {
		t.Fatal("destroyed geometry should be released")
	}
	if quad.Generation != metadata.InvalidGeneration {
		t.Fatalf("destroyed geometry keeps generation %d", quad.Generation)
	}
}

func TestSetClearColor(t *testing.T) {
	r, b := newRenderer(t)
	r.SetClearColor(mgl32.Vec4{0.1, 0.2, 0.3, 1})
	if b.ClearColor() != (mgl32.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Fatal("clear colour not applied")
	}
}
