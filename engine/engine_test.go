package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/platform"
	"github.com/spaghettifunk/orbit/engine/renderer/headless"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

type recorder struct {
	updates []float64
	resizes [][2]uint32
	// called from FnUpdate with the 1-based update number
	onUpdate func(n int)
}

func (r *recorder) game() *Game {
	g := &Game{}
	g.FnInitialize = func() error { return nil }
	g.FnUpdate = func(dt float64) error {
		r.updates = append(r.updates, dt)
		if r.onUpdate != nil {
			r.onUpdate(len(r.updates))
		}
		return nil
	}
	g.FnRender = func(packet *metadata.RenderPacket, dt float64) error {
		view := packet.AddView("world", mgl32.Ident4(), mgl32.Ident4())
		view.Add(mgl32.Ident4(), g.SystemManager.GeometrySystem.GetCube(), nil, mgl32.Vec4{1, 1, 1, 1})
		return nil
	}
	g.FnOnResize = func(w, h uint32) error {
		r.resizes = append(r.resizes, [2]uint32{w, h})
		return nil
	}
	return g
}

func headlessConfig(t *testing.T, frames int) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendHeadless
	cfg.Renderer.HeadlessFrames = frames
	cfg.Application.AssetsDir = t.TempDir()
	cfg.Application.HotReload = false
	cfg.Application.LogLevel = "error"
	return cfg
}

func startEngine(t *testing.T, g *Game, cfg *config.Config, opts ...Option) *Engine {
	t.Helper()
	e, err := New(g, cfg, opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Shutdown() })
	return e
}

func backendOf(e *Engine) *headless.Backend {
	return e.systemManager.Backend().(*headless.Backend)
}

func TestNewValidatesInput(t *testing.T) {
	cfg := config.Default()
	if _, err := New(nil, cfg); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for a nil game, got %v", err)
	}
	if _, err := New(&Game{}, cfg); !errors.Is(err, core.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for missing hooks, got %v", err)
	}
	cfg.Renderer.Backend = "software"
	r := &recorder{}
	if _, err := New(r.game(), cfg); !errors.Is(err, core.ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestRunHeadlessBudget(t *testing.T) {
	r := &recorder{}
	cfg := headlessConfig(t, 5)
	e := startEngine(t, r.game(), cfg)

	if e.Stage() != EngineStageInitialized {
		t.Fatalf("stage = %s after Initialize", e.Stage())
	}
	if len(r.resizes) != 1 || r.resizes[0] != [2]uint32{cfg.Application.StartWidth, cfg.Application.StartHeight} {
		t.Fatalf("game must get the initial size once, got %v", r.resizes)
	}

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(r.updates) != 5 {
		t.Fatalf("expected 5 updates, got %d", len(r.updates))
	}
	for i, dt := range r.updates {
		if dt < 0 || dt > cfg.Frame.MaxDelta {
			t.Fatalf("delta %d out of range: %f", i, dt)
		}
	}
	stats := backendOf(e).Stats()
	if stats.Frames != 5 || stats.DrawCalls != 5 {
		t.Fatalf("unexpected backend stats %+v", stats)
	}
}

func TestRunSuspendsWhileMinimized(t *testing.T) {
	r := &recorder{}
	window := platform.NewHeadless(6)
	window.ScheduleResize(2, 0, 0)
	window.ScheduleResize(4, 640, 480)
	e := startEngine(t, r.game(), headlessConfig(t, 0), WithWindow(window))

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	// frames 2 and 3 are suspended
	if len(r.updates) != 4 {
		t.Fatalf("expected 4 updates, got %d", len(r.updates))
	}
	if last := r.resizes[len(r.resizes)-1]; last != [2]uint32{640, 480} {
		t.Fatalf("restore was not forwarded to the game: %v", r.resizes)
	}
	if w, h := e.GetFramebufferSize(); w != 640 || h != 480 {
		t.Fatalf("framebuffer size = %dx%d", w, h)
	}
	renderer := e.systemManager.Renderer
	if renderer.FrameNumber() != 3 || renderer.SkippedFrames() != 1 {
		t.Fatalf("frames=%d skipped=%d, want 3 and 1", renderer.FrameNumber(), renderer.SkippedFrames())
	}
}

func TestEscapeQuits(t *testing.T) {
	r := &recorder{}
	r.onUpdate = func(n int) {
		if n == 3 {
			core.InputProcessKey(core.KEY_ESCAPE, true)
		}
	}
	e := startEngine(t, r.game(), headlessConfig(t, 100))

	quitSeen := false
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, r, func(core.EventContext) bool {
		quitSeen = true
		return false
	})

	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(r.updates) != 3 {
		t.Fatalf("loop should stop on the frame ESC was pressed, ran %d updates", len(r.updates))
	}
	if !quitSeen {
		t.Fatal("quit event did not reach other listeners")
	}
}

func TestStopEndsTheLoop(t *testing.T) {
	r := &recorder{}
	e := startEngine(t, r.game(), headlessConfig(t, 100))
	e.Stop()
	if err := e.Run(); err != nil {
		t.Fatal(err)
	}
	if len(r.updates) != 0 {
		t.Fatalf("expected no updates after Stop, got %d", len(r.updates))
	}
}

func TestUpdateErrorStopsRun(t *testing.T) {
	r := &recorder{}
	g := r.game()
	boom := errors.New("boom")
	g.FnUpdate = func(float64) error { return boom }
	e := startEngine(t, g, headlessConfig(t, 10))

	if err := e.Run(); !errors.Is(err, boom) {
		t.Fatalf("expected the game error, got %v", err)
	}
}

func TestReloadConfig(t *testing.T) {
	r := &recorder{}
	e := startEngine(t, r.game(), headlessConfig(t, 1))

	changed := config.Default()
	changed.Renderer.ClearColor = "red"
	changed.Application.LogLevel = "debug"
	e.reloadConfig(changed)

	if got := backendOf(e).ClearColor(); got != (mgl32.Vec4{1, 0, 0, 1}) {
		t.Fatalf("clear colour not applied: %v", got)
	}
	if e.config.Application.LogLevel != "debug" {
		t.Fatalf("log level not applied: %s", e.config.Application.LogLevel)
	}
	core.SetLogLevel("error")
}

func writeConfig(t *testing.T, path, clearColor string) {
	t.Helper()
	doc := "[application]\nlog_level = \"error\"\n\n" +
		"[renderer]\nbackend = \"headless\"\nheadless_frames = 1\nclear_color = \"" + clearColor + "\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
}

// pollAssetChanges applies pending asset changes until done reports true or
// the timeout expires.
func pollAssetChanges(e *Engine, timeout time.Duration, done func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.applyAssetChanges()
		if done() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestHotReloadFollowsTheLoadedConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	enginePath := filepath.Join(dir, "config", "engine.toml")
	writeConfig(t, enginePath, "black")

	cfg, err := config.Load(enginePath)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Application.AssetsDir = dir
	cfg.Application.HotReload = true

	r := &recorder{}
	e := startEngine(t, r.game(), cfg)
	black := mgl32.Vec4{0, 0, 0, 1}
	if got := backendOf(e).ClearColor(); got != black {
		t.Fatalf("initial clear colour %v", got)
	}

	var changed []string
	core.EventRegister(core.EVENT_CODE_ASSET_CHANGED, r, func(c core.EventContext) bool {
		changed = append(changed, c.Data.(*core.AssetEvent).Path)
		return false
	})

	// another profile next to the loaded one must not be applied
	writeConfig(t, filepath.Join(dir, "config", "other.toml"), "red")
	sawOther := pollAssetChanges(e, 5*time.Second, func() bool {
		for _, p := range changed {
			if p == "config/other.toml" {
				return true
			}
		}
		return false
	})
	if !sawOther {
		t.Fatal("watcher never reported config/other.toml")
	}
	if got := backendOf(e).ClearColor(); got != black {
		t.Fatalf("an unrelated config changed the clear colour to %v", got)
	}

	writeConfig(t, enginePath, "white")
	white := mgl32.Vec4{1, 1, 1, 1}
	if !pollAssetChanges(e, 5*time.Second, func() bool { return backendOf(e).ClearColor() == white }) {
		t.Fatalf("clear colour not reloaded, still %v", backendOf(e).ClearColor())
	}
	if e.config.Renderer.ClearColor != "white" {
		t.Fatalf("engine config not updated: %s", e.config.Renderer.ClearColor)
	}
}

func TestShutdownIsIdempotent(t *testing.T) {
	r := &recorder{}
	shutdowns := 0
	g := r.game()
	g.FnShutdown = func() error {
		shutdowns++
		return nil
	}
	e := startEngine(t, g, headlessConfig(t, 1))

	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if shutdowns != 1 {
		t.Fatalf("game shutdown ran %d times", shutdowns)
	}
	if e.Stage() != EngineStageShuttingDown {
		t.Fatalf("stage = %s", e.Stage())
	}
	if err := e.Run(); err == nil {
		t.Fatal("run after shutdown must fail")
	}
}
