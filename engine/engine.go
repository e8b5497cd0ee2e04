package engine

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/spaghettifunk/orbit/engine/assets"
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/platform"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
	"github.com/spaghettifunk/orbit/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently booting up
	EngineStageBooting
	// Engine completed boot process and is ready to be initialized
	EngineStageBootComplete
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

func (s Stage) String() string {
	switch s {
	case EngineStageUninitialized:
		return "uninitialized"
	case EngineStageBooting:
		return "booting"
	case EngineStageBootComplete:
		return "boot complete"
	case EngineStageInitializing:
		return "initializing"
	case EngineStageInitialized:
		return "initialized"
	case EngineStageRunning:
		return "running"
	case EngineStageShuttingDown:
		return "shutting down"
	default:
		return "unknown"
	}
}

// Windows that can block until the next OS event, used while minimized.
type eventWaiter interface {
	WaitEvents()
}

type Engine struct {
	currentStage  Stage
	config        *config.Config
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	window        platform.Window
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	width         uint32
	height        uint32
	clock         *core.Clock
	lastTime      float64
	metrics       *core.FrameMetrics
	packet        metadata.RenderPacket

	// Set from other goroutines, e.g. a signal handler.
	stopRequested atomic.Bool
}

type Option func(*Engine)

// WithWindow replaces the window picked from the configured backend.
func WithWindow(w platform.Window) Option {
	return func(e *Engine) {
		e.window = w
	}
}

// New prepares an engine for the game. The window follows the renderer
// backend: a glfw window for vulkan, a headless one otherwise.
func New(g *Game, cfg *config.Config, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, fmt.Errorf("engine needs a game: %w", core.ErrInvalidConfig)
	}
	if g.FnUpdate == nil || g.FnRender == nil {
		return nil, fmt.Errorf("game must provide update and render hooks: %w", core.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if g.ApplicationConfig == nil {
		g.ApplicationConfig = NewApplicationConfig(cfg)
	}

	e := &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		gameInstance: g,
		clock:        core.NewClock(),
		metrics:      core.NewFrameMetrics(),
		width:        g.ApplicationConfig.StartWidth,
		height:       g.ApplicationConfig.StartHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.window == nil {
		switch cfg.Renderer.Backend {
		case config.BackendHeadless:
			e.window = platform.NewHeadless(cfg.Renderer.HeadlessFrames)
		default:
			e.window = platform.New()
		}
	}
	g.Config = cfg
	return e, nil
}

func (e *Engine) Initialize() error {
	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine cannot initialize from stage %s", e.currentStage)
	}
	e.currentStage = EngineStageBooting
	app := e.gameInstance.ApplicationConfig

	if err := core.SetLogLevel(app.LogLevel); err != nil {
		core.LogWarn("invalid log level %q, keeping the default: %s", app.LogLevel, err)
	}

	// initialize input
	if err := core.InputInitialize(); err != nil {
		return err
	}

	// initialize events
	if err := core.EventInitialize(); err != nil {
		return fmt.Errorf("failed to initialize the event system: %w", err)
	}

	// register some events
	core.EventRegister(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	core.EventRegister(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	core.EventRegister(core.EVENT_CODE_RESIZED, e, e.onResized)

	if err := e.window.Startup(app.Name, app.StartPosX, app.StartPosY, app.StartWidth, app.StartHeight); err != nil {
		return fmt.Errorf("failed to start the platform layer: %w", err)
	}
	if w, h := e.window.FramebufferSize(); w > 0 && h > 0 {
		e.width, e.height = w, h
	}
	e.currentStage = EngineStageBootComplete

	e.currentStage = EngineStageInitializing
	e.assetManager = assets.NewAssetManager(e.config.Application.HotReload)
	if err := e.assetManager.Initialize(e.config.Application.AssetsDir); err != nil {
		return fmt.Errorf("failed to initialize the asset manager: %w", err)
	}

	sm, err := systems.NewSystemManager(e.config, e.window, e.assetManager)
	if err != nil {
		return err
	}
	e.systemManager = sm
	if err := e.systemManager.Initialize(e.width, e.height); err != nil {
		return err
	}
	e.gameInstance.SystemManager = e.systemManager

	if e.gameInstance.FnInitialize != nil {
		if err := e.gameInstance.FnInitialize(); err != nil {
			return fmt.Errorf("game failed to initialize: %w", err)
		}
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
			return fmt.Errorf("game failed to handle the initial size: %w", err)
		}
	}

	e.currentStage = EngineStageInitialized
	core.LogInfo("engine initialized with the %s backend", e.config.Renderer.Backend)
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine cannot run from stage %s", e.currentStage)
	}
	e.currentStage = EngineStageRunning
	e.isRunning = true

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	for e.isRunning && !e.stopRequested.Load() {
		if !e.window.PumpMessages() {
			e.isRunning = false
			break
		}

		if e.isSuspended {
			if w, ok := e.window.(eventWaiter); ok {
				w.WaitEvents()
			} else {
				e.window.Sleep(10)
			}
			// The stall must not show up as one huge delta on resume.
			e.clock.Update()
			e.lastTime = e.clock.Elapsed()
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := core.ClampDelta(currentTime-e.lastTime, e.config.Frame.MaxDelta)
		frameStartTime := e.window.AbsoluteTime()

		e.systemManager.Update()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			e.isRunning = false
			return fmt.Errorf("game update failed: %w", err)
		}

		e.packet.Reset(delta)
		if err := e.gameInstance.FnRender(&e.packet, delta); err != nil {
			e.isRunning = false
			return fmt.Errorf("game render failed: %w", err)
		}
		if err := e.systemManager.DrawFrame(&e.packet); err != nil {
			e.isRunning = false
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		// Figure out how long the frame took and, if below the target, give
		// the rest back to the OS.
		frameElapsedTime := e.window.AbsoluteTime() - frameStartTime
		e.metrics.Update(frameElapsedTime)
		if target := e.config.Frame.TargetFPS; target > 0 {
			remainingSeconds := 1.0/float64(target) - frameElapsedTime
			if remainingSeconds > 0 {
				e.window.Sleep(remainingSeconds * 1000)
			}
		}

		// NOTE: Input update/state copying should always be handled
		// after any input should be recorded; I.E. before this line.
		// As a safety, input is the last thing to be updated before
		// this frame ends.
		core.InputUpdate()

		e.applyAssetChanges()

		// Update last time
		e.lastTime = currentTime
	}

	core.LogInfo("main loop stopped after %d frames (%d skipped), %.1f fps",
		e.systemManager.Renderer.FrameNumber(), e.systemManager.Renderer.SkippedFrames(), e.metrics.FPS())
	return nil
}

// Stop asks the main loop to end after the current frame. Safe to call from
// any goroutine.
func (e *Engine) Stop() {
	e.stopRequested.Store(true)
}

// Shutdown releases every subsystem in reverse order of initialization.
// Calling it more than once, or on an engine that never initialized, is fine.
func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown || e.currentStage == EngineStageUninitialized {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if e.gameInstance.FnShutdown != nil && e.gameInstance.SystemManager != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
	}
	if e.assetManager != nil {
		errs = append(errs, e.assetManager.Shutdown())
	}
	core.EventUnregister(core.EVENT_CODE_APPLICATION_QUIT, e)
	core.EventUnregister(core.EVENT_CODE_KEY_PRESSED, e)
	core.EventUnregister(core.EVENT_CODE_RESIZED, e)
	errs = append(errs, core.EventShutdown())
	errs = append(errs, core.InputShutdown())
	errs = append(errs, e.window.Shutdown())

	return errors.Join(errs...)
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (uint32, uint32) {
	return e.width, e.height
}

func (e *Engine) Stage() Stage {
	return e.currentStage
}

// Metrics exposes the frame timings of the main loop.
func (e *Engine) Metrics() *core.FrameMetrics {
	return e.metrics
}
