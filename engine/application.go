package engine

import (
	"os"
	"path/filepath"

	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32
	// Window starting position y axis, if applicable.
	StartPosY uint32
	// Window starting width, if applicable.
	StartWidth uint32
	// Window starting height, if applicable.
	StartHeight uint32
	// The application name used in windowing, if applicable.
	Name     string
	LogLevel string
}

func NewApplicationConfig(cfg *config.Config) *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:   cfg.Application.StartPosX,
		StartPosY:   cfg.Application.StartPosY,
		StartWidth:  cfg.Application.StartWidth,
		StartHeight: cfg.Application.StartHeight,
		Name:        cfg.Application.Name,
		LogLevel:    cfg.Application.LogLevel,
	}
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	if context.Type == core.EVENT_CODE_KEY_PRESSED && ke.KeyCode == core.KEY_ESCAPE {
		// Technically firing an event to itself, but there may be other listeners.
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
		// Block anything else from processing this.
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width, height := se.WindowWidth, se.WindowHeight
	if width == e.width && height == e.height {
		return false
	}
	e.width, e.height = width, height
	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	if e.gameInstance.FnOnResize != nil {
		if err := e.gameInstance.FnOnResize(width, height); err != nil {
			core.LogError("game resize failed: %s", err)
		}
	}
	if err := e.systemManager.OnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}

// applyAssetChanges forwards every changed asset as an event and hot reloads
// the parts of the configuration that can change at runtime: the log level
// and the clear colour. Only the file the engine was configured from is
// reloaded; other TOML files under the assets directory are ignored.
func (e *Engine) applyAssetChanges() {
	for _, path := range e.assetManager.DrainChanges() {
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_ASSET_CHANGED,
			Data: &core.AssetEvent{Path: path},
		})

		info, ok := e.assetManager.Lookup(path)
		if !ok || info.Type != metadata.ResourceTypeConfig {
			continue
		}
		full := filepath.Join(e.assetManager.BaseDir(), filepath.FromSlash(path))
		if !e.isConfigFile(full) {
			continue
		}
		cfg, err := config.Load(full)
		if err != nil {
			core.LogWarn("ignoring configuration change in %s: %s", path, err)
			continue
		}
		e.reloadConfig(cfg)
	}
}

func (e *Engine) isConfigFile(path string) bool {
	if e.config.Path == "" {
		return false
	}
	if filepath.Clean(path) == filepath.Clean(e.config.Path) {
		return true
	}
	// The assets directory may be reached through a symlink.
	a, err := os.Stat(path)
	if err != nil {
		return false
	}
	b, err := os.Stat(e.config.Path)
	if err != nil {
		return false
	}
	return os.SameFile(a, b)
}

func (e *Engine) reloadConfig(cfg *config.Config) {
	if cfg.Application.LogLevel != e.config.Application.LogLevel {
		if err := core.SetLogLevel(cfg.Application.LogLevel); err != nil {
			core.LogWarn("invalid log level %q: %s", cfg.Application.LogLevel, err)
		} else {
			e.config.Application.LogLevel = cfg.Application.LogLevel
			core.LogInfo("log level set to %s", cfg.Application.LogLevel)
		}
	}
	if cfg.Renderer.ClearColor != e.config.Renderer.ClearColor {
		e.config.Renderer.ClearColor = cfg.Renderer.ClearColor
		e.systemManager.SetClearColor(cfg.ClearColorRGBA())
		core.LogInfo("clear colour set to %s", cfg.Renderer.ClearColor)
	}
}
