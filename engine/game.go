package engine

import (
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
	"github.com/spaghettifunk/orbit/engine/systems"
)

// Game is the set of hooks the engine drives. SystemManager and Config are
// filled in by the engine before FnInitialize runs.
type Game struct {
	ApplicationConfig *ApplicationConfig
	Config            *config.Config
	SystemManager     *systems.SystemManager
	State             interface{}
	FnInitialize      Initialize
	FnUpdate          Update
	FnRender          Render
	FnOnResize        OnResize
	FnShutdown        Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(packet *metadata.RenderPacket, deltaTime float64) error
type OnResize func(width uint32, height uint32) error
type Shutdown func() error
