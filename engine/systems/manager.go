package systems

import (
	"errors"
	"fmt"
	"image/color"
	"runtime"
	"strings"

	"github.com/spaghettifunk/orbit/engine/assets"
	"github.com/spaghettifunk/orbit/engine/config"
	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/math"
	"github.com/spaghettifunk/orbit/engine/platform"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/headless"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
	"github.com/spaghettifunk/orbit/engine/renderer/vulkan"
)

const (
	builtinShaderDir  = "shaders"
	builtinShaderName = "builtin"
)

// NewBackend picks the renderer backend by name. Vulkan needs a window that
// can hand out a surface.
func NewBackend(name string, window platform.Window) (renderer.RendererBackend, error) {
	switch strings.ToLower(name) {
	case config.BackendVulkan:
		provider, ok := window.(vulkan.SurfaceProvider)
		if !ok {
			return nil, fmt.Errorf("window %T cannot create a vulkan surface", window)
		}
		return vulkan.New(provider), nil
	case config.BackendHeadless:
		return headless.New(), nil
	default:
		return nil, fmt.Errorf("%w %q", core.ErrUnknownBackend, name)
	}
}

type SystemManager struct {
	config       *config.Config
	assetManager *assets.AssetManager
	backend      renderer.RendererBackend

	Renderer       *renderer.Renderer
	jobSystem      *JobSystem
	GeometrySystem *GeometrySystem
	TextureSystem  *TextureSystem

	initialized    bool
	backendStarted bool
}

// NewSystemManager wires the systems together. Nothing talks to the backend
// until Initialize. assetManager may be nil for backends that load no shaders.
func NewSystemManager(cfg *config.Config, window platform.Window, assetManager *assets.AssetManager) (*SystemManager, error) {
	backend, err := NewBackend(cfg.Renderer.Backend, window)
	if err != nil {
		return nil, err
	}
	return NewSystemManagerWithBackend(cfg, backend, assetManager)
}

func NewSystemManagerWithBackend(cfg *config.Config, backend renderer.RendererBackend, assetManager *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(max(runtime.NumCPU()/2, 1), 64)
	if err != nil {
		return nil, err
	}
	r := renderer.New(backend)

	gs, err := NewGeometrySystem(&GeometrySystemConfig{MaxGeometryCount: renderer.MaxGeometryCount}, r)
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{MaxTextureCount: renderer.MaxTextureCount}, js, r)
	if err != nil {
		return nil, err
	}

	return &SystemManager{
		config:         cfg,
		assetManager:   assetManager,
		backend:        backend,
		Renderer:       r,
		jobSystem:      js,
		GeometrySystem: gs,
		TextureSystem:  ts,
	}, nil
}

// Initialize brings the renderer up at the given framebuffer size, then the
// builtin textures and geometries.
func (sm *SystemManager) Initialize(width, height uint32) error {
	cc := sm.config.ClearColorRGBA()
	backendConfig := &metadata.RendererBackendConfig{
		ApplicationName: sm.config.Application.Name,
		Width:           width,
		Height:          height,
		Validation:      sm.config.Renderer.Validation,
		VSync:           sm.config.Renderer.VSync,
		ClearColor:      math.Vec4FromRGBA(cc.R, cc.G, cc.B, cc.A),
	}

	if _, ok := sm.backend.(*vulkan.VulkanRenderer); ok {
		if sm.assetManager == nil {
			return fmt.Errorf("vulkan backend needs an asset manager for its shaders: %w", core.ErrInvalidConfig)
		}
		res, err := sm.assetManager.LoadAsset(builtinShaderDir, metadata.ResourceTypeShader, builtinShaderName)
		if err != nil {
			return fmt.Errorf("failed to load builtin shader (run `mage build:shaders`): %w", err)
		}
		backendConfig.Shader = res.Data.(*metadata.ShaderResourceData)
	}

	// A backend that failed halfway may still hold an instance or device.
	sm.backendStarted = true
	if err := sm.Renderer.Initialize(backendConfig); err != nil {
		return err
	}
	if err := sm.TextureSystem.Initialize(); err != nil {
		return err
	}
	if err := sm.GeometrySystem.Initialize(); err != nil {
		return err
	}
	sm.initialized = true
	return nil
}

// Update finishes background work, e.g. uploads generated textures.
func (sm *SystemManager) Update() {
	sm.TextureSystem.Update()
}

func (sm *SystemManager) DrawFrame(packet *metadata.RenderPacket) error {
	if !sm.initialized {
		return core.ErrNotInitialized
	}
	return sm.Renderer.DrawFrame(packet)
}

func (sm *SystemManager) OnResize(width, height uint32) error {
	if !sm.initialized {
		return nil
	}
	return sm.Renderer.OnResize(width, height)
}

func (sm *SystemManager) SetClearColor(c color.RGBA) {
	sm.Renderer.SetClearColor(math.Vec4FromRGBA(c.R, c.G, c.B, c.A))
}

// Backend is the renderer backend in use.
func (sm *SystemManager) Backend() renderer.RendererBackend {
	return sm.backend
}

// Shutdown releases everything in reverse order of creation. Safe to call
// more than once, and after a failed Initialize.
func (sm *SystemManager) Shutdown() error {
	sm.initialized = false
	if !sm.backendStarted {
		return sm.jobSystem.Shutdown()
	}
	sm.backendStarted = false

	var errs []error
	errs = append(errs, sm.GeometrySystem.Shutdown())
	errs = append(errs, sm.TextureSystem.Shutdown())
	errs = append(errs, sm.jobSystem.Shutdown())
	errs = append(errs, sm.Renderer.Shutdown())
	return errors.Join(errs...)
}
