package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// Renderer is the frontend: it turns render packets into draw calls for the backend.
type Renderer struct {
	backend     RendererBackend
	width       uint32
	height      uint32
	frameNumber uint64
	skipped     uint64
}

func New(backend RendererBackend) *Renderer {
	return &Renderer{backend: backend}
}

func (r *Renderer) Initialize(config *metadata.RendererBackendConfig) error {
	r.width, r.height = config.Width, config.Height
	if err := r.backend.Initialize(config); err != nil {
		return fmt.Errorf("renderer backend failed to initialize: %w", err)
	}
	core.LogInfo("renderer initialized at %dx%d", r.width, r.height)
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) OnResize(width, height uint32) error {
	r.width, r.height = width, height
	return r.backend.Resized(width, height)
}

// FramebufferSize is the last size the renderer was told about.
func (r *Renderer) FramebufferSize() (uint32, uint32) {
	return r.width, r.height
}

// FrameNumber counts frames that were actually submitted.
func (r *Renderer) FrameNumber() uint64 {
	return r.frameNumber
}

// SkippedFrames counts frames dropped while the swapchain was booting.
func (r *Renderer) SkippedFrames() uint64 {
	return r.skipped
}

func (r *Renderer) SetClearColor(color mgl32.Vec4) {
	r.backend.SetClearColor(color)
}

func (r *Renderer) DrawFrame(packet *metadata.RenderPacket) error {
	if err := r.backend.BeginFrame(packet.DeltaTime); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			// Not an error; try again next frame.
			r.skipped++
			return nil
		}
		return fmt.Errorf("begin frame failed: %w", err)
	}

	for _, view := range packet.Views {
		viewProjection := view.ProjectionMatrix.Mul4(view.ViewMatrix)
		for i := range view.Geometries {
			g := &view.Geometries[i]
			if g.Geometry == nil || g.Geometry.InternalID == metadata.InvalidID {
				continue
			}
			call := &metadata.DrawCall{
				MVP:      viewProjection.Mul4(g.Model),
				Tint:     g.Tint,
				Geometry: g.Geometry,
				Texture:  g.Texture,
			}
			if err := r.backend.DrawGeometry(call); err != nil {
				return fmt.Errorf("draw %s in view %s: %w", g.Geometry.Name, view.Name, err)
			}
		}
	}

	if err := r.backend.EndFrame(packet.DeltaTime); err != nil {
		if errors.Is(err, core.ErrSwapchainBooting) {
			r.skipped++
			return nil
		}
		return fmt.Errorf("end frame failed: %w", err)
	}
	r.frameNumber++
	return nil
}

func (r *Renderer) CreateGeometry(geometry *metadata.Geometry, vertices []metadata.Vertex3D, indices []uint32) error {
	return r.backend.CreateGeometry(geometry, vertices, indices)
}

func (r *Renderer) DestroyGeometry(geometry *metadata.Geometry) {
	r.backend.DestroyGeometry(geometry)
}

func (r *Renderer) CreateTexture(texture *metadata.Texture, pixels []uint8) error {
	return r.backend.CreateTexture(texture, pixels)
}

func (r *Renderer) DestroyTexture(texture *metadata.Texture) {
	r.backend.DestroyTexture(texture)
}
