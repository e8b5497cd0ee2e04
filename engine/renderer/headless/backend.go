// Package headless is a renderer backend that draws nothing. It enforces the
// same frame protocol as the Vulkan backend and counts what it was asked to
// do, which makes the frame loop testable without a GPU.
package headless

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// swapchain images the simulated presentation engine cycles through.
const imageCount = 3

type Stats struct {
	Frames         uint64
	DrawCalls      uint64
	LastFrameDraws uint32
	Recreations    uint64
	Geometries     int
	Textures       int
}

type Backend struct {
	config      *metadata.RendererBackendConfig
	initialized bool
	inFrame     bool
	booting     bool
	width       uint32
	height      uint32
	clearColor  mgl32.Vec4

	frames     *renderer.FrameRing
	imageIndex uint32

	geometries   map[uint32]*metadata.Geometry
	nextGeometry uint32
	textures     map[string]*metadata.Texture

	stats Stats
	// LastCalls keeps the draw calls of the last completed frame.
	LastCalls []metadata.DrawCall
	pending   []metadata.DrawCall
}

func New() *Backend {
	return &Backend{
		geometries: make(map[uint32]*metadata.Geometry),
		textures:   make(map[string]*metadata.Texture),
	}
}

func (b *Backend) Initialize(config *metadata.RendererBackendConfig) error {
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d", config.Width, config.Height)
	}
	b.config = config
	b.width, b.height = config.Width, config.Height
	b.clearColor = config.ClearColor
	b.frames = renderer.NewFrameRing(imageCount)
	b.initialized = true
	core.LogInfo("headless renderer backend initialized")
	return nil
}

func (b *Backend) Shutdown() error {
	if !b.initialized {
		return nil
	}
	b.geometries = make(map[uint32]*metadata.Geometry)
	b.textures = make(map[string]*metadata.Texture)
	b.initialized = false
	return nil
}

// Resized marks the simulated swapchain out of date. The next BeginFrame
// recreates it and skips that frame.
func (b *Backend) Resized(width, height uint32) error {
	b.width, b.height = width, height
	b.booting = true
	return nil
}

func (b *Backend) BeginFrame(deltaTime float64) error {
	if !b.initialized {
		return core.ErrNotInitialized
	}
	if b.inFrame {
		return fmt.Errorf("begin frame called twice")
	}
	if b.width == 0 || b.height == 0 {
		return core.ErrSwapchainBooting
	}
	if b.booting {
		b.booting = false
		b.frames.Reset(imageCount)
		b.stats.Recreations++
		return core.ErrSwapchainBooting
	}

	b.imageIndex = uint32(b.stats.Frames % imageCount)
	b.frames.Acquire(b.imageIndex)
	b.pending = b.pending[:0]
	b.inFrame = true
	return nil
}

func (b *Backend) DrawGeometry(call *metadata.DrawCall) error {
	if !b.inFrame {
		return core.ErrFrameNotStarted
	}
	if _, ok := b.geometries[call.Geometry.InternalID]; !ok {
		return fmt.Errorf("geometry %q was never uploaded", call.Geometry.Name)
	}
	if call.Texture != nil {
		if _, ok := b.textures[call.Texture.Name]; !ok {
			return fmt.Errorf("texture %q was never uploaded", call.Texture.Name)
		}
	}
	b.pending = append(b.pending, *call)
	return nil
}

func (b *Backend) EndFrame(deltaTime float64) error {
	if !b.inFrame {
		return core.ErrFrameNotStarted
	}
	b.inFrame = false
	b.LastCalls = append(b.LastCalls[:0], b.pending...)
	b.stats.LastFrameDraws = uint32(len(b.pending))
	b.stats.DrawCalls += uint64(len(b.pending))
	b.stats.Frames++
	b.frames.Advance()
	return nil
}

func (b *Backend) CreateGeometry(geometry *metadata.Geometry, vertices []metadata.Vertex3D, indices []uint32) error {
	if len(vertices) == 0 {
		return fmt.Errorf("geometry %q has no vertices", geometry.Name)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return fmt.Errorf("geometry %q index %d out of range", geometry.Name, i)
		}
	}
	if geometry.InternalID != metadata.InvalidID {
		// re-upload keeps the slot
		if _, ok := b.geometries[geometry.InternalID]; !ok {
			geometry.InternalID = metadata.InvalidID
		}
	}
	if geometry.InternalID == metadata.InvalidID {
		geometry.InternalID = b.nextGeometry
		b.nextGeometry++
	}
	geometry.VertexCount = uint32(len(vertices))
	geometry.IndexCount = uint32(len(indices))
	geometry.Generation++
	b.geometries[geometry.InternalID] = geometry
	return nil
}

func (b *Backend) DestroyGeometry(geometry *metadata.Geometry) {
	delete(b.geometries, geometry.InternalID)
	geometry.InternalID = metadata.InvalidID
	geometry.Generation = metadata.InvalidGeneration
}

func (b *Backend) CreateTexture(texture *metadata.Texture, pixels []uint8) error {
	if want := int(texture.Width * texture.Height * 4); len(pixels) != want {
		return fmt.Errorf("texture %q expects %d bytes, got %d", texture.Name, want, len(pixels))
	}
	if _, ok := b.textures[texture.Name]; !ok && uint32(len(b.textures)) >= renderer.MaxTextureCount {
		return fmt.Errorf("texture %q: limit of %d reached", texture.Name, renderer.MaxTextureCount)
	}
	texture.Generation++
	b.textures[texture.Name] = texture
	return nil
}

func (b *Backend) DestroyTexture(texture *metadata.Texture) {
	delete(b.textures, texture.Name)
	texture.Generation = metadata.InvalidGeneration
}

func (b *Backend) SetClearColor(color mgl32.Vec4) {
	b.clearColor = color
}

func (b *Backend) ClearColor() mgl32.Vec4 {
	return b.clearColor
}

// CurrentFrame is the frame-in-flight index the next BeginFrame records into.
func (b *Backend) CurrentFrame() uint32 {
	if b.frames == nil {
		return 0
	}
	return b.frames.Current()
}

func (b *Backend) Stats() Stats {
	s := b.stats
	s.Geometries = len(b.geometries)
	s.Textures = len(b.textures)
	return s
}
