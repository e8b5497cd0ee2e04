package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// Resource limits every backend honours. The geometry and texture systems
// never register more than this.
const (
	MaxGeometryCount uint32 = 4096
	MaxTextureCount  uint32 = 1024
)

type RendererBackend interface {
	Initialize(config *metadata.RendererBackendConfig) error
	Shutdown() error
	Resized(width, height uint32) error
	// BeginFrame returns core.ErrSwapchainBooting when the frame has to be
	// skipped, e.g. while the swapchain is being recreated.
	BeginFrame(deltaTime float64) error
	DrawGeometry(call *metadata.DrawCall) error
	EndFrame(deltaTime float64) error
	CreateGeometry(geometry *metadata.Geometry, vertices []metadata.Vertex3D, indices []uint32) error
	DestroyGeometry(geometry *metadata.Geometry)
	CreateTexture(texture *metadata.Texture, pixels []uint8) error
	DestroyTexture(texture *metadata.Texture)
	SetClearColor(color mgl32.Vec4)
}

type RendererType uint8

const (
	Vulkan RendererType = iota
	Headless
)

func (t RendererType) String() string {
	switch t {
	case Vulkan:
		return "vulkan"
	case Headless:
		return "headless"
	default:
		return "unknown"
	}
}
