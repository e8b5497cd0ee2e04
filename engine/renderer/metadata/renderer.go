package metadata

import "github.com/go-gl/mathgl/mgl32"

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief Initial framebuffer size. */
	Width, Height uint32
	/** @brief Enables the Khronos validation layer and debug report. */
	Validation bool
	/** @brief FIFO presentation when set, mailbox (or immediate) otherwise. */
	VSync      bool
	ClearColor mgl32.Vec4
	/** @brief The loaded builtin shader stages. */
	Shader *ShaderResourceData
}

/**
 * @brief A structure which is generated by the application and sent once
 * to the renderer to render a given frame. Consists of any data required,
 * such as delta time and a collection of views to be rendered.
 */
type RenderPacket struct {
	DeltaTime float64
	/** An array of ViewPackets to be rendered, in order. */
	Views []*RenderViewPacket
}

// Reset empties the packet so it can be reused next frame.
func (p *RenderPacket) Reset(deltaTime float64) {
	p.DeltaTime = deltaTime
	p.Views = p.Views[:0]
}

// AddView appends a view and returns it for filling.
func (p *RenderPacket) AddView(name string, projection, view mgl32.Mat4) *RenderViewPacket {
	v := &RenderViewPacket{
		Name:             name,
		ProjectionMatrix: projection,
		ViewMatrix:       view,
	}
	p.Views = append(p.Views, v)
	return v
}

// DrawCount is the number of geometries across all views.
func (p *RenderPacket) DrawCount() int {
	n := 0
	for _, v := range p.Views {
		n += len(v.Geometries)
	}
	return n
}

/**
 * @brief A packet for and generated by a render view, which contains
 * data about what is to be rendered.
 */
type RenderViewPacket struct {
	Name string
	/** @brief The current view matrix. */
	ViewMatrix mgl32.Mat4
	/** @brief The current projection matrix. */
	ProjectionMatrix mgl32.Mat4
	/** @brief The Geometries to be drawn. */
	Geometries []GeometryRenderData
}

func (v *RenderViewPacket) Add(model mgl32.Mat4, geometry *Geometry, texture *Texture, tint mgl32.Vec4) {
	v.Geometries = append(v.Geometries, GeometryRenderData{
		Model:    model,
		Geometry: geometry,
		Texture:  texture,
		Tint:     tint,
	})
}

type GeometryRenderData struct {
	Model    mgl32.Mat4
	Geometry *Geometry
	// nil selects the default texture.
	Texture *Texture
	Tint    mgl32.Vec4
}

// DrawCall is what a backend receives: the model already folded into the
// view projection.
type DrawCall struct {
	MVP      mgl32.Mat4
	Tint     mgl32.Vec4
	Geometry *Geometry
	Texture  *Texture
}

// PushConstantSize is the size of the MVP plus tint block the builtin shader reads.
const PushConstantSize = 16*4 + 4*4
