package metadata

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

/** @brief The name of the default geometry. */
const DefaultGeometryName string = "default"

/** @brief The name of the builtin unit quad used for sprites. */
const QuadGeometryName string = "quad"

/** @brief The name of the builtin unit cube. */
const CubeGeometryName string = "cube"

const InvalidID uint32 = ^uint32(0)

// InvalidGeneration marks a geometry or texture without GPU data. The first
// upload wraps it to 0.
const InvalidGeneration uint32 = ^uint32(0)

// Vertex3D matches the vertex input of the builtin shader: location 0 is the
// position, 1 the colour and 2 the texture coordinate.
type Vertex3D struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Texcoord mgl32.Vec2
}

const Vertex3DSize = uint32(unsafe.Sizeof(Vertex3D{}))

/**
 * @brief Represents the configuration for a geometry.
 */
type GeometryConfig struct {
	Name     string
	Vertices []Vertex3D
	Indices  []uint32

	Center     mgl32.Vec3
	MinExtents mgl32.Vec3
	MaxExtents mgl32.Vec3
}

/**
 * @brief Represents actual geometry in the world.
 */
type Geometry struct {
	/** @brief The geometry identifier. */
	ID uint32
	/** @brief The internal geometry identifier, used by the renderer backend to map to internal resources. */
	InternalID uint32
	/** @brief Incremented every time the data is uploaded. InvalidGeneration until then. */
	Generation uint32
	Name       string
	Center     mgl32.Vec3
	MinExtents mgl32.Vec3
	MaxExtents mgl32.Vec3

	VertexCount uint32
	IndexCount  uint32
}

// ComputeExtents fills Center and the extents from the vertices.
func (c *GeometryConfig) ComputeExtents() {
	if len(c.Vertices) == 0 {
		return
	}
	min, max := c.Vertices[0].Position, c.Vertices[0].Position
	for _, v := range c.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < min[i] {
				min[i] = v.Position[i]
			}
			if v.Position[i] > max[i] {
				max[i] = v.Position[i]
			}
		}
	}
	c.MinExtents, c.MaxExtents = min, max
	c.Center = min.Add(max).Mul(0.5)
}

// GenerateQuad builds a quad in the XY plane centred on the origin.
func GenerateQuad(name string, width, height, tileX, tileY float32) *GeometryConfig {
	if tileX == 0 {
		tileX = 1
	}
	if tileY == 0 {
		tileY = 1
	}
	hw, hh := width*0.5, height*0.5
	white := mgl32.Vec3{1, 1, 1}
	cfg := &GeometryConfig{
		Name: name,
		Vertices: []Vertex3D{
			{Position: mgl32.Vec3{-hw, -hh, 0}, Color: white, Texcoord: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{hw, -hh, 0}, Color: white, Texcoord: mgl32.Vec2{tileX, 0}},
			{Position: mgl32.Vec3{hw, hh, 0}, Color: white, Texcoord: mgl32.Vec2{tileX, tileY}},
			{Position: mgl32.Vec3{-hw, hh, 0}, Color: white, Texcoord: mgl32.Vec2{0, tileY}},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
	cfg.ComputeExtents()
	return cfg
}

// GeneratePlane builds a quad lying in the XZ plane, facing +Y.
func GeneratePlane(name string, width, depth, tileX, tileY float32) *GeometryConfig {
	cfg := GenerateQuad(name, width, depth, tileX, tileY)
	for i := range cfg.Vertices {
		p := cfg.Vertices[i].Position
		cfg.Vertices[i].Position = mgl32.Vec3{p.X(), 0, p.Y()}
	}
	cfg.ComputeExtents()
	return cfg
}

// GenerateCube builds a box with per-face texture coordinates and a colour per face.
func GenerateCube(name string, width, height, depth, tileX, tileY float32) *GeometryConfig {
	if tileX == 0 {
		tileX = 1
	}
	if tileY == 0 {
		tileY = 1
	}
	hw, hh, hd := width*0.5, height*0.5, depth*0.5

	type face struct {
		corners [4]mgl32.Vec3
		color   mgl32.Vec3
	}
	faces := []face{
		// front (+Z)
		{[4]mgl32.Vec3{{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd}}, mgl32.Vec3{1, 0.6, 0.6}},
		// back (-Z)
		{[4]mgl32.Vec3{{hw, -hh, -hd}, {-hw, -hh, -hd}, {-hw, hh, -hd}, {hw, hh, -hd}}, mgl32.Vec3{0.6, 1, 0.6}},
		// left (-X)
		{[4]mgl32.Vec3{{-hw, -hh, -hd}, {-hw, -hh, hd}, {-hw, hh, hd}, {-hw, hh, -hd}}, mgl32.Vec3{0.6, 0.6, 1}},
		// right (+X)
		{[4]mgl32.Vec3{{hw, -hh, hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {hw, hh, hd}}, mgl32.Vec3{1, 1, 0.6}},
		// bottom (-Y)
		{[4]mgl32.Vec3{{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, -hh, hd}, {-hw, -hh, hd}}, mgl32.Vec3{1, 0.6, 1}},
		// top (+Y)
		{[4]mgl32.Vec3{{-hw, hh, hd}, {hw, hh, hd}, {hw, hh, -hd}, {-hw, hh, -hd}}, mgl32.Vec3{0.6, 1, 1}},
	}
	uvs := [4]mgl32.Vec2{{0, 0}, {tileX, 0}, {tileX, tileY}, {0, tileY}}

	cfg := &GeometryConfig{
		Name:     name,
		Vertices: make([]Vertex3D, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(cfg.Vertices))
		for i, c := range f.corners {
			cfg.Vertices = append(cfg.Vertices, Vertex3D{Position: c, Color: f.color, Texcoord: uvs[i]})
		}
		cfg.Indices = append(cfg.Indices, base, base+1, base+2, base+2, base+3, base)
	}
	cfg.ComputeExtents()
	return cfg
}
