package metadata

type ResourceType int

const (
	ResourceTypeNone ResourceType = iota
	// Raw bytes, or SPIR-V words when the file is a compiled shader.
	ResourceTypeBinary
	// Text such as GLSL sources.
	ResourceTypeText
	// Pixel data, generated or read from disk.
	ResourceTypeImage
	// A vertex/fragment SPIR-V pair.
	ResourceTypeShader
	// Engine configuration.
	ResourceTypeConfig
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeText:
		return "text"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeConfig:
		return "config"
	default:
		return "none"
	}
}

// Resource is what every loader hands back.
type Resource struct {
	Name     string
	FullPath string
	Type     ResourceType
	DataSize uint64
	Data     interface{}
}

// ShaderResourceData holds the SPIR-V words of a vertex and fragment stage.
type ShaderResourceData struct {
	Vertex   []uint32
	Fragment []uint32
}
