package metadata

const (
	/** @brief The default texture name. */
	DefaultTextureName string = "default"
	/** @brief The builtin checkerboard texture name. */
	CheckerTextureName string = "checker"
)

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief Unique resource name, used as the backend key. */
	Name   string
	Width  uint32
	Height uint32
	/** @brief Always 4: textures are uploaded as RGBA8. */
	ChannelCount    uint8
	HasTransparency bool
	/** @brief Incremented every time the data is reloaded. InvalidGeneration until uploaded. */
	Generation uint32
	/** @brief The raw texture data (pixels). */
	InternalData interface{}
}
