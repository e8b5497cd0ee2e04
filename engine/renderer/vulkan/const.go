package vulkan

import "github.com/spaghettifunk/orbit/engine/renderer"

// Max number of simultaneously uploaded geometries.
const VULKAN_MAX_GEOMETRY_COUNT = renderer.MaxGeometryCount

// Max number of textures the texture system can hand to the backend.
const VULKAN_MAX_TEXTURE_COUNT = renderer.MaxTextureCount

// Descriptor sets the backend keeps for itself, i.e. the fallback texture.
const VULKAN_RESERVED_TEXTURE_SETS uint32 = 1

// Binding of the combined image sampler in set 0 of the builtin shader.
const VULKAN_SAMPLER_BINDING uint32 = 1

// descriptorPoolSetCount sizes the descriptor pool: one set per texture plus
// the reserved ones.
func descriptorPoolSetCount() uint32 {
	return VULKAN_MAX_TEXTURE_COUNT + VULKAN_RESERVED_TEXTURE_SETS
}
