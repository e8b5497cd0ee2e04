package vulkan

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

/**
 * @brief Internal buffer data for geometry. Every geometry owns a device
 * local vertex buffer and, when indexed, an index buffer.
 */
type vulkanGeometryData struct {
	/** @brief The geometry identifier this slot belongs to. */
	ID uint32
	/** @brief Incremented every time the geometry data changes. */
	Generation uint32

	VertexCount       uint32
	VertexElementSize uint32
	VertexBuffer      *VulkanBuffer

	IndexCount       uint32
	IndexElementSize uint32
	IndexBuffer      *VulkanBuffer
}

func (g *vulkanGeometryData) inUse() bool {
	return g.VertexBuffer != nil
}

// release frees the buffers. The device must be idle.
func (g *vulkanGeometryData) release(context *VulkanContext) {
	if g.VertexBuffer != nil {
		g.VertexBuffer.Destroy(context)
		g.VertexBuffer = nil
	}
	if g.IndexBuffer != nil {
		g.IndexBuffer.Destroy(context)
		g.IndexBuffer = nil
	}
	g.ID = metadata.InvalidID
	g.VertexCount = 0
	g.IndexCount = 0
}

// draw records the bind and draw commands for an uploaded geometry.
func (g *vulkanGeometryData) draw(commandBuffer vk.CommandBuffer) {
	vk.CmdBindVertexBuffers(commandBuffer, 0, 1, []vk.Buffer{g.VertexBuffer.Handle}, []vk.DeviceSize{0})
	if g.IndexCount > 0 {
		vk.CmdBindIndexBuffer(commandBuffer, g.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
		vk.CmdDrawIndexed(commandBuffer, g.IndexCount, 1, 0, 0, 0)
		return
	}
	vk.CmdDraw(commandBuffer, g.VertexCount, 1, 0, 0)
}
