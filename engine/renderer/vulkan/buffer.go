package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"
)

type VulkanBuffer struct {
	Handle vk.Buffer
	Memory vk.DeviceMemory
	Size   vk.DeviceSize
	Usage  vk.BufferUsageFlags
}

func BufferCreate(context *VulkanContext, size vk.DeviceSize, usage vk.BufferUsageFlags, memoryFlags vk.MemoryPropertyFlags) (*VulkanBuffer, error) {
	outBuffer := &VulkanBuffer{Size: size, Usage: usage}
	device := context.Device.LogicalDevice

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var handle vk.Buffer
	if res := vk.CreateBuffer(device, &bufferInfo, context.Allocator, &handle); res != vk.Success {
		return nil, fmt.Errorf("failed to create buffer: %w", vk.Error(res))
	}
	outBuffer.Handle = handle

	var requirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, handle, &requirements)
	requirements.Deref()

	memoryType, err := context.FindMemoryIndex(requirements.MemoryTypeBits, memoryFlags)
	if err != nil {
		outBuffer.Destroy(context)
		return nil, fmt.Errorf("buffer memory: %w", err)
	}

	allocateInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memoryType,
	}
	var memory vk.DeviceMemory
	if res := vk.AllocateMemory(device, &allocateInfo, context.Allocator, &memory); res != vk.Success {
		outBuffer.Destroy(context)
		return nil, fmt.Errorf("failed to allocate buffer memory: %w", vk.Error(res))
	}
	outBuffer.Memory = memory

	if res := vk.BindBufferMemory(device, handle, memory, 0); res != vk.Success {
		outBuffer.Destroy(context)
		return nil, fmt.Errorf("failed to bind buffer memory: %w", vk.Error(res))
	}
	return outBuffer, nil
}

// LoadData copies data into a host visible buffer.
func (vb *VulkanBuffer) LoadData(context *VulkanContext, data []byte) error {
	if vk.DeviceSize(len(data)) > vb.Size {
		return fmt.Errorf("buffer of %d bytes cannot hold %d bytes", vb.Size, len(data))
	}
	var pData unsafe.Pointer
	if res := vk.MapMemory(context.Device.LogicalDevice, vb.Memory, 0, vk.DeviceSize(len(data)), 0, &pData); res != vk.Success {
		return fmt.Errorf("failed to map buffer memory: %w", vk.Error(res))
	}
	vk.Memcopy(pData, data)
	vk.UnmapMemory(context.Device.LogicalDevice, vb.Memory)
	return nil
}

// CopyTo records a full copy of vb into dst on commandBuffer.
func (vb *VulkanBuffer) CopyTo(commandBuffer *VulkanCommandBuffer, dst *VulkanBuffer) {
	copyRegion := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      vb.Size,
	}
	vk.CmdCopyBuffer(commandBuffer.Handle, vb.Handle, dst.Handle, 1, []vk.BufferCopy{copyRegion})
}

func (vb *VulkanBuffer) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if vb.Handle != nil {
		vk.DestroyBuffer(device, vb.Handle, context.Allocator)
		vb.Handle = nil
	}
	if vb.Memory != nil {
		vk.FreeMemory(device, vb.Memory, context.Allocator)
		vb.Memory = nil
	}
}

// uploadViaStaging creates a device local buffer of the given usage and fills
// it with data through a host visible staging buffer.
func uploadViaStaging(context *VulkanContext, usage vk.BufferUsageFlags, data []byte) (*VulkanBuffer, error) {
	size := vk.DeviceSize(len(data))
	staging, err := BufferCreate(
		context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the staging buffer: %w", err)
	}
	defer staging.Destroy(context)

	if err := staging.LoadData(context, data); err != nil {
		return nil, err
	}

	buffer, err := BufferCreate(
		context,
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return nil, err
	}

	err = runSingleUse(context, func(cb *VulkanCommandBuffer) error {
		staging.CopyTo(cb, buffer)
		return nil
	})
	if err != nil {
		buffer.Destroy(context)
		return nil, fmt.Errorf("failed to copy staging buffer: %w", err)
	}
	return buffer, nil
}

func sliceToBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}
