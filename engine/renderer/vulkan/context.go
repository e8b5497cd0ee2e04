package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/orbit/engine/renderer"
)

// SurfaceProvider is the part of the window the backend needs to bootstrap
// Vulkan. *platform.Platform implements it.
type SurfaceProvider interface {
	RequiredInstanceExtensions() []string
	InstanceProcAddress() unsafe.Pointer
	CreateSurface(instance interface{}) (uintptr, error)
}

type VulkanContext struct {
	// The framebuffer's current width.
	FramebufferWidth uint32
	// The framebuffer's current height.
	FramebufferHeight uint32
	// Current generation of framebuffer size. If it does not match
	// FramebufferSizeLastGeneration, a new swapchain should be created.
	FramebufferSizeGeneration uint64
	// The generation of the framebuffer when it was last created.
	FramebufferSizeLastGeneration uint64

	Instance  vk.Instance
	Allocator *vk.AllocationCallbacks
	Surface   vk.Surface

	debugReport vk.DebugReportCallback

	Device *VulkanDevice

	Swapchain      *VulkanSwapchain
	MainRenderpass *VulkanRenderpass
	Pipeline       *VulkanPipeline
	Descriptors    *VulkanDescriptors

	// One per swapchain image.
	GraphicsCommandBuffers []*VulkanCommandBuffer

	// One per frame in flight.
	ImageAvailableSemaphores []vk.Semaphore
	// One per frame in flight, signalled when the queue finished the frame.
	QueueCompleteSemaphores []vk.Semaphore
	InFlightFences          []*VulkanFence

	// Frames tracks the current frame in flight and which frame last used
	// each swapchain image.
	Frames *renderer.FrameRing

	ImageIndex   uint32
	CurrentFrame uint32

	locks *VulkanLockPool
}

// SwapchainStale reports whether the swapchain predates the last resize.
func (vc *VulkanContext) SwapchainStale() bool {
	return vc.FramebufferSizeGeneration != vc.FramebufferSizeLastGeneration
}

func (vc *VulkanContext) FindMemoryIndex(typeFilter uint32, propertyFlags vk.MemoryPropertyFlags) (uint32, error) {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(vc.Device.PhysicalDevice, &memoryProperties)
	memoryProperties.Deref()

	for i := uint32(0); i < memoryProperties.MemoryTypeCount; i++ {
		memoryType := memoryProperties.MemoryTypes[i]
		memoryType.Deref()
		// Check each memory type to see if its bit is set to 1.
		if typeFilter&(1<<i) != 0 && memoryType.PropertyFlags&propertyFlags == propertyFlags {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unable to find a suitable memory type (filter %#x, flags %#x)", typeFilter, propertyFlags)
}
