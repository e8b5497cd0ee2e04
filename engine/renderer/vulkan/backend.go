package vulkan

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/orbit/engine/core"
	"github.com/spaghettifunk/orbit/engine/renderer"
	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

const validationLayerName = "VK_LAYER_KHRONOS_validation"

// VK_INSTANCE_CREATE_ENUMERATE_PORTABILITY_BIT_KHR, needed by MoltenVK.
const instanceCreateEnumeratePortability vk.InstanceCreateFlags = 0x00000001

type pushConstants struct {
	MVP  mgl32.Mat4
	Tint mgl32.Vec4
}

type VulkanRenderer struct {
	provider    SurfaceProvider
	FrameNumber uint64
	context     *VulkanContext
	config      *metadata.RendererBackendConfig

	// Last size reported by the window. Applied on the next swapchain recreation.
	cachedFramebufferWidth  uint32
	cachedFramebufferHeight uint32

	validation   bool
	frameStarted bool

	geometries     []vulkanGeometryData
	textures       map[*vulkanTexture]struct{}
	defaultTexture *vulkanTexture
}

func New(provider SurfaceProvider) *VulkanRenderer {
	return &VulkanRenderer{
		provider: provider,
		context: &VulkanContext{
			locks: NewVulkanLockPool(),
		},
		textures: make(map[*vulkanTexture]struct{}),
	}
}

func (vr *VulkanRenderer) Initialize(config *metadata.RendererBackendConfig) error {
	if config.Width == 0 || config.Height == 0 {
		return fmt.Errorf("invalid framebuffer size %dx%d: %w", config.Width, config.Height, core.ErrInvalidConfig)
	}
	vr.config = config
	vr.validation = config.Validation

	procAddr := vr.provider.InstanceProcAddress()
	if procAddr == nil {
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)
	if err := vk.Init(); err != nil {
		return fmt.Errorf("failed to initialize vk: %w", err)
	}

	ctx := vr.context
	ctx.Allocator = nil
	ctx.FramebufferWidth = config.Width
	ctx.FramebufferHeight = config.Height
	vr.cachedFramebufferWidth = config.Width
	vr.cachedFramebufferHeight = config.Height

	if err := vr.createInstance(config.ApplicationName); err != nil {
		return err
	}
	core.LogInfo("Vulkan Instance created.")

	if vr.validation {
		core.LogDebug("Creating Vulkan debugger...")
		debugCreateInfo := vk.DebugReportCallbackCreateInfo{
			SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
			Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
			PfnCallback: dbgCallbackFunc,
		}
		var dbg vk.DebugReportCallback
		if err := vk.Error(vk.CreateDebugReportCallback(ctx.Instance, &debugCreateInfo, ctx.Allocator, &dbg)); err != nil {
			return fmt.Errorf("vk.CreateDebugReportCallback failed: %w", err)
		}
		ctx.debugReport = dbg
		core.LogDebug("Vulkan debugger created.")
	}

	core.LogDebug("Creating Vulkan surface...")
	surface, err := vr.provider.CreateSurface(ctx.Instance)
	if err != nil {
		return fmt.Errorf("vulkan surface creation failed: %w", err)
	}
	ctx.Surface = vk.SurfaceFromPointer(surface)

	if err := DeviceCreate(ctx); err != nil {
		return fmt.Errorf("failed to create device: %w", err)
	}

	sc, err := SwapchainCreate(ctx, ctx.FramebufferWidth, ctx.FramebufferHeight, config.VSync)
	if err != nil {
		return err
	}
	ctx.Swapchain = sc
	ctx.FramebufferWidth = sc.Extent.Width
	ctx.FramebufferHeight = sc.Extent.Height

	rp, err := RenderpassCreate(
		ctx,
		0, 0, float32(ctx.FramebufferWidth), float32(ctx.FramebufferHeight),
		config.ClearColor,
		1.0,
		0)
	if err != nil {
		return err
	}
	ctx.MainRenderpass = rp

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}
	if err := vr.createCommandBuffers(); err != nil {
		return err
	}
	if err := vr.createSyncObjects(); err != nil {
		return err
	}
	ctx.Frames = renderer.NewFrameRing(ctx.Swapchain.ImageCount)
	ctx.CurrentFrame = ctx.Frames.Current()

	descriptors, err := DescriptorsCreate(ctx)
	if err != nil {
		return err
	}
	ctx.Descriptors = descriptors

	pipeline, err := builtinPipelineCreate(ctx, config.Shader)
	if err != nil {
		return fmt.Errorf("builtin pipeline: %w", err)
	}
	ctx.Pipeline = pipeline

	// Draws without a texture sample this, the tint does the rest.
	white, err := textureCreate(ctx, 1, 1, []uint8{255, 255, 255, 255})
	if err != nil {
		return fmt.Errorf("fallback texture: %w", err)
	}
	vr.defaultTexture = white

	vr.geometries = make([]vulkanGeometryData, VULKAN_MAX_GEOMETRY_COUNT)
	for i := range vr.geometries {
		vr.geometries[i].ID = metadata.InvalidID
	}

	core.LogInfo("Vulkan renderer initialized successfully.")
	return nil
}

func (vr *VulkanRenderer) createInstance(appName string) error {
	ctx := vr.context
	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Orbit Engine"),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	// The window's list already contains VK_KHR_surface.
	requiredExtensions := append([]string{}, vr.provider.RequiredInstanceExtensions()...)
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= instanceCreateEnumeratePortability
	}

	var layers []string
	if vr.validation {
		ok, err := validationLayerAvailable()
		if err != nil {
			return err
		}
		if ok {
			layers = append(layers, validationLayerName)
			requiredExtensions = append(requiredExtensions, vk.ExtDebugReportExtensionName)
		} else {
			core.LogWarn("Validation requested but %s is not installed, continuing without it.", validationLayerName)
			vr.validation = false
		}
	}

	core.LogDebug("Required extensions:")
	for _, e := range requiredExtensions {
		core.LogDebug("  %s", e)
	}

	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)
	createInfo.EnabledLayerCount = uint32(len(layers))
	createInfo.PpEnabledLayerNames = VulkanSafeStrings(layers)

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, ctx.Allocator, &instance); res != vk.Success {
		return fmt.Errorf("failed in creating the Vulkan Instance with error `%s`", VulkanResultString(res, true))
	}
	ctx.Instance = instance
	return vk.InitInstance(ctx.Instance)
}

func validationLayerAvailable() (bool, error) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return false, fmt.Errorf("failed to enumerate instance layers: %w", vk.Error(res))
	}
	available := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, available); res != vk.Success {
		return false, fmt.Errorf("failed to enumerate instance layers: %w", vk.Error(res))
	}
	for i := range available {
		available[i].Deref()
		if vk.ToString(available[i].LayerName[:]) == validationLayerName {
			return true, nil
		}
	}
	return false, nil
}

func (vr *VulkanRenderer) createSyncObjects() error {
	ctx := vr.context
	device := ctx.Device.LogicalDevice
	ctx.ImageAvailableSemaphores = make([]vk.Semaphore, renderer.MaxFramesInFlight)
	ctx.QueueCompleteSemaphores = make([]vk.Semaphore, renderer.MaxFramesInFlight)
	ctx.InFlightFences = make([]*VulkanFence, renderer.MaxFramesInFlight)

	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	for i := 0; i < renderer.MaxFramesInFlight; i++ {
		if res := vk.CreateSemaphore(device, &semaphoreCreateInfo, ctx.Allocator, &ctx.ImageAvailableSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create image available semaphore: %w", vk.Error(res))
		}
		if res := vk.CreateSemaphore(device, &semaphoreCreateInfo, ctx.Allocator, &ctx.QueueCompleteSemaphores[i]); res != vk.Success {
			return fmt.Errorf("failed to create queue complete semaphore: %w", vk.Error(res))
		}
		// Signalled so the first wait on each frame returns immediately.
		f, err := NewFence(ctx, true)
		if err != nil {
			return err
		}
		ctx.InFlightFences[i] = f
	}
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	ctx := vr.context
	if ctx.Device != nil && ctx.Device.LogicalDevice != nil {
		vr.destroyDeviceObjects()
	}

	core.LogDebug("Destroying Vulkan device...")
	DeviceDestroy(ctx)

	if ctx.Instance == nil {
		return nil
	}
	if ctx.Surface != vk.NullSurface {
		core.LogDebug("Destroying Vulkan surface...")
		vk.DestroySurface(ctx.Instance, ctx.Surface, ctx.Allocator)
		ctx.Surface = vk.NullSurface
	}

	if ctx.debugReport != vk.NullDebugReportCallback {
		core.LogDebug("Destroying Vulkan debugger...")
		vk.DestroyDebugReportCallback(ctx.Instance, ctx.debugReport, ctx.Allocator)
		ctx.debugReport = vk.NullDebugReportCallback
	}

	core.LogDebug("Destroying Vulkan instance...")
	vk.DestroyInstance(ctx.Instance, ctx.Allocator)
	ctx.Instance = nil
	return nil
}

// destroyDeviceObjects releases everything created on the logical device,
// in the opposite order of creation.
func (vr *VulkanRenderer) destroyDeviceObjects() {
	ctx := vr.context
	vk.DeviceWaitIdle(ctx.Device.LogicalDevice)

	for t := range vr.textures {
		t.destroy(ctx)
	}
	vr.textures = make(map[*vulkanTexture]struct{})
	if vr.defaultTexture != nil {
		vr.defaultTexture.destroy(ctx)
		vr.defaultTexture = nil
	}
	for i := range vr.geometries {
		vr.geometries[i].release(ctx)
	}

	if ctx.Pipeline != nil {
		ctx.Pipeline.Destroy(ctx)
		ctx.Pipeline = nil
	}
	if ctx.Descriptors != nil {
		ctx.Descriptors.Destroy(ctx)
		ctx.Descriptors = nil
	}

	for i := range ctx.InFlightFences {
		if ctx.ImageAvailableSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.ImageAvailableSemaphores[i], ctx.Allocator)
		}
		if ctx.QueueCompleteSemaphores[i] != vk.NullSemaphore {
			vk.DestroySemaphore(ctx.Device.LogicalDevice, ctx.QueueCompleteSemaphores[i], ctx.Allocator)
		}
		if ctx.InFlightFences[i] != nil {
			ctx.InFlightFences[i].Destroy(ctx)
		}
	}
	ctx.ImageAvailableSemaphores = nil
	ctx.QueueCompleteSemaphores = nil
	ctx.InFlightFences = nil

	vr.freeCommandBuffers()

	if ctx.Swapchain != nil {
		ctx.Swapchain.SwapchainDestroy(ctx)
		ctx.Swapchain = nil
	}
	if ctx.MainRenderpass != nil {
		ctx.MainRenderpass.RenderpassDestroy(ctx)
		ctx.MainRenderpass = nil
	}
}

func (vr *VulkanRenderer) Resized(width, height uint32) error {
	// Update the "framebuffer size generation", a counter which indicates when the
	// framebuffer size has been updated.
	vr.cachedFramebufferWidth = width
	vr.cachedFramebufferHeight = height
	vr.context.FramebufferSizeGeneration++

	core.LogInfo("Vulkan renderer backend->resized: w/h/gen: %d/%d/%d", width, height, vr.context.FramebufferSizeGeneration)
	return nil
}

func (vr *VulkanRenderer) SetClearColor(color mgl32.Vec4) {
	if vr.config != nil {
		vr.config.ClearColor = color
	}
	if vr.context.MainRenderpass != nil {
		vr.context.MainRenderpass.ClearColor = color
	}
}

func (vr *VulkanRenderer) BeginFrame(deltaTime float64) error {
	ctx := vr.context
	if ctx.Device == nil || ctx.Swapchain == nil {
		return core.ErrNotInitialized
	}
	if vr.frameStarted {
		return fmt.Errorf("begin frame called twice")
	}

	// A resize or an out of date swapchain bumps the generation. Recreation
	// runs to completion here, so the frame is simply skipped.
	if ctx.SwapchainStale() {
		if err := vr.recreateSwapchain(); err != nil && !errors.Is(err, core.ErrSwapchainBooting) {
			return err
		}
		core.LogDebug("Resized, booting.")
		return core.ErrSwapchainBooting
	}

	current := ctx.Frames.Current()
	ctx.CurrentFrame = current

	// Wait for the GPU to finish the last use of this frame's resources.
	if err := ctx.InFlightFences[current].Wait(ctx, math.MaxUint64); err != nil {
		return fmt.Errorf("in-flight fence: %w", err)
	}

	imageIndex, ok, err := ctx.Swapchain.SwapchainAcquireNextImageIndex(ctx, math.MaxUint64, ctx.ImageAvailableSemaphores[current], vk.NullFence)
	if err != nil {
		return err
	}
	if !ok {
		ctx.FramebufferSizeGeneration++
		if err := vr.recreateSwapchain(); err != nil && !errors.Is(err, core.ErrSwapchainBooting) {
			return err
		}
		return core.ErrSwapchainBooting
	}
	ctx.ImageIndex = imageIndex

	// Another frame in flight may still be rendering into this image.
	if previous, inUse := ctx.Frames.Acquire(imageIndex); inUse && previous != current {
		if err := ctx.InFlightFences[previous].Wait(ctx, math.MaxUint64); err != nil {
			return fmt.Errorf("image fence: %w", err)
		}
	}

	commandBuffer := ctx.GraphicsCommandBuffers[imageIndex]
	if err := commandBuffer.Reset(); err != nil {
		return err
	}
	if err := commandBuffer.Begin(false, false, false); err != nil {
		return err
	}

	// The projection already flips Y for Vulkan clip space.
	viewport := vk.Viewport{
		X:        0.0,
		Y:        0.0,
		Width:    float32(ctx.FramebufferWidth),
		Height:   float32(ctx.FramebufferHeight),
		MinDepth: 0.0,
		MaxDepth: 1.0,
	}
	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{Width: ctx.FramebufferWidth, Height: ctx.FramebufferHeight},
	}

	ctx.MainRenderpass.W = float32(ctx.FramebufferWidth)
	ctx.MainRenderpass.H = float32(ctx.FramebufferHeight)
	ctx.MainRenderpass.RenderpassBegin(commandBuffer, ctx.Swapchain.Framebuffers[imageIndex].Handle)

	ctx.Pipeline.Bind(commandBuffer, vk.PipelineBindPointGraphics)
	vk.CmdSetViewport(commandBuffer.Handle, 0, 1, []vk.Viewport{viewport})
	vk.CmdSetScissor(commandBuffer.Handle, 0, 1, []vk.Rect2D{scissor})

	vr.frameStarted = true
	return nil
}

func (vr *VulkanRenderer) DrawGeometry(call *metadata.DrawCall) error {
	if !vr.frameStarted {
		return core.ErrFrameNotStarted
	}
	ctx := vr.context
	g := call.Geometry
	if g == nil || g.InternalID >= uint32(len(vr.geometries)) || !vr.geometries[g.InternalID].inUse() {
		name := "<nil>"
		if g != nil {
			name = g.Name
		}
		return fmt.Errorf("geometry %q was never uploaded", name)
	}

	texture := vr.defaultTexture
	if call.Texture != nil {
		vt, ok := internalTexture(call.Texture)
		if !ok {
			return fmt.Errorf("texture %q was never uploaded", call.Texture.Name)
		}
		texture = vt
	}

	commandBuffer := ctx.GraphicsCommandBuffers[ctx.ImageIndex].Handle
	layout := ctx.Pipeline.PipelineLayout
	vk.CmdBindDescriptorSets(commandBuffer, vk.PipelineBindPointGraphics, layout, 0, 1, []vk.DescriptorSet{texture.Set}, 0, nil)

	pc := pushConstants{MVP: call.MVP, Tint: call.Tint}
	vk.CmdPushConstants(
		commandBuffer,
		layout,
		vk.ShaderStageFlags(vk.ShaderStageVertexBit)|vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		0,
		metadata.PushConstantSize,
		unsafe.Pointer(&pc))

	vr.geometries[g.InternalID].draw(commandBuffer)
	return nil
}

func (vr *VulkanRenderer) EndFrame(deltaTime float64) error {
	if !vr.frameStarted {
		return core.ErrFrameNotStarted
	}
	vr.frameStarted = false

	ctx := vr.context
	current := ctx.CurrentFrame
	commandBuffer := ctx.GraphicsCommandBuffers[ctx.ImageIndex]

	ctx.MainRenderpass.RenderpassEnd(commandBuffer)
	if err := commandBuffer.End(); err != nil {
		return err
	}

	if err := ctx.InFlightFences[current].Reset(ctx); err != nil {
		return err
	}

	// Colour writes wait for the image to be available; the fence tells the
	// CPU when this frame's resources can be reused.
	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{ctx.ImageAvailableSemaphores[current]},
		PWaitDstStageMask:    []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{commandBuffer.Handle},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{ctx.QueueCompleteSemaphores[current]},
	}
	err := ctx.locks.SafeQueueCall(uint32(ctx.Device.GraphicsQueueIndex), func() error {
		if res := vk.QueueSubmit(ctx.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, ctx.InFlightFences[current].Handle); res != vk.Success {
			return fmt.Errorf("vkQueueSubmit failed with result: %s", VulkanResultString(res, true))
		}
		return nil
	})
	if err != nil {
		return err
	}
	commandBuffer.UpdateSubmitted()

	var presented bool
	err = ctx.locks.SafeQueueCall(uint32(ctx.Device.PresentQueueIndex), func() error {
		var err error
		presented, err = ctx.Swapchain.SwapchainPresent(ctx, ctx.Device.PresentQueue, ctx.QueueCompleteSemaphores[current], ctx.ImageIndex)
		return err
	})

	ctx.CurrentFrame = ctx.Frames.Advance()
	vr.FrameNumber++

	if err != nil {
		return err
	}
	if !presented {
		// Recreated at the start of the next frame.
		ctx.FramebufferSizeGeneration++
	}
	return nil
}

func (vr *VulkanRenderer) CreateGeometry(geometry *metadata.Geometry, vertices []metadata.Vertex3D, indices []uint32) error {
	if len(vertices) == 0 {
		return fmt.Errorf("geometry %q has no vertices", geometry.Name)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return fmt.Errorf("geometry %q index %d out of range", geometry.Name, i)
		}
	}

	return vr.context.locks.SafeCall(GeometryManagement, func() error {
		ctx := vr.context
		var slot *vulkanGeometryData
		slotIndex := metadata.InvalidID

		if geometry.InternalID < uint32(len(vr.geometries)) && vr.geometries[geometry.InternalID].inUse() {
			// Re-upload into the same slot once the GPU is done with the old buffers.
			slotIndex = geometry.InternalID
			slot = &vr.geometries[slotIndex]
			vk.DeviceWaitIdle(ctx.Device.LogicalDevice)
			slot.release(ctx)
		} else {
			for i := range vr.geometries {
				if !vr.geometries[i].inUse() {
					slotIndex = uint32(i)
					slot = &vr.geometries[i]
					break
				}
			}
		}
		if slot == nil {
			return fmt.Errorf("no free slot for geometry %q, %d in use", geometry.Name, VULKAN_MAX_GEOMETRY_COUNT)
		}

		vertexBuffer, err := uploadViaStaging(ctx, vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit), sliceToBytes(vertices))
		if err != nil {
			geometry.InternalID = metadata.InvalidID
			return fmt.Errorf("vertex upload for %q: %w", geometry.Name, err)
		}
		slot.VertexBuffer = vertexBuffer
		slot.VertexCount = uint32(len(vertices))
		slot.VertexElementSize = metadata.Vertex3DSize

		if len(indices) > 0 {
			indexBuffer, err := uploadViaStaging(ctx, vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit), sliceToBytes(indices))
			if err != nil {
				slot.release(ctx)
				geometry.InternalID = metadata.InvalidID
				return fmt.Errorf("index upload for %q: %w", geometry.Name, err)
			}
			slot.IndexBuffer = indexBuffer
			slot.IndexCount = uint32(len(indices))
			slot.IndexElementSize = 4
		}

		slot.ID = geometry.ID
		slot.Generation++
		geometry.InternalID = slotIndex
		geometry.VertexCount = uint32(len(vertices))
		geometry.IndexCount = uint32(len(indices))
		geometry.Generation++
		return nil
	})
}

func (vr *VulkanRenderer) DestroyGeometry(geometry *metadata.Geometry) {
	_ = vr.context.locks.SafeCall(GeometryManagement, func() error {
		if geometry.InternalID < uint32(len(vr.geometries)) && vr.geometries[geometry.InternalID].inUse() {
			vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
			vr.geometries[geometry.InternalID].release(vr.context)
		}
		geometry.InternalID = metadata.InvalidID
		geometry.Generation = metadata.InvalidGeneration
		return nil
	})
}

func (vr *VulkanRenderer) CreateTexture(texture *metadata.Texture, pixels []uint8) error {
	if want := int(texture.Width * texture.Height * 4); len(pixels) != want {
		return fmt.Errorf("texture %q expects %d bytes, got %d", texture.Name, want, len(pixels))
	}
	return vr.context.locks.SafeCall(TextureManagement, func() error {
		ctx := vr.context
		if old, ok := internalTexture(texture); ok {
			vk.DeviceWaitIdle(ctx.Device.LogicalDevice)
			old.destroy(ctx)
			delete(vr.textures, old)
			texture.InternalData = nil
		}
		vt, err := textureCreate(ctx, texture.Width, texture.Height, pixels)
		if err != nil {
			return fmt.Errorf("texture %q: %w", texture.Name, err)
		}
		vr.textures[vt] = struct{}{}
		texture.InternalData = vt
		texture.Generation++
		return nil
	})
}

func (vr *VulkanRenderer) DestroyTexture(texture *metadata.Texture) {
	_ = vr.context.locks.SafeCall(TextureManagement, func() error {
		if vt, ok := internalTexture(texture); ok {
			vk.DeviceWaitIdle(vr.context.Device.LogicalDevice)
			vt.destroy(vr.context)
			delete(vr.textures, vt)
		}
		texture.InternalData = nil
		texture.Generation = metadata.InvalidGeneration
		return nil
	})
}

func (vr *VulkanRenderer) createCommandBuffers() error {
	ctx := vr.context
	vr.freeCommandBuffers()
	ctx.GraphicsCommandBuffers = make([]*VulkanCommandBuffer, ctx.Swapchain.ImageCount)
	for i := range ctx.GraphicsCommandBuffers {
		cb, err := NewVulkanCommandBuffer(ctx, ctx.Device.GraphicsCommandPool, true)
		if err != nil {
			return err
		}
		ctx.GraphicsCommandBuffers[i] = cb
	}
	core.LogDebug("Vulkan command buffers created.")
	return nil
}

func (vr *VulkanRenderer) freeCommandBuffers() {
	ctx := vr.context
	for _, cb := range ctx.GraphicsCommandBuffers {
		if cb != nil {
			cb.Free(ctx, ctx.Device.GraphicsCommandPool)
		}
	}
	ctx.GraphicsCommandBuffers = nil
}

func (vr *VulkanRenderer) regenerateFramebuffers() error {
	ctx := vr.context
	swapchain := ctx.Swapchain
	swapchain.Framebuffers = make([]*VulkanFramebuffer, swapchain.ImageCount)
	for i := range swapchain.Framebuffers {
		attachments := []vk.ImageView{
			swapchain.Views[i],
			swapchain.DepthAttachment.View,
		}
		fb, err := FramebufferCreate(ctx, ctx.MainRenderpass, swapchain.Extent.Width, swapchain.Extent.Height, attachments)
		if err != nil {
			return err
		}
		swapchain.Framebuffers[i] = fb
	}
	return nil
}

// recreateSwapchain rebuilds everything sized after the surface. It returns
// core.ErrSwapchainBooting while the window has no area; the generation stays
// out of sync so the next frame tries again.
func (vr *VulkanRenderer) recreateSwapchain() error {
	ctx := vr.context
	if vr.cachedFramebufferWidth == 0 || vr.cachedFramebufferHeight == 0 {
		return core.ErrSwapchainBooting
	}

	if res := vk.DeviceWaitIdle(ctx.Device.LogicalDevice); !VulkanResultIsSuccess(res) {
		return fmt.Errorf("vkDeviceWaitIdle failed: %s", VulkanResultString(res, true))
	}

	if err := DeviceQuerySwapchainSupport(ctx.Device.PhysicalDevice, ctx.Surface, &ctx.Device.SwapchainSupport); err != nil {
		return err
	}
	DeviceDetectDepthFormat(ctx.Device)

	previousImageCount := ctx.Swapchain.ImageCount
	sc, err := ctx.Swapchain.SwapchainRecreate(ctx, vr.cachedFramebufferWidth, vr.cachedFramebufferHeight, vr.config.VSync)
	if err != nil {
		return err
	}
	ctx.Swapchain = sc
	ctx.FramebufferWidth = sc.Extent.Width
	ctx.FramebufferHeight = sc.Extent.Height

	ctx.MainRenderpass.X = 0
	ctx.MainRenderpass.Y = 0
	ctx.MainRenderpass.W = float32(ctx.FramebufferWidth)
	ctx.MainRenderpass.H = float32(ctx.FramebufferHeight)

	if err := vr.regenerateFramebuffers(); err != nil {
		return err
	}
	if sc.ImageCount != previousImageCount || len(ctx.GraphicsCommandBuffers) != int(sc.ImageCount) {
		if err := vr.createCommandBuffers(); err != nil {
			return err
		}
	}
	ctx.Frames.Reset(sc.ImageCount)

	ctx.FramebufferSizeLastGeneration = ctx.FramebufferSizeGeneration
	core.LogInfo("Swapchain recreated at %dx%d.", ctx.FramebufferWidth, ctx.FramebufferHeight)
	return nil
}

func dbgCallbackFunc(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType, object uint64, location uint64, messageCode int32, pLayerPrefix string, pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		core.LogError("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		core.LogWarn("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		core.LogWarn("PERFORMANCE [%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	default:
		core.LogDebug("[%s] Code %d : %s", pLayerPrefix, messageCode, pMessage)
	}
	return vk.Bool32(vk.False)
}
