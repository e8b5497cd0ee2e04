package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/orbit/engine/renderer/metadata"
)

// vulkanTexture is what a metadata.Texture carries in InternalData once
// uploaded.
type vulkanTexture struct {
	Image   *VulkanImage
	Sampler vk.Sampler
	Set     vk.DescriptorSet
}

// textureCreate uploads RGBA8 pixels through a staging buffer, transitions
// the image for sampling and allocates its descriptor set.
func textureCreate(context *VulkanContext, width, height uint32, pixels []uint8) (*vulkanTexture, error) {
	size := int(width) * int(height) * 4
	if width == 0 || height == 0 || len(pixels) < size {
		return nil, fmt.Errorf("texture %dx%d needs %d bytes, got %d", width, height, size, len(pixels))
	}

	staging, err := BufferCreate(
		context,
		vk.DeviceSize(size),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the texture staging buffer: %w", err)
	}
	defer staging.Destroy(context)
	if err := staging.LoadData(context, pixels[:size]); err != nil {
		return nil, err
	}

	image, err := ImageCreate(
		context,
		width, height,
		vk.FormatR8g8b8a8Unorm,
		vk.ImageTilingOptimal,
		vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit)|vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)|vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		true,
		vk.ImageAspectFlags(vk.ImageAspectColorBit),
	)
	if err != nil {
		return nil, err
	}

	err = runSingleUse(context, func(cb *VulkanCommandBuffer) error {
		if err := image.TransitionLayout(cb, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
			return err
		}
		image.CopyFromBuffer(cb, staging.Handle)
		return image.TransitionLayout(cb, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal)
	})
	if err != nil {
		image.Destroy(context)
		return nil, fmt.Errorf("texture upload: %w", err)
	}

	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterLinear,
		MinFilter:               vk.FilterLinear,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeLinear,
	}
	if context.Device.Features.SamplerAnisotropy == vk.True {
		samplerInfo.AnisotropyEnable = vk.True
		samplerInfo.MaxAnisotropy = 16
		if limit := context.Device.Properties.Limits.MaxSamplerAnisotropy; limit < 16 {
			samplerInfo.MaxAnisotropy = limit
		}
	}

	out := &vulkanTexture{Image: image}
	var sampler vk.Sampler
	if res := vk.CreateSampler(context.Device.LogicalDevice, &samplerInfo, context.Allocator, &sampler); res != vk.Success {
		out.destroy(context)
		return nil, fmt.Errorf("failed to create sampler: %w", vk.Error(res))
	}
	out.Sampler = sampler

	set, err := context.Descriptors.Allocate(context, image.View, sampler)
	if err != nil {
		out.destroy(context)
		return nil, err
	}
	out.Set = set
	return out, nil
}

// The device must be idle.
func (t *vulkanTexture) destroy(context *VulkanContext) {
	if t.Set != nil {
		context.Descriptors.Free(context, t.Set)
		t.Set = nil
	}
	if t.Sampler != nil {
		vk.DestroySampler(context.Device.LogicalDevice, t.Sampler, context.Allocator)
		t.Sampler = nil
	}
	if t.Image != nil {
		t.Image.Destroy(context)
		t.Image = nil
	}
}

func internalTexture(texture *metadata.Texture) (*vulkanTexture, bool) {
	if texture == nil {
		return nil, false
	}
	vt, ok := texture.InternalData.(*vulkanTexture)
	return vt, ok && vt != nil
}
