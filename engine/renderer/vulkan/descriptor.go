package vulkan

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// VulkanDescriptors owns the single set layout of the builtin shader and the
// pool every texture allocates its set from.
type VulkanDescriptors struct {
	Pool      vk.DescriptorPool
	SetLayout vk.DescriptorSetLayout
}

func DescriptorsCreate(context *VulkanContext) (*VulkanDescriptors, error) {
	out := &VulkanDescriptors{}
	device := context.Device.LogicalDevice

	samplerBinding := vk.DescriptorSetLayoutBinding{
		Binding:         VULKAN_SAMPLER_BINDING,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		DescriptorCount: 1,
		StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
	}
	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings:    []vk.DescriptorSetLayoutBinding{samplerBinding},
	}
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(device, &layoutInfo, context.Allocator, &layout); res != vk.Success {
		return nil, fmt.Errorf("failed to create descriptor set layout: %s", VulkanResultString(res, true))
	}
	out.SetLayout = layout

	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		Flags:         vk.DescriptorPoolCreateFlags(vk.DescriptorPoolCreateFreeDescriptorSetBit),
		MaxSets:       descriptorPoolSetCount(),
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: descriptorPoolSetCount(),
		}},
	}
	var pool vk.DescriptorPool
	if res := vk.CreateDescriptorPool(device, &poolInfo, context.Allocator, &pool); res != vk.Success {
		out.Destroy(context)
		return nil, fmt.Errorf("failed to create descriptor pool: %s", VulkanResultString(res, true))
	}
	out.Pool = pool
	return out, nil
}

// Allocate returns a set pointing at the given image view and sampler.
func (d *VulkanDescriptors) Allocate(context *VulkanContext, view vk.ImageView, sampler vk.Sampler) (vk.DescriptorSet, error) {
	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.Pool,
		DescriptorSetCount: 1,
		PSetLayouts:        []vk.DescriptorSetLayout{d.SetLayout},
	}
	var set vk.DescriptorSet
	if res := vk.AllocateDescriptorSets(context.Device.LogicalDevice, &allocInfo, &set); res != vk.Success {
		return nil, fmt.Errorf("failed to allocate descriptor set: %s", VulkanResultString(res, true))
	}

	write := vk.WriteDescriptorSet{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          set,
		DstBinding:      VULKAN_SAMPLER_BINDING,
		DescriptorCount: 1,
		DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
		PImageInfo: []vk.DescriptorImageInfo{{
			Sampler:     sampler,
			ImageView:   view,
			ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		}},
	}
	vk.UpdateDescriptorSets(context.Device.LogicalDevice, 1, []vk.WriteDescriptorSet{write}, 0, nil)
	return set, nil
}

func (d *VulkanDescriptors) Free(context *VulkanContext, set vk.DescriptorSet) {
	if set == nil {
		return
	}
	vk.FreeDescriptorSets(context.Device.LogicalDevice, d.Pool, 1, &set)
}

func (d *VulkanDescriptors) Destroy(context *VulkanContext) {
	device := context.Device.LogicalDevice
	if d.Pool != nil {
		vk.DestroyDescriptorPool(device, d.Pool, context.Allocator)
		d.Pool = nil
	}
	if d.SetLayout != nil {
		vk.DestroyDescriptorSetLayout(device, d.SetLayout, context.Allocator)
		d.SetLayout = nil
	}
}
