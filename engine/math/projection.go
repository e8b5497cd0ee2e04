package math

import "github.com/go-gl/mathgl/mgl32"

// VulkanClip maps OpenGL style clip space (y up, z in [-1, 1]) to Vulkan's
// (y down, z in [0, 1]).
var VulkanClip = mgl32.Mat4{
	1, 0, 0, 0,
	0, -1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// Perspective builds a Vulkan ready projection. fovy is in degrees.
func Perspective(fovy, aspect, near, far float32) mgl32.Mat4 {
	return VulkanClip.Mul4(mgl32.Perspective(mgl32.DegToRad(fovy), aspect, near, far))
}

// Ortho2D maps pixel coordinates, origin top-left and y down, to Vulkan clip
// space. z = 0 lands on depth 0, so sprites pass a LESS_OR_EQUAL depth test
// against anything drawn before them.
func Ortho2D(width, height float32) mgl32.Mat4 {
	return VulkanClip.Mul4(mgl32.Ortho(0, width, height, 0, 0, 1))
}

// Aspect guards against a zero height while minimized.
func Aspect(width, height uint32) float32 {
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}
