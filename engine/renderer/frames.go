package renderer

// MaxFramesInFlight is how many frames the CPU may record ahead of the GPU.
// Each frame in flight owns an image-available semaphore, a render-finished
// semaphore and a fence.
const MaxFramesInFlight = 2

const noOwner = -1

// FrameRing tracks which frame in flight is current and which frame last
// rendered into each swapchain image.
type FrameRing struct {
	current     uint32
	imageOwners []int
}

func NewFrameRing(imageCount uint32) *FrameRing {
	r := &FrameRing{}
	r.Reset(imageCount)
	return r
}

// Current is the index of the frame in flight being recorded.
func (r *FrameRing) Current() uint32 {
	return r.current
}

// Advance moves to the next frame in flight and returns it.
func (r *FrameRing) Advance() uint32 {
	r.current = (r.current + 1) % MaxFramesInFlight
	return r.current
}

// Acquire records the current frame as the user of image. If another frame
// in flight used the image before, it is returned so its fence can be waited on.
func (r *FrameRing) Acquire(image uint32) (previous uint32, inUse bool) {
	if int(image) >= len(r.imageOwners) {
		return 0, false
	}
	owner := r.imageOwners[image]
	r.imageOwners[image] = int(r.current)
	if owner == noOwner {
		return 0, false
	}
	return uint32(owner), true
}

// Reset forgets every image owner, used after the swapchain is recreated.
// The current frame index is kept.
func (r *FrameRing) Reset(imageCount uint32) {
	r.imageOwners = make([]int, imageCount)
	for i := range r.imageOwners {
		r.imageOwners[i] = noOwner
	}
}

func (r *FrameRing) ImageCount() uint32 {
	return uint32(len(r.imageOwners))
}
