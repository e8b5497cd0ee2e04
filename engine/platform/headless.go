package platform

import (
	"time"

	"github.com/spaghettifunk/orbit/engine/core"
)

// Headless is a window that never touches the OS. It runs for a fixed frame
// budget and replays scripted resizes, which is enough to drive the frame
// loop in tests and on machines without a display.
type Headless struct {
	width, height uint32
	budget        int
	frames        int
	resizes       map[int][2]uint32
	start         time.Time
	running       bool
}

// NewHeadless stops after budget frames; 0 means never.
func NewHeadless(budget int) *Headless {
	return &Headless{
		budget:  budget,
		resizes: make(map[int][2]uint32),
	}
}

// ScheduleResize fires a resize event while pumping frame number frame (1-based).
func (h *Headless) ScheduleResize(frame int, width, height uint32) {
	h.resizes[frame] = [2]uint32{width, height}
}

func (h *Headless) Startup(applicationName string, x, y, width, height uint32) error {
	h.width, h.height = width, height
	h.start = time.Now()
	h.running = true
	core.LogInfo("headless window %q started at %dx%d", applicationName, width, height)
	return nil
}

func (h *Headless) Shutdown() error {
	h.running = false
	return nil
}

func (h *Headless) PumpMessages() bool {
	if !h.running {
		return false
	}
	h.frames++
	if h.budget > 0 && h.frames > h.budget {
		return false
	}
	if size, ok := h.resizes[h.frames]; ok {
		h.width, h.height = size[0], size[1]
		core.EventFire(core.EventContext{
			Type: core.EVENT_CODE_RESIZED,
			Data: &core.SystemEvent{WindowWidth: size[0], WindowHeight: size[1]},
		})
	}
	return true
}

func (h *Headless) FramebufferSize() (uint32, uint32) {
	return h.width, h.height
}

func (h *Headless) AbsoluteTime() float64 {
	return time.Since(h.start).Seconds()
}

func (h *Headless) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

// Frames is how many times PumpMessages was called.
func (h *Headless) Frames() int {
	return h.frames
}
