package platform

import (
	"testing"

	"github.com/spaghettifunk/orbit/engine/core"
)

func TestHeadlessBudget(t *testing.T) {
	h := NewHeadless(3)
	if h.PumpMessages() {
		t.Fatal("pumping before startup must stop the loop")
	}
	h.Startup("test", 0, 0, 640, 480)
	for i := 0; i < 3; i++ {
		if !h.PumpMessages() {
			t.Fatalf("frame %d should run", i+1)
		}
	}
	if h.PumpMessages() {
		t.Fatal("budget exhausted, loop should stop")
	}
}

func TestHeadlessScheduledResize(t *testing.T) {
	core.EventInitialize()
	defer core.EventShutdown()

	var got *core.SystemEvent
	core.EventRegister(core.EVENT_CODE_RESIZED, t, func(ctx core.EventContext) bool {
		got = ctx.Data.(*core.SystemEvent)
		return true
	})

	h := NewHeadless(0)
	h.Startup("test", 0, 0, 640, 480)
	h.ScheduleResize(2, 800, 0)

	h.PumpMessages()
	if got != nil {
		t.Fatal("no resize expected on the first frame")
	}
	h.PumpMessages()
	if got == nil || got.WindowWidth != 800 || got.WindowHeight != 0 {
		t.Fatalf("expected 800x0 resize, got %+v", got)
	}
	if w, hh := h.FramebufferSize(); w != 800 || hh != 0 {
		t.Fatalf("framebuffer size not updated: %dx%d", w, hh)
	}
}
