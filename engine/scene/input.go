package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/spaghettifunk/orbit/engine/core"
)

// FrameInput is the input state the scene systems read in one update.
type FrameInput struct {
	Mouse mgl32.Vec2

	LeftDown     bool
	LeftWasDown  bool
	RightDown    bool
	RightWasDown bool

	// Wheel notches since the last frame, positive away from the user.
	Scroll float32

	OrbitLeft  bool
	OrbitRight bool
	OrbitUp    bool
	OrbitDown  bool
	ZoomIn     bool
	ZoomOut    bool
}

// PollInput snapshots the engine input state. Call it before InputUpdate.
func PollInput() FrameInput {
	x, y := core.InputGetMousePosition()
	return FrameInput{
		Mouse:        mgl32.Vec2{float32(x), float32(y)},
		LeftDown:     core.InputIsButtonDown(core.BUTTON_LEFT),
		LeftWasDown:  core.InputWasButtonDown(core.BUTTON_LEFT),
		RightDown:    core.InputIsButtonDown(core.BUTTON_RIGHT),
		RightWasDown: core.InputWasButtonDown(core.BUTTON_RIGHT),
		Scroll:       float32(core.InputGetScroll()),
		OrbitLeft:    core.InputIsKeyDown(core.KEY_A) || core.InputIsKeyDown(core.KEY_LEFT),
		OrbitRight:   core.InputIsKeyDown(core.KEY_D) || core.InputIsKeyDown(core.KEY_RIGHT),
		OrbitUp:      core.InputIsKeyDown(core.KEY_W) || core.InputIsKeyDown(core.KEY_UP),
		OrbitDown:    core.InputIsKeyDown(core.KEY_S) || core.InputIsKeyDown(core.KEY_DOWN),
		ZoomIn:       core.InputIsKeyDown(core.KEY_E),
		ZoomOut:      core.InputIsKeyDown(core.KEY_Q),
	}
}

func (in FrameInput) leftPressed() bool { return in.LeftDown && !in.LeftWasDown }
func (in FrameInput) leftReleased() bool { return !in.LeftDown && in.LeftWasDown }
func (in FrameInput) rightPressed() bool { return in.RightDown && !in.RightWasDown }
