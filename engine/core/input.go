package core

type Button uint8

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// KeyCode is the engine's platform-neutral key.
type KeyCode uint16

const (
	KEY_UNKNOWN KeyCode = iota
	KEY_ESCAPE
	KEY_ENTER
	KEY_TAB
	KEY_BACKSPACE
	KEY_SPACE
	KEY_LEFT
	KEY_RIGHT
	KEY_UP
	KEY_DOWN
	KEY_LSHIFT
	KEY_RSHIFT
	KEY_LCONTROL
	KEY_RCONTROL
	KEY_PLUS
	KEY_MINUS
	KEY_A
	KEY_B
	KEY_C
	KEY_D
	KEY_E
	KEY_F
	KEY_G
	KEY_H
	KEY_I
	KEY_J
	KEY_K
	KEY_L
	KEY_M
	KEY_N
	KEY_O
	KEY_P
	KEY_Q
	KEY_R
	KEY_S
	KEY_T
	KEY_U
	KEY_V
	KEY_W
	KEY_X
	KEY_Y
	KEY_Z
	KEY_0
	KEY_1
	KEY_2
	KEY_3
	KEY_4
	KEY_5
	KEY_6
	KEY_7
	KEY_8
	KEY_9
	KEY_F1
	KEY_F2
	KEY_F3
	KEY_F4
	KEY_F5
	KEY_F6
	KEY_F7
	KEY_F8
	KEY_F9
	KEY_F10
	KEY_F11
	KEY_F12
	KEYS_MAX_KEYS
)

type MouseState struct {
	X       int32
	Y       int32
	Buttons [BUTTON_MAX_BUTTONS]bool
}

type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// InputState holds current and previous states for keyboard and mouse. The
// previous state is the snapshot taken at the end of the last frame, so a
// key is "just pressed" when it is down now and was up then.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
	scroll           int32
}

var inputState *InputState

func InputInitialize() error {
	inputState = &InputState{}
	LogInfo("Input subsystem initialized.")
	return nil
}

func InputShutdown() error {
	inputState = nil
	return nil
}

// InputUpdate snapshots the current state into previous and clears the
// accumulated scroll. Call once per frame after the game update.
func InputUpdate() {
	if inputState == nil {
		return
	}
	inputState.KeyboardPrevious = inputState.KeyboardCurrent
	inputState.MousePrevious = inputState.MouseCurrent
	inputState.scroll = 0
}

func validKey(key KeyCode) bool {
	return inputState != nil && key < KEYS_MAX_KEYS
}

func validButton(button Button) bool {
	return inputState != nil && button < BUTTON_MAX_BUTTONS
}

func InputIsKeyDown(key KeyCode) bool {
	return validKey(key) && inputState.KeyboardCurrent.Keys[key]
}

func InputIsKeyUp(key KeyCode) bool {
	return validKey(key) && !inputState.KeyboardCurrent.Keys[key]
}

func InputWasKeyDown(key KeyCode) bool {
	return validKey(key) && inputState.KeyboardPrevious.Keys[key]
}

func InputWasKeyUp(key KeyCode) bool {
	return validKey(key) && !inputState.KeyboardPrevious.Keys[key]
}

// InputIsKeyPressed is true only on the frame the key went down.
func InputIsKeyPressed(key KeyCode) bool {
	return InputIsKeyDown(key) && InputWasKeyUp(key)
}

func InputProcessKey(key KeyCode, pressed bool) {
	if !validKey(key) {
		return
	}
	if inputState.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	inputState.KeyboardCurrent.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	EventFire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
}

func InputIsButtonDown(button Button) bool {
	return validButton(button) && inputState.MouseCurrent.Buttons[button]
}

func InputIsButtonUp(button Button) bool {
	return validButton(button) && !inputState.MouseCurrent.Buttons[button]
}

func InputWasButtonDown(button Button) bool {
	return validButton(button) && inputState.MousePrevious.Buttons[button]
}

func InputWasButtonUp(button Button) bool {
	return validButton(button) && !inputState.MousePrevious.Buttons[button]
}

// InputIsButtonPressed is true only on the frame the button went down.
func InputIsButtonPressed(button Button) bool {
	return InputIsButtonDown(button) && InputWasButtonUp(button)
}

// InputIsButtonReleased is true only on the frame the button came up.
func InputIsButtonReleased(button Button) bool {
	return InputIsButtonUp(button) && InputWasButtonDown(button)
}

func InputGetMousePosition() (int32, int32) {
	if inputState == nil {
		return 0, 0
	}
	return inputState.MouseCurrent.X, inputState.MouseCurrent.Y
}

func InputGetPreviousMousePosition() (int32, int32) {
	if inputState == nil {
		return 0, 0
	}
	return inputState.MousePrevious.X, inputState.MousePrevious.Y
}

// InputGetScroll returns the wheel delta accumulated since the last InputUpdate.
func InputGetScroll() int32 {
	if inputState == nil {
		return 0
	}
	return inputState.scroll
}

func InputProcessButton(button Button, pressed bool) {
	if !validButton(button) {
		return
	}
	if inputState.MouseCurrent.Buttons[button] == pressed {
		return
	}
	inputState.MouseCurrent.Buttons[button] = pressed

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	x, y := inputState.MouseCurrent.X, inputState.MouseCurrent.Y
	EventFire(EventContext{
		Type: code,
		Data: &MouseEvent{Button: button, PosX: x, PosY: y},
	})
}

func InputProcessMouseMove(x, y int32) {
	if inputState == nil {
		return
	}
	if inputState.MouseCurrent.X == x && inputState.MouseCurrent.Y == y {
		return
	}
	inputState.MouseCurrent.X = x
	inputState.MouseCurrent.Y = y

	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{PosX: x, PosY: y},
	})
}

func InputProcessMouseWheel(zDelta int8) {
	if inputState == nil {
		return
	}
	inputState.scroll += int32(zDelta)
	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_WHEEL,
		Data: &MouseEvent{Scroll: zDelta},
	})
}
