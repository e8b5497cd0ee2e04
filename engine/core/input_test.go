package core

import "testing"

func TestInputKeyTransitions(t *testing.T) {
	EventInitialize()
	defer EventShutdown()
	InputInitialize()
	defer InputShutdown()

	var pressed []KeyCode
	EventRegister(EVENT_CODE_KEY_PRESSED, t, func(ctx EventContext) bool {
		pressed = append(pressed, ctx.Data.(*KeyEvent).KeyCode)
		return false
	})

	InputProcessKey(KEY_A, true)
	InputProcessKey(KEY_A, true)
	if len(pressed) != 1 || pressed[0] != KEY_A {
		t.Fatalf("expected a single press event, got %v", pressed)
	}
	if !InputIsKeyPressed(KEY_A) {
		t.Fatal("key should be just pressed")
	}

	InputUpdate()
	if InputIsKeyPressed(KEY_A) {
		t.Fatal("key held across frames is not just pressed")
	}
	if !InputIsKeyDown(KEY_A) || !InputWasKeyDown(KEY_A) {
		t.Fatal("key should be down now and before")
	}

	InputProcessKey(KEY_A, false)
	if !InputIsKeyUp(KEY_A) {
		t.Fatal("key should be up after release")
	}
	if InputIsKeyDown(KEYS_MAX_KEYS + 10) {
		t.Fatal("out of range key must report up")
	}
}

func TestInputMouse(t *testing.T) {
	EventInitialize()
	defer EventShutdown()
	InputInitialize()
	defer InputShutdown()

	var released *MouseEvent
	EventRegister(EVENT_CODE_BUTTON_RELEASED, t, func(ctx EventContext) bool {
		released = ctx.Data.(*MouseEvent)
		return true
	})

	InputProcessMouseMove(120, 45)
	InputProcessButton(BUTTON_LEFT, true)
	if !InputIsButtonPressed(BUTTON_LEFT) {
		t.Fatal("left button should be just pressed")
	}
	InputUpdate()
	InputProcessButton(BUTTON_LEFT, false)
	if !InputIsButtonReleased(BUTTON_LEFT) {
		t.Fatal("left button should be just released")
	}
	if released == nil || released.PosX != 120 || released.PosY != 45 {
		t.Fatalf("release event should carry cursor position, got %+v", released)
	}

	InputProcessMouseWheel(2)
	InputProcessMouseWheel(-1)
	if got := InputGetScroll(); got != 1 {
		t.Fatalf("expected accumulated scroll 1, got %d", got)
	}
	InputUpdate()
	if got := InputGetScroll(); got != 0 {
		t.Fatalf("scroll should reset each frame, got %d", got)
	}
}
