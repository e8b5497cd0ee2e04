package core

import "testing"

func TestEventFireOrderAndHandled(t *testing.T) {
	if err := EventInitialize(); err != nil {
		t.Fatal(err)
	}
	defer EventShutdown()

	var calls []string
	a, b, c := new(int), new(int), new(int)
	EventRegister(EVENT_CODE_USER, a, func(EventContext) bool {
		calls = append(calls, "a")
		return false
	})
	EventRegister(EVENT_CODE_USER, b, func(EventContext) bool {
		calls = append(calls, "b")
		return true
	})
	EventRegister(EVENT_CODE_USER, c, func(EventContext) bool {
		calls = append(calls, "c")
		return false
	})

	if !EventFire(EventContext{Type: EVENT_CODE_USER}) {
		t.Fatal("expected event to be handled")
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("unexpected dispatch order %v", calls)
	}
}

func TestEventRegisterDuplicate(t *testing.T) {
	EventInitialize()
	defer EventShutdown()

	l := new(int)
	fn := func(EventContext) bool { return false }
	if !EventRegister(EVENT_CODE_RESIZED, l, fn) {
		t.Fatal("first registration should succeed")
	}
	if EventRegister(EVENT_CODE_RESIZED, l, fn) {
		t.Fatal("duplicate registration should fail")
	}
}

func TestEventUnregister(t *testing.T) {
	EventInitialize()
	defer EventShutdown()

	l := new(int)
	fired := 0
	EventRegister(EVENT_CODE_KEY_PRESSED, l, func(EventContext) bool {
		fired++
		return true
	})
	if !EventUnregister(EVENT_CODE_KEY_PRESSED, l) {
		t.Fatal("unregister should find the listener")
	}
	if EventUnregister(EVENT_CODE_KEY_PRESSED, l) {
		t.Fatal("second unregister should fail")
	}
	if EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}) || fired != 0 {
		t.Fatal("unregistered listener was called")
	}
}

func TestEventFireBeforeInitialize(t *testing.T) {
	EventShutdown()
	if EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}) {
		t.Fatal("fire without a bus must not report handled")
	}
	if EventRegister(EVENT_CODE_APPLICATION_QUIT, nil, func(EventContext) bool { return true }) {
		t.Fatal("register without a bus must fail")
	}
}
