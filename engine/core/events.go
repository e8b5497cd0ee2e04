package core

import "sync"

// EventCode identifies a kind of event on the bus. Application codes start at
// EVENT_CODE_USER.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = iota + 1
	// Keyboard key pressed. Data is *KeyEvent.
	EVENT_CODE_KEY_PRESSED
	// Keyboard key released. Data is *KeyEvent.
	EVENT_CODE_KEY_RELEASED
	// Mouse button pressed. Data is *MouseEvent.
	EVENT_CODE_BUTTON_PRESSED
	// Mouse button released. Data is *MouseEvent.
	EVENT_CODE_BUTTON_RELEASED
	// Mouse moved. Data is *MouseEvent with PosX and PosY set.
	EVENT_CODE_MOUSE_MOVED
	// Mouse wheel. Data is *MouseEvent with Scroll set.
	EVENT_CODE_MOUSE_WHEEL
	// Framebuffer resized. Data is *SystemEvent.
	EVENT_CODE_RESIZED
	// A watched asset changed on disk. Data is *AssetEvent.
	EVENT_CODE_ASSET_CHANGED

	EVENT_CODE_USER EventCode = 0x100
)

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   int32
	PosY   int32
	Scroll int8
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path string
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// FnOnEvent returns true when the event was handled; later listeners are skipped.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.Mutex
	registered map[EventCode][]registeredEvent
}

var eventState *eventSystemState

func EventInitialize() error {
	eventState = &eventSystemState{
		registered: make(map[EventCode][]registeredEvent),
	}
	return nil
}

// EventShutdown drops every registration.
func EventShutdown() error {
	if eventState == nil {
		return nil
	}
	eventState.mu.Lock()
	eventState.registered = make(map[EventCode][]registeredEvent)
	eventState.mu.Unlock()
	eventState = nil
	return nil
}

// EventRegister subscribes a listener to a code. A listener can only be
// registered once per code; a duplicate returns false.
func EventRegister(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	for _, e := range eventState.registered[code] {
		if listener != nil && e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

func EventUnregister(code EventCode, listener interface{}) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	defer eventState.mu.Unlock()

	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// EventFire dispatches synchronously, in registration order, until a listener
// reports the event as handled.
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	eventState.mu.Lock()
	events := append([]registeredEvent(nil), eventState.registered[context.Type]...)
	eventState.mu.Unlock()

	for _, e := range events {
		if e.callback(context) {
			return true
		}
	}
	return false
}
