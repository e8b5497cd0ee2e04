package platform

// Window is the surface the engine pumps events from and presents into.
type Window interface {
	Startup(applicationName string, x, y, width, height uint32) error
	Shutdown() error
	// PumpMessages processes pending OS events. It returns false once the
	// window wants to close.
	PumpMessages() bool
	FramebufferSize() (uint32, uint32)
	// AbsoluteTime is seconds since Startup.
	AbsoluteTime() float64
	Sleep(ms float64)
}
