package scene

// Wheel notches per second the zoom keys are worth.
const keyZoomRate = 10

func (s *Scene) updateCamera(dt float32, in FrameInput) {
	cam := s.Camera()
	if cam == nil {
		return
	}

	var yaw, pitch float32
	if in.OrbitLeft {
		yaw -= 1
	}
	if in.OrbitRight {
		yaw += 1
	}
	if in.OrbitUp {
		pitch += 1
	}
	if in.OrbitDown {
		pitch -= 1
	}
	if yaw != 0 || pitch != 0 {
		step := s.settings.OrbitSpeed * dt
		cam.Orbit(yaw*step, pitch*step)
	}

	// Scrolling away from the user moves the camera closer.
	notches := -in.Scroll
	if in.ZoomIn {
		notches -= keyZoomRate * dt
	}
	if in.ZoomOut {
		notches += keyZoomRate * dt
	}
	if notches != 0 {
		cam.Zoom(notches * s.settings.ZoomStep)
	}
}
