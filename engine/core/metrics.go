package core

import "github.com/spaghettifunk/orbit/engine/containers"

const AVG_COUNT = 30

// FrameMetrics keeps a rolling frame-time average and a once-per-second FPS.
type FrameMetrics struct {
	samples     *containers.RingQueue[float64]
	avgMS       float64
	frames      int
	accumulated float64
	fps         float64
}

func NewFrameMetrics() *FrameMetrics {
	return &FrameMetrics{
		samples: containers.NewRingQueue[float64](AVG_COUNT),
	}
}

// Update records one frame that took frameSeconds.
func (m *FrameMetrics) Update(frameSeconds float64) {
	frameMS := frameSeconds * 1000.0
	m.samples.Push(frameMS)
	if m.samples.IsFull() {
		var sum float64
		m.samples.Each(func(s float64) { sum += s })
		m.avgMS = sum / AVG_COUNT
	}

	m.frames++
	m.accumulated += frameMS
	if m.accumulated > 1000 {
		m.fps = float64(m.frames)
		m.accumulated -= 1000
		m.frames = 0
	}
}

func (m *FrameMetrics) FPS() float64 {
	return m.fps
}

// FrameTime is the average milliseconds per frame over the last AVG_COUNT
// frames. It stays zero until that many frames were recorded.
func (m *FrameMetrics) FrameTime() float64 {
	return m.avgMS
}
