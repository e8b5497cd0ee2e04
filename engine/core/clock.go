package core

import "time"

// Clock measures elapsed wall time in seconds from the last Start.
type Clock struct {
	startTime time.Time
	elapsed   float64
	now       func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// Updates the provided clock. Should be called just before checking elapsed time.
// Has no effect on non-started clocks.
func (c *Clock) Update() {
	if !c.startTime.IsZero() {
		c.elapsed = c.now().Sub(c.startTime).Seconds()
	}
}

// Starts the provided clock. Resets elapsed time.
func (c *Clock) Start() {
	c.startTime = c.now()
	c.elapsed = 0
}

// Stops the provided clock. Does not reset elapsed time.
func (c *Clock) Stop() {
	c.startTime = time.Time{}
}

// Elapsed returns the seconds between Start and the last Update.
func (c *Clock) Elapsed() float64 {
	return c.elapsed
}

// ClampDelta bounds a frame delta to [0, max] so a stall (debugger, window drag)
// does not turn into one huge simulation step.
func ClampDelta(delta, max float64) float64 {
	if delta < 0 {
		return 0
	}
	if max > 0 && delta > max {
		return max
	}
	return delta
}
