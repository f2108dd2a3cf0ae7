package timectrl

import "time"

// AnimationClock accumulates elapsed animation time for one mounted
// visualization. It has a single writer, the frame driver, and is not safe
// for concurrent mutation.
type AnimationClock struct {
	elapsed time.Duration
	frames  uint64
}

// NewAnimationClock returns a clock at zero.
func NewAnimationClock() *AnimationClock {
	return &AnimationClock{}
}

// Advance adds one frame's delta. Negative deltas are ignored so elapsed
// time never decreases.
func (c *AnimationClock) Advance(delta time.Duration) {
	if delta > 0 {
		c.elapsed += delta
	}
	c.frames++
}

// Sync sets elapsed time from an absolute host sample. Samples behind the
// current value are ignored.
func (c *AnimationClock) Sync(absolute time.Duration) {
	if absolute > c.elapsed {
		c.elapsed = absolute
	}
	c.frames++
}

// Elapsed returns elapsed time in seconds, the unit the oscillators use.
func (c *AnimationClock) Elapsed() float64 {
	return c.elapsed.Seconds()
}

// Duration returns elapsed time as a duration.
func (c *AnimationClock) Duration() time.Duration {
	return c.elapsed
}

// Frames returns the number of ticks applied since the last reset.
func (c *AnimationClock) Frames() uint64 {
	return c.frames
}

// Reset returns the clock to zero, as on remount.
func (c *AnimationClock) Reset() {
	c.elapsed = 0
	c.frames = 0
}
