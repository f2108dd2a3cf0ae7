package timectrl

import "time"

// PlanarStepInterval is the fixed tick interval of the planar animation.
const PlanarStepInterval = 50 * time.Millisecond

// StepModulus is where the planar step counter wraps.
const StepModulus = 360

// StepCounter is the discrete animation counter of the planar variant.
type StepCounter struct {
	step int
}

// NewStepCounter returns a counter at zero.
func NewStepCounter() *StepCounter {
	return &StepCounter{}
}

// Tick advances the counter by one, wrapping at StepModulus.
func (s *StepCounter) Tick() int {
	s.step = (s.step + 1) % StepModulus
	return s.step
}

// Step returns the current step.
func (s *StepCounter) Step() int {
	return s.step
}

// Reset returns the counter to zero.
func (s *StepCounter) Reset() {
	s.step = 0
}
