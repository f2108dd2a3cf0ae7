package core

import "math"

// Oscillator is a bounded periodic scalar of animation time:
//
//	Value(t, phase) = sin(t*Frequency + phase*PhaseScale) * Amplitude + Offset
//
// Elements oscillate out of sync by feeding their index through At, which
// derives the phase as index*PhaseStride.
type Oscillator struct {
	Frequency   float64
	PhaseScale  float64
	PhaseStride float64
	Amplitude   float64
	Offset      float64
}

// The globe variant is driven by a continuous clock in seconds.
var (
	// NodePulse scales a globe marker's base size; range [0.7, 1.3].
	NodePulse = Oscillator{Frequency: 2, PhaseScale: 1, PhaseStride: 1, Amplitude: 0.3, Offset: 1.0}
	// EdgeFlicker is a globe connection's opacity; range [0.2, 0.8].
	EdgeFlicker = Oscillator{Frequency: 1.5, PhaseScale: 0.5, PhaseStride: 1, Amplitude: 0.3, Offset: 0.5}
)

// The planar variant is driven by a discrete step counter. Its tempo
// constants differ from the globe's and are kept separate on purpose.
var (
	// PlanarPulse scales a planar node; range [0.7, 1.3].
	PlanarPulse = Oscillator{Frequency: 0.05, PhaseScale: 0.05, PhaseStride: 30, Amplitude: 0.3, Offset: 1.0}
	// PlanarFlicker is a planar connector's opacity; range [0.1, 0.7].
	PlanarFlicker = Oscillator{Frequency: 0.03, PhaseScale: 0.03, PhaseStride: 60, Amplitude: 0.3, Offset: 0.4}
)

// Value evaluates the oscillator at time t with an explicit phase offset.
func (o Oscillator) Value(t, phase float64) float64 {
	return math.Sin(t*o.Frequency+phase*o.PhaseScale)*o.Amplitude + o.Offset
}

// At evaluates the oscillator for the element at index.
func (o Oscillator) At(t float64, index int) float64 {
	return o.Value(t, float64(index)*o.PhaseStride)
}

// Min returns the lower bound of the oscillator's range.
func (o Oscillator) Min() float64 { return o.Offset - math.Abs(o.Amplitude) }

// Max returns the upper bound of the oscillator's range.
func (o Oscillator) Max() float64 { return o.Offset + math.Abs(o.Amplitude) }

// Period returns the period in t, or +Inf for a zero frequency.
func (o Oscillator) Period() float64 {
	if o.Frequency == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(o.Frequency)
}

// Pulse is NodePulse.Value.
func Pulse(t, phase float64) float64 { return NodePulse.Value(t, phase) }

// Flicker is EdgeFlicker.Value.
func Flicker(t, phase float64) float64 { return EdgeFlicker.Value(t, phase) }
