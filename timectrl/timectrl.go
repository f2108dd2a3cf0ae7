package timectrl

import (
	"context"
	"sync"
	"time"
)

// Mode describes how the FrameDriver paces frames.
type Mode int

const (
	// RealTime waits one Tick of wall-clock time between frames.
	RealTime Mode = iota
	// Accelerated emits frames as fast as listeners return, still stepping by Tick.
	Accelerated
)

func (m Mode) String() string {
	switch m {
	case RealTime:
		return "realtime"
	case Accelerated:
		return "accelerated"
	default:
		return "unknown"
	}
}

// FrameTick is delivered to listeners once per frame.
type FrameTick struct {
	Index   uint64
	Delta   time.Duration
	Elapsed time.Duration
}

// FrameDriver is the host frame scheduler. It owns no animation state; it
// only feeds deltas to listeners, one frame at a time, on one goroutine.
type FrameDriver struct {
	mu   sync.RWMutex
	Tick time.Duration
	Mode Mode

	elapsed time.Duration
	frames  uint64

	listeners []func(FrameTick)
}

// DefaultFrameInterval is used when a driver is built with a non-positive tick.
const DefaultFrameInterval = time.Second / 60

// NewFrameDriver constructs a driver.
func NewFrameDriver(tick time.Duration, mode Mode) *FrameDriver {
	if tick <= 0 {
		tick = DefaultFrameInterval
	}
	return &FrameDriver{
		Tick: tick,
		Mode: mode,
	}
}

// Elapsed returns the driver's accumulated frame time.
func (d *FrameDriver) Elapsed() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.elapsed
}

// Frames returns the number of frames emitted.
func (d *FrameDriver) Frames() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frames
}

// AddListener registers a callback invoked on every frame. Listeners must
// be registered before Start.
func (d *FrameDriver) AddListener(fn func(FrameTick)) {
	d.listeners = append(d.listeners, fn)
}

// Step emits n frames synchronously without any pacing.
func (d *FrameDriver) Step(n int) {
	for range n {
		d.emit()
	}
}

func (d *FrameDriver) emit() {
	d.mu.Lock()
	d.elapsed += d.Tick
	d.frames++
	ft := FrameTick{Index: d.frames, Delta: d.Tick, Elapsed: d.elapsed}
	d.mu.Unlock()

	for _, fn := range d.listeners {
		fn(ft)
	}
}

// Start runs the driver in a separate goroutine until duration of frame
// time has been emitted (duration <= 0 runs until ctx is cancelled). It
// returns a channel that is closed when the driver stops.
func (d *FrameDriver) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var ticks <-chan time.Time
		if d.Mode == RealTime {
			ticker := time.NewTicker(d.Tick)
			defer ticker.Stop()
			ticks = ticker.C
		}

		var emitted time.Duration
		for {
			if duration > 0 && emitted >= duration {
				return
			}
			if ticks != nil {
				select {
				case <-ctx.Done():
					return
				case <-ticks:
				}
			} else if ctx.Err() != nil {
				return
			}
			d.emit()
			emitted += d.Tick
		}
	}()
	return done
}
