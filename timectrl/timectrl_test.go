package timectrl

import (
	"context"
	"testing"
	"time"
)

func TestFrameDriverStepUpdatesElapsed(t *testing.T) {
	d := NewFrameDriver(time.Second, RealTime)

	var got []FrameTick
	d.AddListener(func(ft FrameTick) { got = append(got, ft) })
	d.Step(3)

	if len(got) != 3 {
		t.Fatalf("listener calls = %d, want 3", len(got))
	}
	if got[2].Index != 3 || got[2].Elapsed != 3*time.Second || got[2].Delta != time.Second {
		t.Fatalf("third tick = %+v, want index 3 elapsed 3s delta 1s", got[2])
	}
	if d.Elapsed() != 3*time.Second {
		t.Fatalf("Elapsed() = %v, want 3s", d.Elapsed())
	}
}

func TestFrameDriverStartAccelerated(t *testing.T) {
	d := NewFrameDriver(5*time.Millisecond, Accelerated)

	frames := 0
	d.AddListener(func(FrameTick) { frames++ })

	done := d.Start(context.Background(), 15*time.Millisecond)
	<-done

	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
	if got := d.Elapsed(); got != 15*time.Millisecond {
		t.Fatalf("Elapsed() = %v, want 15ms", got)
	}
}

func TestFrameDriverStartRealTimeStopsOnCancel(t *testing.T) {
	d := NewFrameDriver(time.Millisecond, RealTime)
	ctx, cancel := context.WithCancel(context.Background())

	d.AddListener(func(ft FrameTick) {
		if ft.Index == 2 {
			cancel()
		}
	})

	select {
	case <-d.Start(ctx, 0):
	case <-time.After(2 * time.Second):
		t.Fatalf("driver did not stop after cancel")
	}
	if d.Frames() < 2 {
		t.Fatalf("Frames() = %d, want at least 2", d.Frames())
	}
}

func TestNewFrameDriverDefaultsTick(t *testing.T) {
	d := NewFrameDriver(0, Accelerated)
	if d.Tick != DefaultFrameInterval {
		t.Fatalf("Tick = %v, want %v", d.Tick, DefaultFrameInterval)
	}
	if d.Mode.String() != "accelerated" {
		t.Fatalf("Mode = %s, want accelerated", d.Mode)
	}
}
