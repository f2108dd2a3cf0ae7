package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

// ISS sample TLE
const (
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func TestNewOrbitTrackRejectsMalformedTLE(t *testing.T) {
	if _, err := NewOrbitTrack("bad", "1 25544U", issLine2); err == nil {
		t.Errorf("expected error for short line 1")
	}
	if _, err := NewOrbitTrack("bad", issLine1, issLine1); err == nil {
		t.Errorf("expected error for line 2 without '2 ' prefix")
	}
}

func TestOrbitTrackSubPoint(t *testing.T) {
	track, err := NewOrbitTrack("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewOrbitTrack: %v", err)
	}
	at := time.Date(2021, 10, 2, 15, 0, 0, 0, time.UTC)
	lat, lng, alt := track.SubPoint(at)

	// Geodetic latitude can exceed the inclination slightly.
	if math.Abs(lat) > 52.5 {
		t.Errorf("lat = %v, outside ISS inclination band", lat)
	}
	if math.Abs(lng) > 180 {
		t.Errorf("lng = %v, outside [-180, 180]", lng)
	}
	if alt < 300 || alt > 500 {
		t.Errorf("alt = %v km, want low Earth orbit", alt)
	}
}

func TestOrbitTrackPositionAboveGlobe(t *testing.T) {
	track, err := NewOrbitTrack("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewOrbitTrack: %v", err)
	}
	t1 := time.Date(2021, 10, 2, 15, 0, 0, 0, time.UTC)
	t2 := t1.Add(5 * time.Minute)

	p1 := track.Position(t1, DefaultGlobeRadius)
	p2 := track.Position(t2, DefaultGlobeRadius)
	if p1 == p2 {
		t.Fatalf("expected position to change over time, got %+v at both times", p1)
	}
	if p1.Norm() <= DefaultGlobeRadius {
		t.Errorf("|p| = %v, want above globe radius %v", p1.Norm(), DefaultGlobeRadius)
	}
}

func TestOrbitTrackGroundTrack(t *testing.T) {
	track, err := NewOrbitTrack("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewOrbitTrack: %v", err)
	}
	start := time.Date(2021, 10, 2, 15, 0, 0, 0, time.UTC)

	pts, err := track.GroundTrack(start, time.Minute, 10, 1)
	if err != nil {
		t.Fatalf("GroundTrack: %v", err)
	}
	if len(pts) != 10 {
		t.Fatalf("len = %d, want 10", len(pts))
	}
	for i, p := range pts {
		if math.Abs(p.Norm()-1) > 1e-9 {
			t.Errorf("point %d not on surface: |p| = %v", i, p.Norm())
		}
	}

	if _, err := track.GroundTrack(start, time.Minute, 1, 1); !errors.Is(err, ErrSampleCount) {
		t.Errorf("err = %v, want ErrSampleCount", err)
	}
}
