package core

import "fmt"

// DefaultCurveSamples matches a 20-segment polyline per connection.
const DefaultCurveSamples = 21

// curveBulge blends the endpoint sum into the Bézier control point.
// It is applied to p0+p1, not to the midpoint.
const curveBulge = 0.7

// ControlPoint returns the quadratic Bézier control point for a connection
// between p0 and p1.
func ControlPoint(p0, p1 Vec3) Vec3 {
	return p0.Add(p1).Scale(curveBulge)
}

// SampleQuadratic evaluates the connection curve from p0 to p1 at n evenly
// spaced parameters in [0, 1]. The first point is p0 and the last is p1.
func SampleQuadratic(p0, p1 Vec3, n int) ([]Vec3, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d, need at least 2", ErrSampleCount, n)
	}

	c := ControlPoint(p0, p1)
	points := make([]Vec3, n)
	last := float64(n - 1)
	for i := range n {
		t := float64(i) / last
		u := 1 - t
		// B(t) = u² p0 + 2ut c + t² p1
		points[i] = p0.Scale(u * u).Add(c.Scale(2 * u * t)).Add(p1.Scale(t * t))
	}
	// Pin the endpoints so callers can compare them exactly.
	points[0] = p0
	points[n-1] = p1
	return points, nil
}
