package core

import (
	"math"

	"github.com/signalsfoundry/netglobe/model"
)

// EarthRadiusKm is the mean Earth radius, used to scale orbital altitudes
// onto the unit globe.
const EarthRadiusKm = 6371.0

// DefaultGlobeRadius is the scene-space radius of the globe mesh.
const DefaultGlobeRadius = 2.0

const degToRad = math.Pi / 180

// Vec3 is a scene-space vector. Y is up: latitude +90° maps to +Y.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistanceTo returns the straight-line distance between two points.
func (v Vec3) DistanceTo(other Vec3) float64 {
	return v.Sub(other).Norm()
}

// Project maps geographic degrees onto a sphere of the given radius.
//
// phi is the polar angle measured from +Y and theta the azimuth, offset by
// 180° so that lng = 0 lands on -X. Inputs are not clamped or validated;
// out-of-range values wrap through the trigonometric functions.
func Project(lat, lng, radius float64) Vec3 {
	phi := (90 - lat) * degToRad
	theta := (lng + 180) * degToRad

	return Vec3{
		X: radius * math.Sin(phi) * math.Cos(theta),
		Y: radius * math.Cos(phi),
		Z: radius * math.Sin(phi) * math.Sin(theta),
	}
}

// ProjectLocation projects a Location at the given radius.
func ProjectLocation(loc model.Location, radius float64) Vec3 {
	return Project(loc.Lat, loc.Lng, radius)
}

// minClearance returns the smallest signed distance between any of the
// points and the surface of a sphere of the given radius. Negative values
// mean at least one point lies inside the sphere.
func minClearance(points []Vec3, radius float64) float64 {
	if len(points) == 0 {
		return 0
	}
	clearance := math.Inf(1)
	for _, p := range points {
		if d := p.Norm() - radius; d < clearance {
			clearance = d
		}
	}
	return clearance
}
