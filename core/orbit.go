package core

import (
	"fmt"
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// OrbitTrack places a satellite marker over the globe from a TLE.
// go-satellite works in kilometres and radians; positions returned here are
// scene-space, with altitude scaled relative to EarthRadiusKm.
type OrbitTrack struct {
	Name string
	sat  satellite.Satellite
}

// NewOrbitTrack parses a two-line element set.
func NewOrbitTrack(name, line1, line2 string) (*OrbitTrack, error) {
	line1 = strings.TrimRight(line1, "\r\n ")
	line2 = strings.TrimRight(line2, "\r\n ")
	if len(line1) < 69 || !strings.HasPrefix(line1, "1 ") {
		return nil, fmt.Errorf("orbit %q: malformed TLE line 1", name)
	}
	if len(line2) < 69 || !strings.HasPrefix(line2, "2 ") {
		return nil, fmt.Errorf("orbit %q: malformed TLE line 2", name)
	}
	return &OrbitTrack{
		Name: name,
		sat:  satellite.TLEToSat(line1, line2, satellite.GravityWGS72),
	}, nil
}

// SubPoint returns the geodetic latitude and longitude (degrees) below the
// satellite at t, and its altitude in kilometres.
func (o *OrbitTrack) SubPoint(t time.Time) (lat, lng, altKm float64) {
	t = t.UTC()
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	posECI, _ := satellite.Propagate(o.sat, year, int(month), day, hour, min, sec)
	jd := satellite.JDay(year, int(month), day, hour, min, sec)
	gmst := satellite.ThetaG_JD(jd)
	alt, _, ll := satellite.ECIToLLA(posECI, gmst)

	return ll.Latitude * 180 / math.Pi, ll.Longitude * 180 / math.Pi, alt
}

// Position projects the satellite at t over a globe of the given radius.
func (o *OrbitTrack) Position(t time.Time, radius float64) Vec3 {
	lat, lng, alt := o.SubPoint(t)
	return Project(lat, lng, radius*(1+alt/EarthRadiusKm))
}

// GroundTrack samples n surface points under the satellite starting at
// start, step apart.
func (o *OrbitTrack) GroundTrack(start time.Time, step time.Duration, n int, radius float64) ([]Vec3, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d, need at least 2", ErrSampleCount, n)
	}
	out := make([]Vec3, n)
	for i := range n {
		lat, lng, _ := o.SubPoint(start.Add(time.Duration(i) * step))
		out[i] = Project(lat, lng, radius)
	}
	return out, nil
}
