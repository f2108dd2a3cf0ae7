package model

// Location is a named geographic anchor for a globe node.
// Lat/Lng are degrees; values outside the nominal ranges are accepted as-is.
type Location struct {
	ID    string // optional; derived from Name when empty
	Name  string
	Lat   float64
	Lng   float64
	Color string // palette token or known hex, resolved at graph construction
}

// PlanarNode is a node authored directly in screen-space pixels.
type PlanarNode struct {
	ID    string
	Label string
	X     float64
	Y     float64
	Color string
	Size  float64
}
