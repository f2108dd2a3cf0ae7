package core

import "github.com/signalsfoundry/netglobe/model"

// Scene bundles the static tables for both visualization variants.
type Scene struct {
	Locations   []model.Location
	SphereEdges []model.Edge
	PlanarNodes []model.PlanarNode
	PlanarEdges []model.Edge
}

// DefaultScene returns the stock landing-page scene.
func DefaultScene() Scene {
	return Scene{
		Locations:   DefaultLocations(),
		SphereEdges: DefaultSphereEdges(),
		PlanarNodes: DefaultPlanarNodes(),
		PlanarEdges: DefaultPlanarEdges(),
	}
}

// DefaultLocations returns the eight globe locations.
func DefaultLocations() []model.Location {
	return []model.Location{
		{Name: "Solar Farm Network", Lat: 37.7749, Lng: -122.4194, Color: "#00D4AA"}, // San Francisco
		{Name: "Carbon Credit Zones", Lat: 51.5074, Lng: -0.1278, Color: "#4F46E5"},  // London
		{Name: "Active Investors", Lat: 35.6762, Lng: 139.6503, Color: "#F59E0B"},    // Tokyo
		{Name: "Grid Network", Lat: -33.8688, Lng: 151.2093, Color: "#00D4AA"},       // Sydney
		{Name: "Investment Hub", Lat: 40.7128, Lng: -74.0060, Color: "#4F46E5"},      // New York
		{Name: "Energy Trading", Lat: 55.7558, Lng: 37.6173, Color: "#F59E0B"},       // Moscow
		{Name: "Solar Farms", Lat: -23.5505, Lng: -46.6333, Color: "#00D4AA"},        // São Paulo
		{Name: "Clean Energy", Lat: 28.6139, Lng: 77.2090, Color: "#4F46E5"},         // Delhi
	}
}

// DefaultSphereEdges returns the nine globe connections.
func DefaultSphereEdges() []model.Edge {
	return indexEdges([][2]int{
		{0, 1}, {0, 2}, {1, 3}, {2, 4}, {3, 5}, {4, 6}, {5, 7}, {6, 0}, {7, 1},
	})
}

// DefaultPlanarNodes returns the 500x500 px hub layout.
func DefaultPlanarNodes() []model.PlanarNode {
	return []model.PlanarNode{
		{ID: "center", X: 250, Y: 250, Color: "primary", Size: 20},
		{ID: "solar", Label: "Solar Farm Network", X: 150, Y: 120, Color: "network-node", Size: 8},
		{ID: "carbon", Label: "Carbon Credit Zones", X: 380, Y: 280, Color: "network-zone", Size: 8},
		{ID: "investors", Label: "Active Investors", X: 320, Y: 400, Color: "network-connection", Size: 8},
		{ID: "grid1", X: 100, Y: 300, Color: "network-node", Size: 4},
		{ID: "grid2", X: 400, Y: 150, Color: "network-connection", Size: 4},
		{ID: "grid3", X: 180, Y: 380, Color: "network-zone", Size: 4},
		{ID: "grid4", X: 350, Y: 100, Color: "network-node", Size: 4},
	}
}

// DefaultPlanarEdges returns the seven hub connectors.
func DefaultPlanarEdges() []model.Edge {
	return indexEdges([][2]int{
		{0, 1}, {0, 2}, {0, 3}, {1, 4}, {2, 5}, {3, 6}, {0, 7},
	})
}

func indexEdges(pairs [][2]int) []model.Edge {
	out := make([]model.Edge, len(pairs))
	for i, p := range pairs {
		out[i] = model.Edge{From: p[0], To: p[1]}
	}
	return out
}
