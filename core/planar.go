package core

import (
	"fmt"
	"math"

	"github.com/signalsfoundry/netglobe/model"
)

// PlanarLabelOffset is the vertical pixel offset of a planar node's label.
const PlanarLabelOffset = 20.0

// Point2 is a screen-space position in pixels, Y down.
type Point2 struct {
	X, Y float64
}

// PlanarNodeView is a PlanarNode with its color resolved.
type PlanarNodeView struct {
	Index         int
	ID            string
	Label         string
	Position      Point2
	LabelPosition Point2
	Color         model.Color
	Size          float64
}

// Connector is the straight segment drawn for a planar edge.
type Connector struct {
	Edge     GraphEdge
	From     Point2
	To       Point2
	Length   float64
	AngleDeg float64 // atan2(dy, dx) in degrees
}

// PlanarGraph is the static screen-space node layout and its connectors.
type PlanarGraph struct {
	nodes      []PlanarNodeView
	connectors []Connector
	rejected   []EdgeRejection
}

// NewPlanarGraph validates edges and precomputes connector geometry.
// Radius and curve sampling options are ignored.
func NewPlanarGraph(nodes []model.PlanarNode, edges []model.Edge, opts ...GraphOption) (*PlanarGraph, error) {
	o := newGraphOptions(opts)
	if len(nodes) == 0 {
		return nil, ErrEmptyScene
	}

	explicit := make([]string, len(nodes))
	labels := make([]string, len(nodes))
	for i, n := range nodes {
		explicit[i], labels[i] = n.ID, n.Label
	}
	ids, err := assignNodeIDs(explicit, labels)
	if err != nil {
		return nil, err
	}

	views := make([]PlanarNodeView, len(nodes))
	for i, n := range nodes {
		color, err := o.palette.Resolve(n.Color)
		if err != nil {
			return nil, fmt.Errorf("planar node %d (%s): %w", i, n.ID, err)
		}
		views[i] = PlanarNodeView{
			Index:         i,
			ID:            ids[i],
			Label:         n.Label,
			Position:      Point2{X: n.X, Y: n.Y},
			LabelPosition: Point2{X: n.X, Y: n.Y + PlanarLabelOffset},
			Color:         color,
			Size:          n.Size,
		}
	}

	resolved, rejected, err := resolveEdges(VariantPlanar, ids, edges, o)
	if err != nil {
		return nil, err
	}

	connectors := make([]Connector, len(resolved))
	for i, e := range resolved {
		from, to := views[e.From].Position, views[e.To].Position
		dx, dy := to.X-from.X, to.Y-from.Y
		connectors[i] = Connector{
			Edge:     e,
			From:     from,
			To:       to,
			Length:   math.Hypot(dx, dy),
			AngleDeg: math.Atan2(dy, dx) * 180 / math.Pi,
		}
	}

	return &PlanarGraph{nodes: views, connectors: connectors, rejected: rejected}, nil
}

// Nodes returns a copy of the node table.
func (g *PlanarGraph) Nodes() []PlanarNodeView {
	return append([]PlanarNodeView(nil), g.nodes...)
}

// Edges returns the validated edges in authored order.
func (g *PlanarGraph) Edges() []GraphEdge {
	out := make([]GraphEdge, len(g.connectors))
	for i, c := range g.connectors {
		out[i] = c.Edge
	}
	return out
}

// Connectors returns a copy of the connector geometry.
func (g *PlanarGraph) Connectors() []Connector {
	return append([]Connector(nil), g.connectors...)
}

// Rejected returns the edges dropped in lenient mode.
func (g *PlanarGraph) Rejected() []EdgeRejection {
	return append([]EdgeRejection(nil), g.rejected...)
}
