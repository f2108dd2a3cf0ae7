package core

import (
	"context"

	"github.com/signalsfoundry/netglobe/model"
)

// GlobeSpinPerFrame is the globe mesh rotation applied by renderers each
// frame, in radians about +Y. Node positions are never rotated by the engine.
const GlobeSpinPerFrame = 0.003

// Variant labels used in logs and metrics.
const (
	VariantSphere = "sphere"
	VariantPlanar = "planar"
)

// NodeFrame is everything a renderer needs to draw one globe marker.
type NodeFrame struct {
	Index         int
	ID            string
	Label         string
	Position      Vec3
	LabelPosition Vec3
	Scale         float64 // NodePulse value
	Size          float64 // BaseSize * Scale
	GlowSize      float64
	GlowOpacity   float64
	Color         model.Color
}

// EdgeFrame is one globe connection for the current frame.
type EdgeFrame struct {
	Index   int
	From    int
	To      int
	Points  []Vec3  // per-frame copy of the sampled curve
	Opacity float64 // EdgeFlicker value
	Color   model.Color
}

// SphereFrame is a complete globe frame.
type SphereFrame struct {
	Frame    uint64
	Elapsed  float64 // seconds
	Rotation float64 // radians
	Nodes    []NodeFrame
	Edges    []EdgeFrame
}

// PlanarNodeFrame is one planar marker for the current step.
type PlanarNodeFrame struct {
	Index         int
	ID            string
	Label         string
	Position      Point2
	LabelPosition Point2
	Scale         float64 // PlanarPulse value
	Size          float64 // authored size, before Scale
	Color         model.Color
}

// ConnectorFrame is one planar connector for the current step.
type ConnectorFrame struct {
	Index    int
	From     Point2
	To       Point2
	Length   float64
	AngleDeg float64
	Opacity  float64 // PlanarFlicker value
}

// PlanarFrame is a complete planar frame.
type PlanarFrame struct {
	Step       int
	Nodes      []PlanarNodeFrame
	Connectors []ConnectorFrame
}

// Renderer draws frames. Implementations own every display concern:
// camera, input, and how a point becomes a pixel.
type Renderer interface {
	RenderSphere(ctx context.Context, f SphereFrame) error
	RenderPlanar(ctx context.Context, f PlanarFrame) error
}

// BuildSphereFrame evaluates the globe oscillators for every node and
// edge at elapsed seconds t.
func BuildSphereFrame(g *SphereGraph, t float64, frame uint64) SphereFrame {
	f := SphereFrame{
		Frame:    frame,
		Elapsed:  t,
		Rotation: float64(frame) * GlobeSpinPerFrame,
		Nodes:    make([]NodeFrame, len(g.nodes)),
		Edges:    make([]EdgeFrame, len(g.edges)),
	}
	for i, n := range g.nodes {
		scale := NodePulse.At(t, n.Index)
		f.Nodes[i] = NodeFrame{
			Index:         n.Index,
			ID:            n.ID,
			Label:         n.Label,
			Position:      n.Position,
			LabelPosition: n.LabelPosition,
			Scale:         scale,
			Size:          n.BaseSize * scale,
			GlowSize:      n.BaseSize * GlowSizeFactor * scale,
			GlowOpacity:   GlowOpacity,
			Color:         n.Color,
		}
	}
	for i, e := range g.edges {
		f.Edges[i] = EdgeFrame{
			Index:   e.Index,
			From:    e.From,
			To:      e.To,
			Points:  append([]Vec3(nil), g.curves[i]...),
			Opacity: EdgeFlicker.At(t, e.Index),
			Color:   g.edgeColor,
		}
	}
	return f
}

// BuildPlanarFrame evaluates the planar oscillators at the given step.
func BuildPlanarFrame(g *PlanarGraph, step int) PlanarFrame {
	t := float64(step)
	f := PlanarFrame{
		Step:       step,
		Nodes:      make([]PlanarNodeFrame, len(g.nodes)),
		Connectors: make([]ConnectorFrame, len(g.connectors)),
	}
	for i, n := range g.nodes {
		f.Nodes[i] = PlanarNodeFrame{
			Index:         n.Index,
			ID:            n.ID,
			Label:         n.Label,
			Position:      n.Position,
			LabelPosition: n.LabelPosition,
			Scale:         PlanarPulse.At(t, n.Index),
			Size:          n.Size,
			Color:         n.Color,
		}
	}
	for i, c := range g.connectors {
		f.Connectors[i] = ConnectorFrame{
			Index:    c.Edge.Index,
			From:     c.From,
			To:       c.To,
			Length:   c.Length,
			AngleDeg: c.AngleDeg,
			Opacity:  PlanarFlicker.At(t, c.Edge.Index),
		}
	}
	return f
}
