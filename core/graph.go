package core

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/signalsfoundry/netglobe/internal/logging"
	"github.com/signalsfoundry/netglobe/model"
)

// Globe marker geometry.
const (
	MarkerBaseSize   = 0.03
	GlowSizeFactor   = 2.0
	GlowOpacity      = 0.3
	LabelRadialScale = 1.2
)

// SpatialNode is a Location resolved onto the globe.
type SpatialNode struct {
	Index         int
	ID            string
	Label         string
	Position      Vec3
	LabelPosition Vec3
	Color         model.Color
	BaseSize      float64
}

// GraphEdge is a validated connection between two node indices. Index is
// the edge's position in the authored table and drives its phase offset,
// so dropping an edge never shifts the tempo of the others.
type GraphEdge struct {
	Index int
	From  int
	To    int
}

// EdgeRejection records an edge dropped in lenient mode.
type EdgeRejection struct {
	Index int
	Edge  model.Edge
	Err   error
}

// EdgeRejectionRecorder receives the number of edges dropped while building
// a graph.
type EdgeRejectionRecorder interface {
	AddRejectedEdges(variant string, n int)
}

// GraphOption configures graph construction.
type GraphOption func(*graphOptions)

type graphOptions struct {
	radius   float64
	samples  int
	palette  Palette
	lenient  bool
	log      logging.Logger
	recorder EdgeRejectionRecorder
}

// WithRadius sets the globe radius used for projection.
func WithRadius(r float64) GraphOption {
	return func(o *graphOptions) { o.radius = r }
}

// WithCurveSamples sets the number of points sampled per globe connection.
func WithCurveSamples(n int) GraphOption {
	return func(o *graphOptions) { o.samples = n }
}

// WithPalette overrides the color palette.
func WithPalette(p Palette) GraphOption {
	return func(o *graphOptions) { o.palette = p }
}

// WithLenientEdges drops invalid edges, logging each one, instead of
// failing construction.
func WithLenientEdges(log logging.Logger) GraphOption {
	return func(o *graphOptions) {
		o.lenient = true
		o.log = log
	}
}

// WithEdgeRecorder reports dropped edges to r.
func WithEdgeRecorder(r EdgeRejectionRecorder) GraphOption {
	return func(o *graphOptions) { o.recorder = r }
}

func newGraphOptions(opts []GraphOption) graphOptions {
	o := graphOptions{
		radius:  DefaultGlobeRadius,
		samples: DefaultCurveSamples,
		palette: DefaultPalette(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logging.Noop()
	}
	return o
}

// SphereGraph is the immutable globe node/edge table with precomputed
// connection curves.
type SphereGraph struct {
	radius    float64
	nodes     []SpatialNode
	edges     []GraphEdge
	curves    [][]Vec3
	clearance []float64
	rejected  []EdgeRejection
	edgeColor model.Color
}

// NewSphereGraph projects every location and validates the edge table.
// Node indices follow the order of locations.
func NewSphereGraph(locations []model.Location, edges []model.Edge, opts ...GraphOption) (*SphereGraph, error) {
	o := newGraphOptions(opts)
	if len(locations) == 0 {
		return nil, ErrEmptyScene
	}
	if o.samples < 2 {
		return nil, fmt.Errorf("%w: got %d, need at least 2", ErrSampleCount, o.samples)
	}

	explicit := make([]string, len(locations))
	labels := make([]string, len(locations))
	for i, loc := range locations {
		explicit[i], labels[i] = loc.ID, loc.Name
	}
	ids, err := assignNodeIDs(explicit, labels)
	if err != nil {
		return nil, err
	}

	nodes := make([]SpatialNode, len(locations))
	for i, loc := range locations {
		color, err := o.palette.Resolve(loc.Color)
		if err != nil {
			return nil, fmt.Errorf("location %d (%s): %w", i, loc.Name, err)
		}
		pos := ProjectLocation(loc, o.radius)
		nodes[i] = SpatialNode{
			Index:         i,
			ID:            ids[i],
			Label:         loc.Name,
			Position:      pos,
			LabelPosition: pos.Scale(LabelRadialScale),
			Color:         color,
			BaseSize:      MarkerBaseSize,
		}
	}

	resolved, rejected, err := resolveEdges(VariantSphere, ids, edges, o)
	if err != nil {
		return nil, err
	}
	edgeColor, err := o.palette.Resolve(string(model.ColorPrimary))
	if err != nil {
		return nil, fmt.Errorf("edge color: %w", err)
	}

	g := &SphereGraph{
		radius:    o.radius,
		nodes:     nodes,
		edges:     resolved,
		curves:    make([][]Vec3, len(resolved)),
		clearance: make([]float64, len(resolved)),
		rejected:  rejected,
		edgeColor: edgeColor,
	}
	for i, e := range resolved {
		pts, err := SampleQuadratic(nodes[e.From].Position, nodes[e.To].Position, o.samples)
		if err != nil {
			return nil, err
		}
		g.curves[i] = pts
		g.clearance[i] = minClearance(pts, o.radius)
	}
	return g, nil
}

// Radius returns the projection radius.
func (g *SphereGraph) Radius() float64 { return g.radius }

// Nodes returns a copy of the node table.
func (g *SphereGraph) Nodes() []SpatialNode {
	return append([]SpatialNode(nil), g.nodes...)
}

// Node returns the node at index i.
func (g *SphereGraph) Node(i int) (SpatialNode, bool) {
	if i < 0 || i >= len(g.nodes) {
		return SpatialNode{}, false
	}
	return g.nodes[i], true
}

// Edges returns a copy of the validated edge table.
func (g *SphereGraph) Edges() []GraphEdge {
	return append([]GraphEdge(nil), g.edges...)
}

// Curve returns a copy of the sampled polyline for the i-th validated edge.
func (g *SphereGraph) Curve(i int) []Vec3 {
	if i < 0 || i >= len(g.curves) {
		return nil
	}
	return append([]Vec3(nil), g.curves[i]...)
}

// Clearance returns the lowest altitude above the globe surface reached by
// the i-th edge's curve. Negative values mean the arc dips inside the globe.
func (g *SphereGraph) Clearance(i int) float64 {
	if i < 0 || i >= len(g.clearance) {
		return 0
	}
	return g.clearance[i]
}

// EdgeColor returns the color shared by all globe connections.
func (g *SphereGraph) EdgeColor() model.Color { return g.edgeColor }

// Rejected returns the edges dropped in lenient mode.
func (g *SphereGraph) Rejected() []EdgeRejection {
	return append([]EdgeRejection(nil), g.rejected...)
}

// assignNodeIDs returns one unique id per node. Explicit ids must be
// unique. Derived ids never fail: a derived id that is already taken gets
// the node index appended.
func assignNodeIDs(explicit, labels []string) ([]string, error) {
	ids := make([]string, len(explicit))
	taken := make(map[string]int, len(explicit))
	for i, id := range explicit {
		if id == "" {
			continue
		}
		if prev, exists := taken[id]; exists {
			return nil, fmt.Errorf("%w: %q at indices %d and %d", ErrDuplicateNode, id, prev, i)
		}
		taken[id] = i
		ids[i] = id
	}
	for i, id := range explicit {
		if id != "" {
			continue
		}
		base := nodeID("", labels[i], i)
		derived := base
		for n := 0; ; n++ {
			if _, exists := taken[derived]; !exists {
				break
			}
			if n == 0 {
				derived = fmt.Sprintf("%s-%d", base, i)
			} else {
				derived = fmt.Sprintf("%s-%d-%d", base, i, n)
			}
		}
		taken[derived] = i
		ids[i] = derived
	}
	return ids, nil
}

// resolveEdges maps authored edges onto node indices. In strict mode the
// first invalid edge aborts construction.
func resolveEdges(variant string, ids []string, edges []model.Edge, o graphOptions) ([]GraphEdge, []EdgeRejection, error) {
	byID := make(map[string]int, len(ids))
	for i, id := range ids {
		byID[id] = i
	}

	out := make([]GraphEdge, 0, len(edges))
	var rejected []EdgeRejection
	for i, e := range edges {
		from, to, err := lookupEdge(e, byID, len(ids))
		if err != nil {
			err = fmt.Errorf("%s edge %d: %w", variant, i, err)
			if !o.lenient {
				return nil, nil, err
			}
			o.log.Warn(context.Background(), "dropping invalid edge",
				logging.String("variant", variant),
				logging.Int("edge", i),
				logging.String("error", err.Error()),
			)
			rejected = append(rejected, EdgeRejection{Index: i, Edge: e, Err: err})
			continue
		}
		out = append(out, GraphEdge{Index: i, From: from, To: to})
	}
	if len(rejected) > 0 && o.recorder != nil {
		o.recorder.AddRejectedEdges(variant, len(rejected))
	}
	return out, rejected, nil
}

func lookupEdge(e model.Edge, byID map[string]int, n int) (int, int, error) {
	if e.ByID() {
		from, ok := byID[e.FromID]
		if !ok {
			return 0, 0, fmt.Errorf("%w: from %q", ErrUnknownNode, e.FromID)
		}
		to, ok := byID[e.ToID]
		if !ok {
			return 0, 0, fmt.Errorf("%w: to %q", ErrUnknownNode, e.ToID)
		}
		return from, to, nil
	}
	if e.From < 0 || e.From >= n || e.To < 0 || e.To >= n {
		return 0, 0, fmt.Errorf("%w: (%d, %d) with %d nodes", ErrEdgeOutOfRange, e.From, e.To, n)
	}
	return e.From, e.To, nil
}

// nodeID returns the explicit id, or a slug of the label, or a positional
// fallback for unlabeled nodes.
func nodeID(id, label string, index int) string {
	if id != "" {
		return id
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return fmt.Sprintf("node-%d", index)
	}
	return slug
}
