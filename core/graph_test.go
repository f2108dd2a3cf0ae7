package core

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/signalsfoundry/netglobe/internal/logging"
	"github.com/signalsfoundry/netglobe/model"
)

type rejectCounter struct {
	variant string
	n       int
}

func (r *rejectCounter) AddRejectedEdges(variant string, n int) {
	r.variant = variant
	r.n += n
}

func TestNewSphereGraph_DefaultScene(t *testing.T) {
	g, err := NewSphereGraph(DefaultLocations(), DefaultSphereEdges())
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	nodes := g.Nodes()
	if len(nodes) != 8 {
		t.Fatalf("nodes = %d, want 8", len(nodes))
	}
	edges := g.Edges()
	if len(edges) != 9 {
		t.Fatalf("edges = %d, want 9", len(edges))
	}
	for i, e := range edges {
		if e.Index != i {
			t.Errorf("edge %d Index = %d", i, e.Index)
		}
		if e.From < 0 || e.From > 7 || e.To < 0 || e.To > 7 {
			t.Errorf("edge %d out of range: %+v", i, e)
		}
	}
	if g.Radius() != DefaultGlobeRadius {
		t.Errorf("Radius = %v", g.Radius())
	}
}

func TestNewSphereGraph_NodeAttributes(t *testing.T) {
	g, err := NewSphereGraph(DefaultLocations(), DefaultSphereEdges())
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	n, ok := g.Node(0)
	if !ok {
		t.Fatalf("Node(0) missing")
	}
	if n.ID != "solar-farm-network" || n.Label != "Solar Farm Network" {
		t.Errorf("node 0 = %q/%q", n.ID, n.Label)
	}
	if n.Position != Project(37.7749, -122.4194, 2) {
		t.Errorf("node 0 position = %+v", n.Position)
	}
	if n.LabelPosition != n.Position.Scale(1.2) {
		t.Errorf("label position = %+v, want 1.2x position", n.LabelPosition)
	}
	if n.BaseSize != 0.03 {
		t.Errorf("BaseSize = %v, want 0.03", n.BaseSize)
	}
	if n.Color.Token != model.ColorPrimary || n.Color.Hex != "#00D4AA" {
		t.Errorf("color = %+v", n.Color)
	}
	if _, ok := g.Node(8); ok {
		t.Errorf("Node(8) should not exist")
	}
	if g.EdgeColor().Hex != "#00D4AA" {
		t.Errorf("EdgeColor = %+v", g.EdgeColor())
	}
}

func TestNewSphereGraph_Curves(t *testing.T) {
	g, err := NewSphereGraph(DefaultLocations(), DefaultSphereEdges())
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	nodes := g.Nodes()
	for i, e := range g.Edges() {
		c := g.Curve(i)
		if len(c) != DefaultCurveSamples {
			t.Fatalf("curve %d has %d points", i, len(c))
		}
		if c[0] != nodes[e.From].Position || c[len(c)-1] != nodes[e.To].Position {
			t.Errorf("curve %d endpoints do not match nodes", i)
		}
	}
	if g.Curve(99) != nil {
		t.Errorf("Curve(99) should be nil")
	}

	// Sydney to Moscow is ~130° of arc, so the curve dips inside the globe.
	if c := g.Clearance(4); c >= 0 {
		t.Errorf("Clearance(Sydney->Moscow) = %v, want negative", c)
	}
	for i := range g.Edges() {
		if c := g.Clearance(i); c > 1e-9 {
			t.Errorf("Clearance(%d) = %v; endpoints lie on the surface", i, c)
		}
	}
}

func TestNewSphereGraph_CurveSamplesOption(t *testing.T) {
	g, err := NewSphereGraph(DefaultLocations(), DefaultSphereEdges(), WithCurveSamples(5), WithRadius(1))
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	if len(g.Curve(0)) != 5 {
		t.Errorf("curve len = %d, want 5", len(g.Curve(0)))
	}
	if g.Radius() != 1 {
		t.Errorf("Radius = %v, want 1", g.Radius())
	}

	_, err = NewSphereGraph(DefaultLocations(), DefaultSphereEdges(), WithCurveSamples(1))
	if !errors.Is(err, ErrSampleCount) {
		t.Fatalf("err = %v, want ErrSampleCount", err)
	}
}

func TestNewSphereGraph_EdgeOutOfRangeStrict(t *testing.T) {
	for _, e := range []model.Edge{{From: 0, To: 8}, {From: -1, To: 2}} {
		_, err := NewSphereGraph(DefaultLocations(), []model.Edge{e})
		if !errors.Is(err, ErrEdgeOutOfRange) {
			t.Errorf("edge %+v: err = %v, want ErrEdgeOutOfRange", e, err)
		}
	}
}

func TestNewSphereGraph_LenientDropsAndKeepsPhase(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: "warn", Output: &buf})
	rec := &rejectCounter{}

	edges := []model.Edge{{From: 0, To: 1}, {From: 0, To: 99}, {From: 1, To: 2}}
	g, err := NewSphereGraph(DefaultLocations(), edges, WithLenientEdges(log), WithEdgeRecorder(rec))
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	got := g.Edges()
	if len(got) != 2 {
		t.Fatalf("edges = %d, want 2", len(got))
	}
	if got[1].Index != 2 {
		t.Errorf("surviving edge Index = %d, want its authored position 2", got[1].Index)
	}
	rej := g.Rejected()
	if len(rej) != 1 || rej[0].Index != 1 || !errors.Is(rej[0].Err, ErrEdgeOutOfRange) {
		t.Errorf("Rejected = %+v", rej)
	}
	if rec.n != 1 || rec.variant != VariantSphere {
		t.Errorf("recorder = %+v, want 1 sphere rejection", rec)
	}
	if !strings.Contains(buf.String(), "dropping invalid edge") {
		t.Errorf("expected a warning log, got %q", buf.String())
	}
}

func TestNewSphereGraph_EdgesByID(t *testing.T) {
	locs := []model.Location{
		{ID: "sf", Name: "San Francisco", Lat: 37.7, Lng: -122.4, Color: "primary"},
		{ID: "ldn", Name: "London", Lat: 51.5, Lng: -0.1, Color: "network-zone"},
	}
	g, err := NewSphereGraph(locs, []model.Edge{{FromID: "ldn", ToID: "sf"}})
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	if e := g.Edges()[0]; e.From != 1 || e.To != 0 {
		t.Fatalf("edge = %+v, want 1->0", e)
	}

	_, err = NewSphereGraph(locs, []model.Edge{{FromID: "sf", ToID: "paris"}})
	if !errors.Is(err, ErrUnknownNode) {
		t.Fatalf("err = %v, want ErrUnknownNode", err)
	}
}

func TestNewSphereGraph_DuplicateExplicitIDs(t *testing.T) {
	locs := []model.Location{
		{ID: "hub", Name: "Solar Farms", Color: "primary"},
		{ID: "hub", Name: "Grid Network", Color: "primary"},
	}
	_, err := NewSphereGraph(locs, nil)
	if !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("err = %v, want ErrDuplicateNode", err)
	}
}

func TestNewSphereGraph_RepeatedNamesBuild(t *testing.T) {
	locs := DefaultLocations()
	locs[6].Name = locs[0].Name

	g, err := NewSphereGraph(locs, DefaultSphereEdges())
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	nodes := g.Nodes()
	if len(nodes) != 8 || len(g.Edges()) != 9 {
		t.Fatalf("nodes/edges = %d/%d, want 8/9", len(nodes), len(g.Edges()))
	}
	if nodes[0].ID != "solar-farm-network" || nodes[6].ID != "solar-farm-network-6" {
		t.Errorf("ids = %q, %q", nodes[0].ID, nodes[6].ID)
	}
	if nodes[6].Label != locs[0].Name {
		t.Errorf("label = %q, want the authored name", nodes[6].Label)
	}
}

func TestAssignNodeIDs(t *testing.T) {
	cases := []struct {
		name     string
		explicit []string
		labels   []string
		want     []string
	}{
		{"slug-equal labels", []string{"", ""}, []string{"Solar Farms", "Solar-Farms!"}, []string{"solar-farms", "solar-farms-1"}},
		{"label matches fallback", []string{"", ""}, []string{"node-1", ""}, []string{"node-1", "node-1-1"}},
		{"explicit wins over derived", []string{"", "solar-farms"}, []string{"Solar Farms", "x"}, []string{"solar-farms-0", "solar-farms"}},
		{"suffix already taken", []string{"", "a-1", ""}, []string{"a", "", "a"}, []string{"a", "a-1", "a-2"}},
		{"second suffix", []string{"b-1", "", ""}, []string{"", "b", "b"}, []string{"b-1", "b", "b-2"}},
		{"all taken", []string{"", "c-2", ""}, []string{"c", "", "c"}, []string{"c", "c-2", "c-2-1"}},
	}
	for _, tc := range cases {
		got, err := assignNodeIDs(tc.explicit, tc.labels)
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		for i := range tc.want {
			if got[i] != tc.want[i] {
				t.Errorf("%s: ids = %q, want %q", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestNewSphereGraph_InvalidInputs(t *testing.T) {
	if _, err := NewSphereGraph(nil, nil); !errors.Is(err, ErrEmptyScene) {
		t.Errorf("empty: err = %v, want ErrEmptyScene", err)
	}
	locs := []model.Location{{Name: "x", Color: "magenta"}}
	if _, err := NewSphereGraph(locs, nil); !errors.Is(err, ErrUnknownColor) {
		t.Errorf("bad color: err = %v, want ErrUnknownColor", err)
	}
}

func TestNewSphereGraph_NoEdges(t *testing.T) {
	g, err := NewSphereGraph(DefaultLocations(), nil)
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	if len(g.Edges()) != 0 {
		t.Fatalf("edges = %d, want 0", len(g.Edges()))
	}
}

func TestNodeID(t *testing.T) {
	cases := []struct {
		id, label string
		index     int
		want      string
	}{
		{"hub", "Ignored Label", 0, "hub"},
		{"", "Solar Farm Network", 0, "solar-farm-network"},
		{"", "  Investment  Hub! ", 1, "investment-hub"},
		{"", "São Paulo", 2, "são-paulo"},
		{"", "", 3, "node-3"},
		{"", "--", 4, "node-4"},
	}
	for _, tc := range cases {
		if got := nodeID(tc.id, tc.label, tc.index); got != tc.want {
			t.Errorf("nodeID(%q,%q,%d) = %q, want %q", tc.id, tc.label, tc.index, got, tc.want)
		}
	}
}
