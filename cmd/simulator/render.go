package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/signalsfoundry/netglobe/core"
	"github.com/signalsfoundry/netglobe/model"
)

var (
	heading = color.New(color.FgHiWhite, color.Bold)
	subtle  = color.New(color.FgHiBlack)

	tokenColors = map[model.ColorToken]*color.Color{
		model.ColorPrimary:           color.New(color.FgHiCyan),
		model.ColorNetworkNode:       color.New(color.FgCyan),
		model.ColorNetworkZone:       color.New(color.FgBlue),
		model.ColorNetworkConnection: color.New(color.FgYellow),
	}
)

func paint(c model.Color) *color.Color {
	if p, ok := tokenColors[c.Token]; ok {
		return p
	}
	return subtle
}

// terminalRenderer prints a sampled text view of each variant.
type terminalRenderer struct {
	w     io.Writer
	every int
	orbit *core.OrbitTrack
	epoch time.Time
}

func newTerminalRenderer(w io.Writer, every int, orbit *core.OrbitTrack) *terminalRenderer {
	if every < 1 {
		every = 1
	}
	return &terminalRenderer{w: w, every: every, orbit: orbit, epoch: time.Now().UTC()}
}

func (r *terminalRenderer) RenderSphere(_ context.Context, f core.SphereFrame) error {
	if f.Frame%uint64(r.every) != 0 {
		return nil
	}
	heading.Fprintf(r.w, "globe frame %d", f.Frame)
	subtle.Fprintf(r.w, "  t=%.3fs  rotation=%.3f rad\n", f.Elapsed, f.Rotation)
	for _, n := range f.Nodes {
		paint(n.Color).Fprintf(r.w, "  ● %-22s", n.Label)
		fmt.Fprintf(r.w, " scale=%.3f size=%.4f\n", n.Scale, n.Size)
	}
	for _, e := range f.Edges {
		paint(e.Color).Fprintf(r.w, "  ─ %d→%d", e.From, e.To)
		fmt.Fprintf(r.w, " opacity=%.3f points=%d\n", e.Opacity, len(e.Points))
	}
	if r.orbit != nil {
		at := r.epoch.Add(time.Duration(f.Elapsed * float64(time.Second)))
		lat, lng, alt := r.orbit.SubPoint(at)
		subtle.Fprintf(r.w, "  ✦ %s lat=%.2f lng=%.2f alt=%.0fkm\n", r.orbit.Name, lat, lng, alt)
	}
	return nil
}

func (r *terminalRenderer) RenderPlanar(_ context.Context, f core.PlanarFrame) error {
	if f.Step%r.every != 0 {
		return nil
	}
	heading.Fprintf(r.w, "planar step %d\n", f.Step)
	for _, n := range f.Nodes {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		paint(n.Color).Fprintf(r.w, "  ● %-22s", label)
		fmt.Fprintf(r.w, " (%.0f,%.0f) scale=%.3f\n", n.Position.X, n.Position.Y, n.Scale)
	}
	for _, c := range f.Connectors {
		fmt.Fprintf(r.w, "  ─ #%d len=%.1f angle=%.1f° opacity=%.3f\n", c.Index, c.Length, c.AngleDeg, c.Opacity)
	}
	return nil
}

type nodeSample struct {
	ID    string  `json:"id"`
	Scale float64 `json:"scale"`
	Size  float64 `json:"size"`
}

type edgeSample struct {
	Index   int     `json:"index"`
	Opacity float64 `json:"opacity"`
}

type frameSample struct {
	Variant string       `json:"variant"`
	Frame   uint64       `json:"frame,omitempty"`
	Step    int          `json:"step"`
	Elapsed float64      `json:"elapsed,omitempty"`
	Nodes   []nodeSample `json:"nodes"`
	Edges   []edgeSample `json:"edges"`
}

// jsonRenderer writes one JSON object per sampled frame.
type jsonRenderer struct {
	enc   *json.Encoder
	every int
}

func newJSONRenderer(w io.Writer, every int) *jsonRenderer {
	if every < 1 {
		every = 1
	}
	return &jsonRenderer{enc: json.NewEncoder(w), every: every}
}

func (r *jsonRenderer) RenderSphere(_ context.Context, f core.SphereFrame) error {
	if f.Frame%uint64(r.every) != 0 {
		return nil
	}
	out := frameSample{
		Variant: core.VariantSphere,
		Frame:   f.Frame,
		Elapsed: f.Elapsed,
		Nodes:   make([]nodeSample, len(f.Nodes)),
		Edges:   make([]edgeSample, len(f.Edges)),
	}
	for i, n := range f.Nodes {
		out.Nodes[i] = nodeSample{ID: n.ID, Scale: n.Scale, Size: n.Size}
	}
	for i, e := range f.Edges {
		out.Edges[i] = edgeSample{Index: e.Index, Opacity: e.Opacity}
	}
	return r.enc.Encode(out)
}

func (r *jsonRenderer) RenderPlanar(_ context.Context, f core.PlanarFrame) error {
	if f.Step%r.every != 0 {
		return nil
	}
	out := frameSample{
		Variant: core.VariantPlanar,
		Step:    f.Step,
		Nodes:   make([]nodeSample, len(f.Nodes)),
		Edges:   make([]edgeSample, len(f.Connectors)),
	}
	for i, n := range f.Nodes {
		out.Nodes[i] = nodeSample{ID: n.ID, Scale: n.Scale, Size: n.Size * n.Scale}
	}
	for i, c := range f.Connectors {
		out.Edges[i] = edgeSample{Index: c.Index, Opacity: c.Opacity}
	}
	return r.enc.Encode(out)
}
