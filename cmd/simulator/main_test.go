package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"

	"github.com/signalsfoundry/netglobe/core"
)

const (
	issLine1 = "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	issLine2 = "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
)

func init() {
	color.NoColor = true
}

func testOptions() options {
	return options{
		output:     "json",
		every:      1,
		duration:   200 * time.Millisecond,
		mode:       "accelerated",
	}
}

// TestRun_JSONFrames drives the default scene for a short accelerated run.
func TestRun_JSONFrames(t *testing.T) {
	t.Setenv("NETGLOBE_CONFIG", "")
	opts := testOptions()
	opts.configPath = writeConfig(t, "logging:\n  level: error\nanimation:\n  frame_interval: 10ms\n")

	var out bytes.Buffer
	if err := run(context.Background(), opts, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var sphere, planar int
	var last frameSample
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var f frameSample
		if err := json.Unmarshal(sc.Bytes(), &f); err != nil {
			t.Fatalf("decode frame %q: %v", sc.Text(), err)
		}
		switch f.Variant {
		case core.VariantSphere:
			sphere++
			last = f
		case core.VariantPlanar:
			planar++
		}
	}
	// 200ms of 10ms frames, stepping the planar counter every 50ms.
	if sphere != 20 {
		t.Fatalf("sphere frames = %d, want 20", sphere)
	}
	if planar != 4 {
		t.Fatalf("planar frames = %d, want 4", planar)
	}
	if len(last.Nodes) != 8 || len(last.Edges) != 9 {
		t.Fatalf("last frame nodes/edges = %d/%d", len(last.Nodes), len(last.Edges))
	}
}

func TestRun_WriteSceneThenLoad(t *testing.T) {
	t.Setenv("NETGLOBE_CONFIG", "")
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "scene.yaml")

	if err := run(context.Background(), options{writeScene: scenePath}, &bytes.Buffer{}); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	scene, err := core.LoadSceneFile(scenePath)
	if err != nil {
		t.Fatalf("LoadSceneFile: %v", err)
	}
	if len(scene.Locations) != 8 || len(scene.PlanarNodes) != 8 {
		t.Fatalf("scene sizes = %d/%d", len(scene.Locations), len(scene.PlanarNodes))
	}

	opts := testOptions()
	opts.configPath = writeConfig(t, "logging:\n  level: error\n")
	opts.scenePath = scenePath
	opts.output = "none"
	if err := run(context.Background(), opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("run with scene file: %v", err)
	}
}

func TestRun_StrictSceneFails(t *testing.T) {
	t.Setenv("NETGLOBE_CONFIG", "")
	dir := t.TempDir()
	scenePath := filepath.Join(dir, "bad.json")
	doc := `{"locations":[{"name":"a","lat":0,"lng":0,"color":"primary"}],"edges":[{"from":0,"to":3}]}`
	if err := os.WriteFile(scenePath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := testOptions()
	opts.configPath = writeConfig(t, "logging:\n  level: error\n")
	opts.scenePath = scenePath
	opts.output = "none"
	if err := run(context.Background(), opts, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected strict edge validation to fail")
	}

	opts.lenient = true
	if err := run(context.Background(), opts, &bytes.Buffer{}); err != nil {
		t.Fatalf("lenient run: %v", err)
	}
}

func TestRun_UnknownOutput(t *testing.T) {
	t.Setenv("NETGLOBE_CONFIG", "")
	opts := testOptions()
	opts.configPath = writeConfig(t, "logging:\n  level: error\n")
	opts.output = "svg"
	if err := run(context.Background(), opts, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unknown output to fail")
	}
}

func TestTerminalRenderer(t *testing.T) {
	g, err := core.NewSphereGraph(core.DefaultLocations(), core.DefaultSphereEdges())
	if err != nil {
		t.Fatalf("NewSphereGraph: %v", err)
	}
	orbit, err := core.NewOrbitTrack("ISS", issLine1, issLine2)
	if err != nil {
		t.Fatalf("NewOrbitTrack: %v", err)
	}

	var out bytes.Buffer
	r := newTerminalRenderer(&out, 2, orbit)
	r.epoch = time.Date(2021, 10, 2, 15, 0, 0, 0, time.UTC)

	if err := r.RenderSphere(context.Background(), core.BuildSphereFrame(g, 0.1, 1)); err != nil {
		t.Fatalf("RenderSphere: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("odd frame should be skipped, got %q", out.String())
	}
	if err := r.RenderSphere(context.Background(), core.BuildSphereFrame(g, 0.2, 2)); err != nil {
		t.Fatalf("RenderSphere: %v", err)
	}
	text := out.String()
	for _, want := range []string{"globe frame 2", "Solar Farm Network", "0→1", "ISS lat="} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}

	p, err := core.NewPlanarGraph(core.DefaultPlanarNodes(), core.DefaultPlanarEdges())
	if err != nil {
		t.Fatalf("NewPlanarGraph: %v", err)
	}
	out.Reset()
	if err := r.RenderPlanar(context.Background(), core.BuildPlanarFrame(p, 4)); err != nil {
		t.Fatalf("RenderPlanar: %v", err)
	}
	if !strings.Contains(out.String(), "planar step 4") || !strings.Contains(out.String(), "center") {
		t.Errorf("unexpected planar output:\n%s", out.String())
	}
}

func TestStepAccumulator(t *testing.T) {
	acc := newStepAccumulator(50 * time.Millisecond)
	if n := acc.add(30 * time.Millisecond); n != 0 {
		t.Fatalf("n = %d, want 0", n)
	}
	if n := acc.add(30 * time.Millisecond); n != 1 {
		t.Fatalf("n = %d, want 1", n)
	}
	if n := acc.add(140 * time.Millisecond); n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if n := acc.add(-time.Second); n != 0 {
		t.Fatalf("negative delta produced %d steps", n)
	}
	if newStepAccumulator(0).interval != 50*time.Millisecond {
		t.Fatalf("zero interval should default to the planar step interval")
	}
}

func TestLoadOrbit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "iss.tle")
	if err := os.WriteFile(path, []byte("ISS (ZARYA)\n"+issLine1+"\n"+issLine2+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	track, err := loadOrbit(path)
	if err != nil {
		t.Fatalf("loadOrbit: %v", err)
	}
	if track.Name != "ISS (ZARYA)" {
		t.Fatalf("Name = %q", track.Name)
	}

	if err := os.WriteFile(path, []byte(issLine1+"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := loadOrbit(path); err == nil {
		t.Fatalf("expected error for single-line TLE")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netglobe.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
