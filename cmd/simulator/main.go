package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/signalsfoundry/netglobe/core"
	"github.com/signalsfoundry/netglobe/internal/config"
	"github.com/signalsfoundry/netglobe/internal/logging"
	"github.com/signalsfoundry/netglobe/internal/observability"
	"github.com/signalsfoundry/netglobe/kb"
	"github.com/signalsfoundry/netglobe/timectrl"
)

type options struct {
	configPath string
	scenePath  string
	writeScene string
	tlePath    string
	output     string // text | json | none
	every      int
	duration   time.Duration
	mode       string
	lenient    bool
	metrics    string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a YAML config file (default: NETGLOBE_CONFIG or ./netglobe.yaml)")
	flag.StringVar(&opts.scenePath, "scene", "", "scene file (.json or .yaml); overrides scene.path")
	flag.StringVar(&opts.writeScene, "write-scene", "", "write the built-in scene to this path and exit")
	flag.StringVar(&opts.tlePath, "tle", "", "optional three-line TLE file for an orbit overlay")
	flag.StringVar(&opts.output, "output", "text", "frame output: text, json or none")
	flag.IntVar(&opts.every, "every", 30, "print every Nth globe frame")
	flag.DurationVar(&opts.duration, "duration", 0, "frame time to run; overrides animation.duration")
	flag.StringVar(&opts.mode, "mode", "", "realtime or accelerated; overrides animation.mode")
	flag.BoolVar(&opts.lenient, "lenient", false, "drop invalid edges instead of failing")
	flag.StringVar(&opts.metrics, "metrics-addr", "", "serve Prometheus /metrics on this address")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "simulator: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, stdout io.Writer) error {
	if opts.writeScene != "" {
		return writeDefaultScene(opts.writeScene)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.LoggerConfig())

	shutdownTracing, err := observability.InitTracing(ctx, cfg.TracingSetup(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)

	collector, err := observability.NewFrameCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics.Addr, collector, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	scene, err := loadScene(cfg.Scene.Path)
	if err != nil {
		return err
	}

	graphOpts := []core.GraphOption{
		core.WithRadius(cfg.Scene.Radius),
		core.WithCurveSamples(cfg.Scene.CurveSamples),
		core.WithEdgeRecorder(collector),
	}
	if cfg.Scene.LenientEdges {
		graphOpts = append(graphOpts, core.WithLenientEdges(log))
	}

	engineOpts := []core.EngineOption{
		core.WithLogger(log),
		core.WithFrameRecorder(collector),
	}
	renderer, err := newRenderer(opts, stdout)
	if err != nil {
		return err
	}
	if renderer != nil {
		engineOpts = append(engineOpts, core.WithRenderer(renderer))
	}

	engine, err := core.NewEngineFromScene(scene, graphOpts, engineOpts...)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	registry := kb.NewRegistry()
	registry.Subscribe(func(e kb.Event) {
		log.Info(ctx, "visualization "+e.Type.String(),
			logging.String("id", e.Entry.ID),
			logging.String("name", e.Entry.Name),
		)
	})
	mountID, err := registry.Mount("landing", engine)
	if err != nil {
		return err
	}
	defer func() { _ = registry.Unmount(mountID) }()
	ctx = logging.ContextWithSceneID(ctx, mountID)

	mode := timectrl.Accelerated
	if cfg.Animation.Mode == "realtime" {
		mode = timectrl.RealTime
	}
	driver := timectrl.NewFrameDriver(cfg.Animation.FrameInterval, mode)

	planarStep := newStepAccumulator(cfg.Animation.StepInterval)
	driver.AddListener(func(ft timectrl.FrameTick) {
		engine.Tick(ctx, ft.Delta)
		for range planarStep.add(ft.Delta) {
			engine.StepPlanar(ctx)
		}
	})

	log.Info(ctx, "starting frame driver",
		logging.Duration("duration", cfg.Animation.Duration),
		logging.Duration("frame_interval", cfg.Animation.FrameInterval),
		logging.String("mode", mode.String()),
	)
	<-driver.Start(ctx, cfg.Animation.Duration)

	log.Info(ctx, "frame driver stopped",
		logging.Int("frames", int(driver.Frames())),
		logging.Float64("elapsed_seconds", engine.Elapsed()),
		logging.Int("planar_step", engine.Step()),
	)
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.scenePath != "" {
		cfg.Scene.Path = opts.scenePath
	}
	if opts.duration > 0 {
		cfg.Animation.Duration = opts.duration
	}
	if opts.mode != "" {
		cfg.Animation.Mode = strings.ToLower(opts.mode)
	}
	if opts.lenient {
		cfg.Scene.LenientEdges = true
	}
	if opts.metrics != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Addr = opts.metrics
	}
}

func loadScene(path string) (core.Scene, error) {
	if path == "" {
		return core.DefaultScene(), nil
	}
	scene, err := core.LoadSceneFile(path)
	if err != nil {
		return core.Scene{}, fmt.Errorf("load scene %s: %w", path, err)
	}
	return scene, nil
}

func writeDefaultScene(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := core.EncodeScene(f, core.DefaultScene(), core.FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newRenderer(opts options, stdout io.Writer) (core.Renderer, error) {
	var orbit *core.OrbitTrack
	if opts.tlePath != "" {
		var err error
		if orbit, err = loadOrbit(opts.tlePath); err != nil {
			return nil, err
		}
	}
	switch opts.output {
	case "", "text":
		return newTerminalRenderer(stdout, opts.every, orbit), nil
	case "json":
		return newJSONRenderer(stdout, opts.every), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown output %q (want text, json or none)", opts.output)
	}
}

// loadOrbit reads a name line followed by two TLE lines.
func loadOrbit(path string) (*core.OrbitTrack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read TLE: %w", err)
	}
	var lines []string
	for _, l := range strings.Split(string(data), "\n") {
		if l = strings.TrimRight(l, "\r "); l != "" {
			lines = append(lines, l)
		}
	}
	switch len(lines) {
	case 2:
		return core.NewOrbitTrack("satellite", lines[0], lines[1])
	case 3:
		return core.NewOrbitTrack(strings.TrimSpace(lines[0]), lines[1], lines[2])
	default:
		return nil, fmt.Errorf("TLE file %s: want 2 or 3 non-empty lines, got %d", path, len(lines))
	}
}

// stepAccumulator converts frame deltas into fixed-interval planar steps.
type stepAccumulator struct {
	interval time.Duration
	pending  time.Duration
}

func newStepAccumulator(interval time.Duration) *stepAccumulator {
	if interval <= 0 {
		interval = timectrl.PlanarStepInterval
	}
	return &stepAccumulator{interval: interval}
}

// add returns how many whole steps have elapsed.
func (s *stepAccumulator) add(delta time.Duration) int {
	if delta > 0 {
		s.pending += delta
	}
	n := int(s.pending / s.interval)
	s.pending -= time.Duration(n) * s.interval
	return n
}

func serveMetrics(addr string, collector *observability.FrameCollector, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Err(err))
		}
	}()
	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
