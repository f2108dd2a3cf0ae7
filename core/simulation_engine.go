package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/netglobe/internal/logging"
	"github.com/signalsfoundry/netglobe/timectrl"
)

const tracerName = "github.com/signalsfoundry/netglobe/core"

// FrameRecorder receives per-frame measurements.
type FrameRecorder interface {
	ObserveFrame(variant string, build time.Duration)
	ObserveRenderError(variant string)
	SetElapsed(seconds float64)
	SetSceneCounts(variant string, nodes, edges int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveFrame(string, time.Duration) {}
func (noopRecorder) ObserveRenderError(string)          {}
func (noopRecorder) SetElapsed(float64)                 {}
func (noopRecorder) SetSceneCounts(string, int, int)    {}

// Engine owns the animation state of one mounted visualization and turns
// host ticks into frames for its renderers.
type Engine struct {
	sphere *SphereGraph
	planar *PlanarGraph

	clock *timectrl.AnimationClock
	steps *timectrl.StepCounter

	renderers []Renderer
	recorder  FrameRecorder
	log       logging.Logger
	tracer    trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithRenderer adds a renderer. Renderers are called in registration order.
func WithRenderer(r Renderer) EngineOption {
	return func(e *Engine) { e.renderers = append(e.renderers, r) }
}

// WithFrameRecorder sets the metrics sink.
func WithFrameRecorder(r FrameRecorder) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logging.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine builds an engine over prebuilt graphs. Either graph may be nil
// to disable that variant, but not both.
func NewEngine(sphere *SphereGraph, planar *PlanarGraph, opts ...EngineOption) (*Engine, error) {
	if sphere == nil && planar == nil {
		return nil, ErrEmptyScene
	}
	e := &Engine{
		sphere:   sphere,
		planar:   planar,
		clock:    timectrl.NewAnimationClock(),
		steps:    timectrl.NewStepCounter(),
		recorder: noopRecorder{},
		log:      logging.Noop(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}

	if sphere != nil {
		e.recorder.SetSceneCounts(VariantSphere, len(sphere.nodes), len(sphere.edges))
	}
	if planar != nil {
		e.recorder.SetSceneCounts(VariantPlanar, len(planar.nodes), len(planar.connectors))
	}
	return e, nil
}

// NewEngineFromScene builds whichever graphs the scene has tables for.
func NewEngineFromScene(scene Scene, graphOpts []GraphOption, opts ...EngineOption) (*Engine, error) {
	var (
		sphere *SphereGraph
		planar *PlanarGraph
		err    error
	)
	if len(scene.Locations) > 0 {
		if sphere, err = NewSphereGraph(scene.Locations, scene.SphereEdges, graphOpts...); err != nil {
			return nil, err
		}
	}
	if len(scene.PlanarNodes) > 0 {
		if planar, err = NewPlanarGraph(scene.PlanarNodes, scene.PlanarEdges, graphOpts...); err != nil {
			return nil, err
		}
	}
	return NewEngine(sphere, planar, opts...)
}

// Sphere returns the globe graph, or nil.
func (e *Engine) Sphere() *SphereGraph { return e.sphere }

// Planar returns the planar graph, or nil.
func (e *Engine) Planar() *PlanarGraph { return e.planar }

// Elapsed returns the globe clock in seconds.
func (e *Engine) Elapsed() float64 { return e.clock.Elapsed() }

// Step returns the planar step counter.
func (e *Engine) Step() int { return e.steps.Step() }

// Reset zeroes all animation state. It is called on (re)mount.
func (e *Engine) Reset() {
	e.clock.Reset()
	e.steps.Reset()
	e.recorder.SetElapsed(0)
}

// SphereFrame builds the current globe frame without advancing time.
func (e *Engine) SphereFrame() (SphereFrame, bool) {
	if e.sphere == nil {
		return SphereFrame{}, false
	}
	return BuildSphereFrame(e.sphere, e.clock.Elapsed(), e.clock.Frames()), true
}

// PlanarFrame builds the current planar frame without advancing the step.
func (e *Engine) PlanarFrame() (PlanarFrame, bool) {
	if e.planar == nil {
		return PlanarFrame{}, false
	}
	return BuildPlanarFrame(e.planar, e.steps.Step()), true
}

// Tick advances the globe clock by delta and renders one globe frame.
// It is a no-op for an engine without a globe.
func (e *Engine) Tick(ctx context.Context, delta time.Duration) {
	if e.sphere == nil {
		return
	}
	e.clock.Advance(delta)
	e.renderSphere(ctx)
}

// TickAt syncs the globe clock to an absolute host time and renders.
func (e *Engine) TickAt(ctx context.Context, absolute time.Duration) {
	if e.sphere == nil {
		return
	}
	e.clock.Sync(absolute)
	e.renderSphere(ctx)
}

// StepPlanar advances the planar counter by one step and renders.
func (e *Engine) StepPlanar(ctx context.Context) {
	if e.planar == nil {
		return
	}
	e.steps.Tick()

	ctx, span := e.tracer.Start(ctx, "Engine.StepPlanar",
		trace.WithAttributes(attribute.Int("viz.step", e.steps.Step())))
	defer span.End()

	start := time.Now()
	f := BuildPlanarFrame(e.planar, e.steps.Step())
	e.recorder.ObserveFrame(VariantPlanar, time.Since(start))

	e.dispatch(ctx, span, VariantPlanar, func(r Renderer) error { return r.RenderPlanar(ctx, f) })
}

// Run drives the globe for ticks frames of delta each, stopping early if
// ctx is cancelled.
func (e *Engine) Run(ctx context.Context, ticks int, delta time.Duration) error {
	for range ticks {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.Tick(ctx, delta)
	}
	return nil
}

func (e *Engine) renderSphere(ctx context.Context) {
	ctx, span := e.tracer.Start(ctx, "Engine.Tick",
		trace.WithAttributes(
			attribute.Int64("viz.frame", int64(e.clock.Frames())),
			attribute.Float64("viz.elapsed_seconds", e.clock.Elapsed()),
		))
	defer span.End()

	start := time.Now()
	f := BuildSphereFrame(e.sphere, e.clock.Elapsed(), e.clock.Frames())
	e.recorder.ObserveFrame(VariantSphere, time.Since(start))
	e.recorder.SetElapsed(f.Elapsed)

	e.dispatch(ctx, span, VariantSphere, func(r Renderer) error { return r.RenderSphere(ctx, f) })
}

// dispatch hands a frame to every renderer. A failing or panicking renderer
// is logged and counted; it never stops the frame loop or the other renderers.
func (e *Engine) dispatch(ctx context.Context, span trace.Span, variant string, render func(Renderer) error) {
	var errs []error
	for _, r := range e.renderers {
		if err := renderRecovered(r, render); err != nil {
			errs = append(errs, err)
			e.recorder.ObserveRenderError(variant)
			e.log.Warn(ctx, "renderer failed",
				logging.String("variant", variant),
				logging.Err(err),
			)
		}
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func renderRecovered(r Renderer, render func(Renderer) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrRendererPanic, p)
		}
	}()
	return render(r)
}
