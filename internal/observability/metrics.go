package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FrameCollector bundles Prometheus metrics for the frame loop and
// provides the /metrics handler.
type FrameCollector struct {
	gatherer prometheus.Gatherer

	Frames         *prometheus.CounterVec
	FrameDurations *prometheus.HistogramVec
	RenderErrors   *prometheus.CounterVec
	RejectedEdges  *prometheus.CounterVec

	SceneNodes     *prometheus.GaugeVec
	SceneEdges     *prometheus.GaugeVec
	ElapsedSeconds prometheus.Gauge
}

// NewFrameCollector registers frame metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewFrameCollector(reg prometheus.Registerer) (*FrameCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	frames, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "viz_frames_total",
		Help: "Total number of frames built, labeled by visualization variant.",
	}, []string{"variant"}), "viz_frames_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "viz_frame_build_duration_seconds",
		Help:    "Time spent assembling a frame, excluding rendering.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"variant"}), "viz_frame_build_duration_seconds")
	if err != nil {
		return nil, err
	}

	renderErrors, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "viz_render_errors_total",
		Help: "Total number of frames a renderer failed to draw.",
	}, []string{"variant"}), "viz_render_errors_total")
	if err != nil {
		return nil, err
	}

	rejected, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "viz_rejected_edges_total",
		Help: "Edges dropped at graph construction because they referenced missing nodes.",
	}, []string{"variant"}), "viz_rejected_edges_total")
	if err != nil {
		return nil, err
	}

	nodes, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "viz_scene_nodes",
		Help: "Current number of nodes in the mounted scene.",
	}, []string{"variant"}), "viz_scene_nodes")
	if err != nil {
		return nil, err
	}

	edges, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "viz_scene_edges",
		Help: "Current number of validated edges in the mounted scene.",
	}, []string{"variant"}), "viz_scene_edges")
	if err != nil {
		return nil, err
	}

	elapsed, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "viz_animation_elapsed_seconds",
		Help: "Elapsed animation time of the mounted globe.",
	}), "viz_animation_elapsed_seconds")
	if err != nil {
		return nil, err
	}

	return &FrameCollector{
		gatherer:       gatherer,
		Frames:         frames,
		FrameDurations: durations,
		RenderErrors:   renderErrors,
		RejectedEdges:  rejected,
		SceneNodes:     nodes,
		SceneEdges:     edges,
		ElapsedSeconds: elapsed,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *FrameCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveFrame records one built frame.
func (c *FrameCollector) ObserveFrame(variant string, build time.Duration) {
	if c == nil {
		return
	}
	c.Frames.WithLabelValues(variant).Inc()
	c.FrameDurations.WithLabelValues(variant).Observe(build.Seconds())
}

// ObserveRenderError records a renderer failure.
func (c *FrameCollector) ObserveRenderError(variant string) {
	if c == nil {
		return
	}
	c.RenderErrors.WithLabelValues(variant).Inc()
}

// SetElapsed publishes the globe clock.
func (c *FrameCollector) SetElapsed(seconds float64) {
	if c == nil {
		return
	}
	c.ElapsedSeconds.Set(seconds)
}

// SetSceneCounts publishes node and edge counts for a variant.
func (c *FrameCollector) SetSceneCounts(variant string, nodes, edges int) {
	if c == nil {
		return
	}
	c.SceneNodes.WithLabelValues(variant).Set(float64(nodes))
	c.SceneEdges.WithLabelValues(variant).Set(float64(edges))
}

// AddRejectedEdges counts edges dropped in lenient graph construction.
func (c *FrameCollector) AddRejectedEdges(variant string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.RejectedEdges.WithLabelValues(variant).Add(float64(n))
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
