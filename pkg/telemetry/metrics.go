// Package telemetry exports circuit activity as Prometheus metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ha1tch/circuit-toolkit/pkg/circuit"
)

// Metrics holds the collectors for one process.
type Metrics struct {
	FramesTotal      prometheus.Counter
	FrameDuration    prometheus.Histogram
	PacketsInFlight  prometheus.Gauge
	HoverChanges     *prometheus.CounterVec
	PipelineSwitches *prometheus.CounterVec
	RendersTotal     *prometheus.CounterVec
	RenderDuration   *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a Metrics with its own registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		FramesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "circuit_frames_total",
			Help: "Total number of frames drawn",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "circuit_frame_duration_seconds",
			Help:    "Time spent drawing one frame",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		PacketsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "circuit_packets_in_flight",
			Help: "Packets drawn in the most recent frame",
		}),
		HoverChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_hover_changes_total",
			Help: "Hover transitions by the node entered (empty when the hover was released)",
		}, []string{"node"}),
		PipelineSwitches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_pipeline_switches_total",
			Help: "Active pipeline changes by target pipeline",
		}, []string{"pipeline", "known"}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "circuit_renders_total",
			Help: "Still frames rendered on request",
		}, []string{"format", "status"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "circuit_render_duration_seconds",
			Help:    "Still frame render latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		registry: reg,
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns circuit hooks that record into m and then call next.
func (m *Metrics) Hooks(next circuit.Hooks) circuit.Hooks {
	return circuit.Hooks{
		HoverChanged: func(prev, cur *circuit.Node) {
			id := ""
			if cur != nil {
				id = cur.ID
			}
			m.HoverChanges.WithLabelValues(id).Inc()
			if next.HoverChanged != nil {
				next.HoverChanged(prev, cur)
			}
		},
		PipelineChanged: func(from, to string, known bool) {
			m.PipelineSwitches.WithLabelValues(to, strconv.FormatBool(known)).Inc()
			if next.PipelineChanged != nil {
				next.PipelineChanged(from, to, known)
			}
		},
		FrameDrawn: func(stats circuit.FrameStats, took time.Duration) {
			m.RecordFrame(stats, took)
			if next.FrameDrawn != nil {
				next.FrameDrawn(stats, took)
			}
		},
	}
}

// RecordFrame records one drawn frame.
func (m *Metrics) RecordFrame(stats circuit.FrameStats, took time.Duration) {
	m.FramesTotal.Inc()
	m.FrameDuration.Observe(took.Seconds())
	m.PacketsInFlight.Set(float64(stats.Packets))
}

// RecordRender records a still frame served on request.
func (m *Metrics) RecordRender(format, status string, took time.Duration) {
	m.RendersTotal.WithLabelValues(format, status).Inc()
	m.RenderDuration.WithLabelValues(format).Observe(took.Seconds())
}
