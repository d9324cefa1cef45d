package telemetry

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes generation counters for Prometheus.
type Metrics struct {
	Builds        prometheus.Counter
	BuildDuration prometheus.Histogram
	Cells         prometheus.Counter
	Roughness     prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers the generator metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Builds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heightmap_builds_total",
			Help: "Total number of completed height map builds",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "heightmap_build_duration_seconds",
			Help:    "Histogram of height map build durations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		Cells: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "heightmap_cells_total",
			Help: "Total number of grid cells generated",
		}),
		Roughness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "heightmap_last_roughness",
			Help: "Roughness of the most recently built map",
		}),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Builds, m.BuildDuration, m.Cells, m.Roughness)
	return m
}

// Record updates the counters after a build has been analysed.
func (m *Metrics) Record(stats MapStats) {
	if m == nil {
		return
	}
	m.Builds.Inc()
	m.Cells.Add(float64(stats.Side * stats.Side))
	m.Roughness.Set(stats.Roughness)
}

// Handler returns the HTTP handler serving the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve starts the metrics endpoint in the background. An empty addr is a no-op.
func (m *Metrics) Serve(addr string) *http.Server {
	if m == nil || addr == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics HTTP server failed", "error", err)
		}
	}()
	return srv
}
