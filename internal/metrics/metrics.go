// Package metrics registers all Prometheus metrics for the alpha engine
// and serves them over promhttp.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analysis service.
type Metrics struct {
	AnalysesTotal  prometheus.Counter
	AnalysesFailed prometheus.Counter
	AnalysisDur    prometheus.Histogram

	CacheHits      prometheus.Counter
	ProviderErrors prometheus.Counter

	WatchRuns prometheus.Counter

	// Report cache breaker: 0=closed, 1=open, 2=half-open.
	BreakerState prometheus.Gauge
	BreakerTrips prometheus.Counter

	WSClients    prometheus.Gauge
	WSDropsTotal prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics registers and returns all Prometheus metrics on a private
// registry, so tests can create as many instances as they like.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_analyses_total",
			Help: "Completed ticker analyses",
		}),
		AnalysesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_analyses_failed_total",
			Help: "Analyses that ended in a terminal no-data failure",
		}),
		AnalysisDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "alphaengine_analysis_duration_seconds",
			Help:    "Wall time per full analysis (fetch + compute + score)",
			Buckets: prometheus.DefBuckets,
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_report_cache_hits_total",
			Help: "Analyses served from the report cache",
		}),
		ProviderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_provider_errors_total",
			Help: "Upstream data provider failures",
		}),
		WatchRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_watchlist_runs_total",
			Help: "Scheduled watchlist sweeps",
		}),
		BreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alphaengine_report_cache_breaker_state",
			Help: "Report cache circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		BreakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_report_cache_breaker_trips_total",
			Help: "Report cache circuit breaker open transitions",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "alphaengine_ws_clients",
			Help: "Connected websocket stream clients",
		}),
		WSDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alphaengine_ws_drops_total",
			Help: "Reports dropped on slow websocket clients",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.AnalysesTotal, m.AnalysesFailed, m.AnalysisDur,
		m.CacheHits, m.ProviderErrors, m.WatchRuns,
		m.BreakerState, m.BreakerTrips,
		m.WSClients, m.WSDropsTotal,
	)
	return m
}

// Handler returns the promhttp handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a standalone metrics server on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutCtx)
	}()

	log.Info("metrics server listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("metrics server failed", slog.Any("err", err))
	}
}
