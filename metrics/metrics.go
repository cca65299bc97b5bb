// Package metrics exposes field statistics as Prometheus collectors
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/lixenwraith/crackfield/core"
	"github.com/lixenwraith/crackfield/crack"
)

const namespace = "crackfield"

// Metrics holds all collectors on a private registry
// A nil *Metrics is valid and records nothing
type Metrics struct {
	registry *prometheus.Registry

	Cracks            prometheus.Gauge
	Injections        prometheus.Gauge
	Points            prometheus.Gauge
	FilledPoints      prometheus.Gauge
	Injecting         prometheus.Gauge
	CracksSpawned     prometheus.Counter
	CracksEvicted     prometheus.Counter
	InjectionsCreated prometheus.Counter
	FrameDuration     prometheus.Histogram
	SettingUpdates    *prometheus.CounterVec

	last crack.Stats
}

// New creates and registers all collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Cracks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cracks",
			Help:      "Live cracks in the field",
		}),
		Injections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "injections",
			Help:      "Live injections in the field",
		}),
		Points: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "points",
			Help:      "Stored points across all live cracks",
		}),
		FilledPoints: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "filled_points",
			Help:      "Points marked filled by an injection",
		}),
		Injecting: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "injecting",
			Help:      "1 while the pointer is held down",
		}),
		CracksSpawned: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cracks_spawned_total",
			Help:      "Cracks created, including mid-path branches",
		}),
		CracksEvicted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cracks_evicted_total",
			Help:      "Cracks dropped to respect the crack count limit",
		}),
		InjectionsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "injections_created_total",
			Help:      "Injections created by presses, drags and clicks",
		}),
		FrameDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_duration_seconds",
			Help:      "Time spent ticking and presenting one frame",
			Buckets:   []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066},
		}),
		SettingUpdates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "setting_updates_total",
			Help:      "Live setting updates by key and result",
		}, []string{"key", "result"}),
	}
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a stats snapshot; counters advance by the delta since the last one
// A counter that went backwards means a fresh field, its value is taken whole
func (m *Metrics) Observe(s crack.Stats) {
	if m == nil {
		return
	}
	m.Cracks.Set(float64(s.Cracks))
	m.Injections.Set(float64(s.Injections))
	m.Points.Set(float64(s.Points))
	m.FilledPoints.Set(float64(s.FilledPoints))
	if s.State == crack.StateInjecting {
		m.Injecting.Set(1)
	} else {
		m.Injecting.Set(0)
	}

	m.CracksSpawned.Add(delta(m.last.CracksSpawned, s.CracksSpawned))
	m.CracksEvicted.Add(delta(m.last.CracksEvicted, s.CracksEvicted))
	m.InjectionsCreated.Add(delta(m.last.InjectionsCreated, s.InjectionsCreated))
	m.last = s
}

func delta(prev, cur uint64) float64 {
	if cur < prev {
		return float64(cur)
	}
	return float64(cur - prev)
}

// ObserveFrame records one frame duration
func (m *Metrics) ObserveFrame(d time.Duration) {
	if m == nil {
		return
	}
	m.FrameDuration.Observe(d.Seconds())
}

// SettingUpdated counts a live setting update
func (m *Metrics) SettingUpdated(key string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.SettingUpdates.WithLabelValues(key, result).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr and serves /metrics until ctx is done
func Serve(ctx context.Context, addr string, m *Metrics, logger *zap.Logger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serve(ctx, ln, m, logger)
}

func serve(ctx context.Context, ln net.Listener, m *Metrics, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	core.Go(func() {
		errCh <- srv.Serve(ln)
	})
	logger.Info("metrics listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics shutdown: %w", err)
	}
	<-errCh
	return nil
}
