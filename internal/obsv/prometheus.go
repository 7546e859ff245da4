package obsv

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver records coordinator events as Prometheus metrics,
// giving the "external statistics aggregator" spec.md §1 names a
// concrete, locally-exercised attachment point. Grounded on the
// teacher's MetricsObserver (metrics.go), adapted from atomic counters
// to prometheus.Collector-backed vectors.
type PrometheusObserver struct {
	fsyncTotal      *prometheus.CounterVec
	fsyncLatency    prometheus.Histogram
	unlinkTotal     *prometheus.CounterVec
	absorbed        prometheus.Counter
	retries         *prometheus.CounterVec
	checkpoints     prometheus.Counter
	checkpointTime  prometheus.Histogram
	pendingFsyncs   prometheus.Gauge
	pendingUnlinks  prometheus.Gauge
}

// NewPrometheusObserver creates a PrometheusObserver and registers its
// collectors with reg. Passing prometheus.NewRegistry() keeps the
// coordinator's metrics isolated from the default global registry,
// which matters for tests that construct more than one coordinator.
func NewPrometheusObserver(reg prometheus.Registerer, namespace string) *PrometheusObserver {
	o := &PrometheusObserver{
		fsyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fsync_total",
			Help:      "Total fsync attempts by outcome.",
		}, []string{"outcome"}),
		fsyncLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fsync_latency_seconds",
			Help:      "Latency of individual fsync calls.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		unlinkTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unlink_total",
			Help:      "Total unlink attempts by outcome.",
		}, []string{"outcome"}),
		absorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_absorbed_total",
			Help:      "Total requests drained from the intake queue.",
		}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Total retry-bank reattempts, labeled by pass number.",
		}, []string{"pass"}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkpoints_total",
			Help:      "Total completed checkpoint passes.",
		}),
		checkpointTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkpoint_duration_seconds",
			Help:      "Duration of a complete ProcessRequests pass.",
			Buckets:   prometheus.DefBuckets,
		}),
		pendingFsyncs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_fsync_entries",
			Help:      "Current size of the pending-ops table.",
		}),
		pendingUnlinks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_unlink_entries",
			Help:      "Current size of the pending-unlinks queue.",
		}),
	}

	reg.MustRegister(
		o.fsyncTotal, o.fsyncLatency, o.unlinkTotal, o.absorbed,
		o.retries, o.checkpoints, o.checkpointTime,
		o.pendingFsyncs, o.pendingUnlinks,
	)
	return o
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func (o *PrometheusObserver) ObserveFsync(latency time.Duration, success bool) {
	o.fsyncTotal.WithLabelValues(outcome(success)).Inc()
	o.fsyncLatency.Observe(latency.Seconds())
}

func (o *PrometheusObserver) ObserveUnlink(success bool) {
	o.unlinkTotal.WithLabelValues(outcome(success)).Inc()
}

func (o *PrometheusObserver) ObserveAbsorb(n int) {
	o.absorbed.Add(float64(n))
}

func (o *PrometheusObserver) ObserveRetry(n int, pass int) {
	o.retries.WithLabelValues(passLabel(pass)).Add(float64(n))
}

func (o *PrometheusObserver) ObserveCheckpoint(d time.Duration, processed int) {
	o.checkpoints.Inc()
	o.checkpointTime.Observe(d.Seconds())
}

func (o *PrometheusObserver) ObservePendingDepth(fsyncEntries, unlinkEntries int) {
	o.pendingFsyncs.Set(float64(fsyncEntries))
	o.pendingUnlinks.Set(float64(unlinkEntries))
}

func passLabel(pass int) string {
	// Small, bounded label space (MaxRetries caps pass at 5), so a
	// direct itoa-style conversion is fine without a lookup table.
	const digits = "0123456789"
	if pass < 0 || pass > 9 {
		return "9+"
	}
	return string(digits[pass])
}

var _ Observer = (*PrometheusObserver)(nil)
