// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records sync engine metrics. Defined as an interface so the
// runner can take a no-op in tests.
type Collector interface {
	RecordMemberSynced()
	RecordMemberFailed(kind string)
	RecordRecordsUpserted(count int)
	RecordExtractLatency(d time.Duration)
	RecordReauth()
	RecordRunSkipped()
}

// PromCollector is the Prometheus-backed Collector.
type PromCollector struct {
	memberSynced    prometheus.Counter
	memberFailed    *prometheus.CounterVec
	recordsUpserted prometheus.Counter
	extractLatency  prometheus.Histogram
	reauth          prometheus.Counter
	runSkipped      prometheus.Counter
}

// NewPromCollector creates a PromCollector and registers its metrics with reg.
func NewPromCollector(reg prometheus.Registerer) *PromCollector {
	c := &PromCollector{
		memberSynced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendman_member_synced_total",
			Help: "Members whose attendance synced successfully.",
		}),
		memberFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "attendman_member_failed_total",
			Help: "Members whose sync failed, by error kind.",
		}, []string{"kind"}),
		recordsUpserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendman_records_upserted_total",
			Help: "Attendance records written to the store.",
		}),
		extractLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "attendman_extract_latency_seconds",
			Help:    "Per-member extraction latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		reauth: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendman_session_reauth_total",
			Help: "Portal re-authentications triggered by detected expiry.",
		}),
		runSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "attendman_run_skipped_total",
			Help: "Sync runs rejected by the single-flight guard.",
		}),
	}

	reg.MustRegister(
		c.memberSynced,
		c.memberFailed,
		c.recordsUpserted,
		c.extractLatency,
		c.reauth,
		c.runSkipped,
	)

	return c
}

// RecordMemberSynced counts a successful member sync.
func (c *PromCollector) RecordMemberSynced() { c.memberSynced.Inc() }

// RecordMemberFailed counts a failed member sync by error kind.
func (c *PromCollector) RecordMemberFailed(kind string) {
	c.memberFailed.WithLabelValues(kind).Inc()
}

// RecordRecordsUpserted counts persisted attendance records.
func (c *PromCollector) RecordRecordsUpserted(count int) {
	c.recordsUpserted.Add(float64(count))
}

// RecordExtractLatency observes one member's extraction latency.
func (c *PromCollector) RecordExtractLatency(d time.Duration) {
	c.extractLatency.Observe(d.Seconds())
}

// RecordReauth counts a portal re-authentication.
func (c *PromCollector) RecordReauth() { c.reauth.Inc() }

// RecordRunSkipped counts a run rejected by the single-flight guard.
func (c *PromCollector) RecordRunSkipped() { c.runSkipped.Inc() }

// Nop is a Collector that records nothing. Used in tests.
type Nop struct{}

// RecordMemberSynced implements Collector.
func (Nop) RecordMemberSynced() {}

// RecordMemberFailed implements Collector.
func (Nop) RecordMemberFailed(string) {}

// RecordRecordsUpserted implements Collector.
func (Nop) RecordRecordsUpserted(int) {}

// RecordExtractLatency implements Collector.
func (Nop) RecordExtractLatency(time.Duration) {}

// RecordReauth implements Collector.
func (Nop) RecordReauth() {}

// RecordRunSkipped implements Collector.
func (Nop) RecordRunSkipped() {}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
