// Package metrics exposes prometheus collectors for verification and sync.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rollcall"

// Sync batch outcomes.
const (
	OutcomeEmpty       = "empty"
	OutcomeSubmitted   = "submitted"
	OutcomeTransport   = "transport_error"
	OutcomeInProgress  = "in_progress"
	OutcomeStoreFailed = "store_error"
)

type Collector struct {
	registry *prometheus.Registry

	verifications    *prometheus.CounterVec
	recordsSaved     prometheus.Counter
	recordDuplicates prometheus.Counter
	syncBatches      *prometheus.CounterVec
	syncRecords      *prometheus.CounterVec
	pending          prometheus.Gauge
	payloadsIssued   prometheus.Counter
}

// New registers every collector on a fresh registry together with the Go
// runtime and process collectors.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_total",
			Help:      "Scan assessments by decision.",
		}, []string{"result"}),
		recordsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_saved_total",
			Help:      "Proofs saved to the offline queue.",
		}),
		recordDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_duplicates_total",
			Help:      "Attempts rejected because the student already has a queued proof for the session.",
		}),
		syncBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_batches_total",
			Help:      "Sync invocations by outcome.",
		}, []string{"outcome"}),
		syncRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_records_total",
			Help:      "Submitted records by reconciled verdict.",
		}, []string{"verdict"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_records",
			Help:      "Records currently waiting in the offline queue.",
		}),
		payloadsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payloads_issued_total",
			Help:      "Session payloads emitted by the broadcaster.",
		}),
	}

	c.registry.MustRegister(
		c.verifications,
		c.recordsSaved,
		c.recordDuplicates,
		c.syncBatches,
		c.syncRecords,
		c.pending,
		c.payloadsIssued,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveVerification(ok bool) {
	if c == nil {
		return
	}
	result := "rejected"
	if ok {
		result = "accepted"
	}
	c.verifications.WithLabelValues(result).Inc()
}

func (c *Collector) RecordSaved() {
	if c == nil {
		return
	}
	c.recordsSaved.Inc()
}

func (c *Collector) RecordDuplicate() {
	if c == nil {
		return
	}
	c.recordDuplicates.Inc()
}

func (c *Collector) SyncBatch(outcome string) {
	if c == nil {
		return
	}
	c.syncBatches.WithLabelValues(outcome).Inc()
}

// SyncRecords counts removed and retained records of one reconciled batch.
func (c *Collector) SyncRecords(removed, retained int) {
	if c == nil {
		return
	}
	c.syncRecords.WithLabelValues("removed").Add(float64(removed))
	c.syncRecords.WithLabelValues("retained").Add(float64(retained))
}

func (c *Collector) SetPending(n int64) {
	if c == nil {
		return
	}
	c.pending.Set(float64(n))
}

func (c *Collector) PayloadIssued() {
	if c == nil {
		return
	}
	c.payloadsIssued.Inc()
}
