// Package metrics holds the Prometheus collectors for playlist store operations.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"signage/internal/model"
)

// Store labels.
const (
	StoreMedia = "media"
	StoreURLs  = "urls"
)

// StoreMetrics counts and times operations against the media and URL stores.
type StoreMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates the collectors and registers them with reg.
func NewStoreMetrics(reg prometheus.Registerer) (*StoreMetrics, error) {
	m := &StoreMetrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signage",
				Name:      "store_operations_total",
				Help:      "Playlist store operations by store, operation and result.",
			},
			[]string{"store", "op", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "signage",
				Name:      "store_operation_duration_seconds",
				Help:      "Playlist store operation latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"store", "op"},
		),
	}
	for _, c := range []prometheus.Collector{m.operations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one operation. A nil receiver is a no-op so tests can skip metrics.
func (m *StoreMetrics) Observe(store, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(store, op, Result(err)).Inc()
	m.duration.WithLabelValues(store, op).Observe(time.Since(start).Seconds())
}

// Result maps an operation error to a low-cardinality label value.
func Result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	case errors.Is(err, model.ErrPayloadTooLarge):
		return "payload_too_large"
	case errors.Is(err, model.ErrLockContention):
		return "lock_contention"
	case errors.Is(err, model.ErrStorage):
		return "storage_error"
	default:
		return "error"
	}
}
