// Package metrics exports cache activity to prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dlshle/nscache/errors"
)

const metricsNamespace = "nscache"

// PrometheusRecorder implements cache.Recorder with counters and an entry gauge labelled by
// cache namespace.
type PrometheusRecorder struct {
	hits          *prometheus.CounterVec
	misses        *prometheus.CounterVec
	sets          *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	evictions     *prometheus.CounterVec
	expirations   *prometheus.CounterVec
	storageErrors *prometheus.CounterVec
	entries       *prometheus.GaugeVec
}

func newCounter(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      name,
		Help:      help,
	}, append([]string{"namespace"}, labels...))
}

// NewPrometheusRecorder registers its collectors on registerer, prometheus.DefaultRegisterer
// when nil.
func NewPrometheusRecorder(registerer prometheus.Registerer) (*PrometheusRecorder, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	r := &PrometheusRecorder{
		hits:          newCounter("hits_total", "Lookups that found a valid entry."),
		misses:        newCounter("misses_total", "Lookups that found no valid entry."),
		sets:          newCounter("sets_total", "Stored inserts and updates."),
		rejections:    newCounter("rejections_total", "Inserts refused by the capacity bound."),
		evictions:     newCounter("evictions_total", "Entries evicted to admit a new key."),
		expirations:   newCounter("expirations_total", "Entries removed after expiring."),
		storageErrors: newCounter("storage_errors_total", "Failed storage calls.", "op"),
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "entries",
			Help:      "Entries in the namespace record after the last write.",
		}, []string{"namespace"}),
	}
	errs := errors.NewMultiError()
	for _, c := range []prometheus.Collector{r.hits, r.misses, r.sets, r.rejections, r.evictions, r.expirations, r.storageErrors, r.entries} {
		errs.AddIfNonNil(registerer.Register(c))
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, errors.Errorf("register cache metrics: %w", err)
	}
	return r, nil
}

func (r *PrometheusRecorder) Hit(namespace string) {
	r.hits.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) Miss(namespace string) {
	r.misses.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) Set(namespace string) {
	r.sets.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) Reject(namespace string) {
	r.rejections.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) Evict(namespace string) {
	r.evictions.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) Expire(namespace string) {
	r.expirations.WithLabelValues(namespace).Inc()
}

func (r *PrometheusRecorder) StorageError(namespace, op string) {
	r.storageErrors.WithLabelValues(namespace, op).Inc()
}

func (r *PrometheusRecorder) Entries(namespace string, n int) {
	r.entries.WithLabelValues(namespace).Set(float64(n))
}
