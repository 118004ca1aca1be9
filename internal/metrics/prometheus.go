// Package metrics exports media pipeline telemetry to Prometheus
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusObserver records blob uploads, URL resolution and catalog operations
type PrometheusObserver struct {
	operationDuration *prometheus.HistogramVec
	operationErrors   *prometheus.CounterVec
	uploadBytes       *prometheus.CounterVec
	urlCacheLookups   *prometheus.CounterVec
}

// NewPrometheusObserver registers the media metrics on reg.
// A nil reg uses the default registerer.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "portfolio_media"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	observer := &PrometheusObserver{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of media storage and catalog operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "kind"}),
		operationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_errors_total",
			Help:      "Count of failed media storage and catalog operations.",
		}, []string{"operation", "kind"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative payload size successfully uploaded to object storage.",
		}, []string{"kind"}),
		urlCacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "url_cache_lookups_total",
			Help:      "Retrieval URL cache lookups by result.",
		}, []string{"result"}),
	}

	collectors := []prometheus.Collector{
		observer.operationDuration,
		observer.operationErrors,
		observer.uploadBytes,
		observer.urlCacheLookups,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return nil, fmt.Errorf("register media metric: %w", err)
		}
	}
	return observer, nil
}

// RecordUpload tracks upload duration, size and failures
func (o *PrometheusObserver) RecordUpload(kind string, duration time.Duration, sizeBytes int64, err error) {
	if o == nil {
		return
	}
	o.operationDuration.WithLabelValues("upload", kind).Observe(duration.Seconds())
	if err != nil {
		o.operationErrors.WithLabelValues("upload", kind).Inc()
		return
	}
	o.uploadBytes.WithLabelValues(kind).Add(float64(sizeBytes))
}

// RecordCatalogOp tracks a single catalog call
func (o *PrometheusObserver) RecordCatalogOp(op, kind string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.operationDuration.WithLabelValues(op, kind).Observe(duration.Seconds())
	if err != nil {
		o.operationErrors.WithLabelValues(op, kind).Inc()
	}
}

// RecordURLCache counts a cache hit or miss
func (o *PrometheusObserver) RecordURLCache(hit bool) {
	if o == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	o.urlCacheLookups.WithLabelValues(result).Inc()
}
