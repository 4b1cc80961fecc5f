// Package metrics records Prometheus metrics for parse operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dzjyyds666/qent/parse/qent"
)

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Collector owns a registry and the parse metrics registered on it.
type Collector struct {
	registry *prometheus.Registry

	parses     *prometheus.CounterVec
	inputBytes prometheus.Counter
	duration   prometheus.Histogram
	entities   prometheus.Histogram
}

// NewCollector registers the parse metrics under namespace. If registry is nil a
// fresh one is created.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "qent"
	}

	c := &Collector{
		registry: registry,
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Parse operations by result and error kind.",
		}, []string{"result", "kind"}),
		inputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Bytes of q-entities input parsed.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing one input.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		entities: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entities_per_parse",
			Help:      "Entities produced by a successful parse.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	registry.MustRegister(c.parses, c.inputBytes, c.duration, c.entities)
	return c
}

// Observe records one parse. ents is ignored when err is non-nil.
func (c *Collector) Observe(size int, elapsed time.Duration, ents *qent.Entities, err error) {
	c.inputBytes.Add(float64(size))
	c.duration.Observe(elapsed.Seconds())

	if err != nil {
		kind := "other"
		if k, ok := qent.KindOf(err); ok {
			kind = k.String()
		}
		c.parses.WithLabelValues(ResultError, kind).Inc()
		return
	}
	c.parses.WithLabelValues(ResultSuccess, "").Inc()
	c.entities.Observe(float64(ents.Len()))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
