package metrics

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rpattn/jobql/internal/filter"
)

var (
	// RequestTotal counts HTTP requests by method, path and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobql_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobql_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	// FilterCompileTotal counts filter compilations by outcome.
	FilterCompileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobql_filter_compile_total",
			Help: "Total number of filter compilations by result",
		},
		[]string{"result"},
	)
	// FilterCompileDuration is the time spent compiling filters, attribute lookups included.
	FilterCompileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobql_filter_compile_duration_seconds",
			Help:    "Filter compilation latency in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
		},
	)
)

// ObserveCompile records one compilation that started at start and ended with err.
func ObserveCompile(start time.Time, err error) {
	FilterCompileDuration.Observe(time.Since(start).Seconds())
	FilterCompileTotal.WithLabelValues(CompileResult(err)).Inc()
}

// CompileResult maps a compile error to its metric label.
func CompileResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, filter.ErrUnbalancedParentheses):
		return "unbalanced_parentheses"
	case errors.Is(err, filter.ErrInvalidAttributeFilterFormat):
		return "invalid_attribute_format"
	case errors.Is(err, filter.ErrUnknownAttribute):
		return "unknown_attribute"
	case errors.Is(err, filter.ErrUnknownRelation):
		return "unknown_relation"
	case errors.Is(err, filter.ErrAttributePredicate):
		return "attribute_predicate"
	default:
		return "error"
	}
}
