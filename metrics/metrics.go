// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylesync_http_requests_total",
		Help: "HTTP requests by route pattern, method and status code",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stylesync_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"route"})

	FunctionCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylesync_function_calls_total",
		Help: "Callable function invocations by name and result code",
	}, []string{"function", "code"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stylesync_ai_rate_limited_total",
		Help: "AI calls rejected by the per-user limiter",
	})

	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stylesync_media_uploads_total",
		Help: "Media uploads by kind and outcome",
	}, []string{"kind", "outcome"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
