// ===============================
// internal/metrics/metrics.go - Prometheus collectors
// ===============================

// Package metrics holds the Prometheus collectors for the catalog service.
//
// Exposed at GET /metrics:
//
//	luemtv_http_requests_total           counter: requests by method/route/status
//	luemtv_http_request_duration_seconds histogram: latency by method/route
//	luemtv_upstream_failures_total       counter: degraded reads by source
//	luemtv_tmdb_requests_total           counter: TMDB calls by endpoint/result
//	luemtv_import_saves_total            counter: import saves by kind/result
//	luemtv_banner_subscribers            gauge: open banner websocket connections
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "luemtv_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "luemtv_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// UpstreamFailures counts reads that degraded to an empty result.
var UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "luemtv_upstream_failures_total",
	Help: "Upstream reads that failed and degraded to an empty result.",
}, []string{"source"})

var TMDBRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "luemtv_tmdb_requests_total",
	Help: "TMDB API calls by endpoint and result.",
}, []string{"endpoint", "result"})

var ImportSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "luemtv_import_saves_total",
	Help: "Admin import saves by kind and result.",
}, []string{"kind", "result"})

var BannerSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "luemtv_banner_subscribers",
	Help: "Open banner websocket connections.",
})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request counts and latency. The route label is the
// matched gin route template, so ids never explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		HTTPRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
