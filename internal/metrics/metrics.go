// Package metrics holds the Prometheus collectors of the API: HTTP traffic,
// record platform calls and database pool statistics.
package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by route, method and status"},
		[]string{"path", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"path", "method"},
	)
	RecordCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "record_calls_total", Help: "Record platform calls by operation, table and outcome"},
		[]string{"op", "table", "outcome"},
	)
	RecordLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "record_call_duration_seconds", Help: "Record platform call latency in seconds", Buckets: prometheus.DefBuckets},
		[]string{"op", "table"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "rate_limited_requests_total", Help: "Requests rejected by the rate limiter"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPLatency, RecordCalls, RecordLatency, RateLimited)
}

// Handler returns middleware recording request count and latency per route
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPLatency.WithLabelValues(path, c.Request.Method).Observe(dur)
		HTTPRequests.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Exposer returns the standard Prometheus scrape handler
func Exposer() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }

// RegisterDB exposes connection pool statistics of db under dbName.
// Registering the same name twice is a no-op.
func RegisterDB(db *sql.DB, dbName string) error {
	err := prometheus.Register(collectors.NewDBStatsCollector(db, dbName))
	if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
		return nil
	}
	return err
}
