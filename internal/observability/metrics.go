package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkup_http_requests_total",
			Help: "Total number of HTTP requests processed by the service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "linkup_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	connectionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "linkup_connection_events_total",
			Help: "Connection lifecycle events: requested, accepted, rejected, removed.",
		},
		[]string{"event"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkup_messages_sent_total",
			Help: "Total number of messages stored.",
		},
	)
	messagesBlockedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkup_messages_blocked_total",
			Help: "Messages rejected by the connection gate.",
		},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "linkup_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		connectionEventsTotal,
		messagesSentTotal,
		messagesBlockedTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// IncConnectionEvent counts a connection lifecycle event.
func IncConnectionEvent(event string) {
	connectionEventsTotal.WithLabelValues(event).Inc()
}

// IncMessageSent counts a stored message.
func IncMessageSent() {
	messagesSentTotal.Inc()
}

// IncMessageBlocked counts a message refused by the gate.
func IncMessageBlocked() {
	messagesBlockedTotal.Inc()
}

// IncAMQPPublishError counts a failed event publish.
func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
