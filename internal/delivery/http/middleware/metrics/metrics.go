package http_metrics_middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "secretnick"

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	roomsCreated prometheus.Counter
	usersJoined  prometheus.Counter
	gamesStarted prometheus.Counter
	usersRemoved prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		roomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_created_total",
			Help:      "Rooms created.",
		}),
		usersJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_joined_total",
			Help:      "Members joined a room.",
		}),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Rooms paired and closed.",
		}),
		usersRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_removed_total",
			Help:      "Members removed by an admin.",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.roomsCreated,
		m.usersJoined,
		m.gamesStarted,
		m.usersRemoved,
	)
	return m
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Unmatched paths share one label to keep cardinality bounded
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Domain counters below are no-ops on a nil *Metrics.

func (m *Metrics) RoomCreated() {
	if m != nil {
		m.roomsCreated.Inc()
	}
}

func (m *Metrics) UserJoined() {
	if m != nil {
		m.usersJoined.Inc()
	}
}

func (m *Metrics) GameStarted() {
	if m != nil {
		m.gamesStarted.Inc()
	}
}

func (m *Metrics) UserRemoved() {
	if m != nil {
		m.usersRemoved.Inc()
	}
}
