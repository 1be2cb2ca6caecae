package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blytzwork"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	votes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "votes_total",
			Help:      "Recorded votes by side and value.",
		},
		[]string{"side", "vote"},
	)

	matches = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "matches_total",
			Help:      "Created matches.",
		},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "transitions_total",
			Help:      "Payment status transitions by purpose.",
		},
		[]string{"purpose", "status"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		votes,
		matches,
		payments,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records request count, duration and in-flight gauge. The route pattern is used as path label.
func Middleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if ctx.Path() == "/metrics" {
			return ctx.Next()
		}
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		err := ctx.Next()

		status := ctx.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := ctx.Path()
		if route := ctx.Route(); route != nil && route.Path != "" {
			path = route.Path
		}
		httpRequests.WithLabelValues(ctx.Method(), path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(ctx.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func RecordVote(side string, vote bool) {
	votes.WithLabelValues(side, strconv.FormatBool(vote)).Inc()
}

func RecordMatch() {
	matches.Inc()
}

func RecordPayment(purpose, status string) {
	payments.WithLabelValues(purpose, status).Inc()
}
