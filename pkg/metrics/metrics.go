package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

const unmatchedRoute = "unmatched"

// Metrics owns a private registry so that several servers (and tests) can
// live in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbQueryDuration     *prometheus.HistogramVec
	rateLimitAllowed    *prometheus.CounterVec
	rateLimitDenied     *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		dbQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		rateLimitAllowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_allow_total",
				Help: "Requests allowed by the rate limiter",
			},
			[]string{"route"},
		),
		rateLimitDenied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_deny_total",
				Help: "Requests denied by the rate limiter",
			},
			[]string{"route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records a count and a latency for every request, labelled by the
// route template rather than the raw path. Errors are handed to the echo
// error handler here so that the recorded status is the one the client sees.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			route := Route(c)
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)
			m.httpRequestsTotal.WithLabelValues(method, route, status).Inc()
			m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) OnAllow(route string) {
	m.rateLimitAllowed.WithLabelValues(route).Inc()
}

func (m *Metrics) OnDeny(route string) {
	m.rateLimitDenied.WithLabelValues(route).Inc()
}

// QueryHook observes the duration of every bun query.
func (m *Metrics) QueryHook() bun.QueryHook {
	return &queryHook{m}
}

type queryHook struct {
	m *Metrics
}

var _ bun.QueryHook = (*queryHook)(nil)

func (qh *queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *queryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	qh.m.dbQueryDuration.
		WithLabelValues(event.Operation()).
		Observe(time.Since(event.StartTime).Seconds())
}

// Route is the matched route template, or a fixed label for requests that
// didn't match one.
func Route(c echo.Context) string {
	if p := c.Path(); p != "" && p != "/*" {
		return p
	}
	return unmatchedRoute
}
