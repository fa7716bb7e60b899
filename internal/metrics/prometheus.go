package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "billbook"

// PrometheusRecorder implements Recorder on a private Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	rateLimited     *prometheus.CounterVec
	usersRegistered prometheus.Counter
	logins          *prometheus.CounterVec
	sessionsSwept   prometheus.Counter
	groupsCreated   prometheus.Counter
	billsCreated    prometheus.Counter
}

// NewPrometheus creates a recorder with its own registry, including Go
// runtime and process collectors.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}, []string{"route"}),
		usersRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Accounts created.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Expired sessions removed by the sweeper.",
		}),
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "groups_created_total",
			Help:      "Groups created.",
		}),
		billsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bills_created_total",
			Help:      "Bills created.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.rateLimited,
		r.usersRegistered,
		r.logins,
		r.sessionsSwept,
		r.groupsCreated,
		r.billsCreated,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveHTTPRequest records one served request.
func (r *PrometheusRecorder) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncRateLimited counts a throttled request.
func (r *PrometheusRecorder) IncRateLimited(route string) {
	r.rateLimited.WithLabelValues(route).Inc()
}

// IncUserRegistered counts a new account.
func (r *PrometheusRecorder) IncUserRegistered() {
	r.usersRegistered.Inc()
}

// IncLogin counts a login attempt; result is LoginSuccess or LoginFailure.
func (r *PrometheusRecorder) IncLogin(result string) {
	r.logins.WithLabelValues(result).Inc()
}

// AddSessionsSwept adds to the swept-session counter.
func (r *PrometheusRecorder) AddSessionsSwept(n int64) {
	if n > 0 {
		r.sessionsSwept.Add(float64(n))
	}
}

// IncGroupCreated counts a new group.
func (r *PrometheusRecorder) IncGroupCreated() {
	r.groupsCreated.Inc()
}

// IncBillCreated counts a new bill.
func (r *PrometheusRecorder) IncBillCreated() {
	r.billsCreated.Inc()
}
