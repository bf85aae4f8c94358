package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the batch jobs. Missed notifications are invisible to employees, so the
// job counters are the primary way to detect them.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	jobCandidates   *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	notifications   *prometheus.CounterVec
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	jobRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learning_job_runs_total",
		Help: "Total batch job runs by outcome",
	}, []string{"job", "outcome"})

	jobCandidates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "learning_job_candidates_total",
		Help: "Total assignments selected by batch jobs",
	}, []string{"job"})

	jobDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "learning_job_duration_seconds",
		Help:    "Duration of batch job runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total notification sends by category and outcome",
	}, []string{"category", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, jobRuns, jobCandidates, jobDuration, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		jobRuns:         jobRuns,
		jobCandidates:   jobCandidates,
		jobDuration:     jobDuration,
		notifications:   notifications,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveJobRun records one batch job run.
func (m *MetricsService) ObserveJobRun(job, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
	m.jobDuration.WithLabelValues(job).Observe(took.Seconds())
}

// AddJobCandidates records how many assignments a job selected.
func (m *MetricsService) AddJobCandidates(job string, count int) {
	if m == nil {
		return
	}
	m.jobCandidates.WithLabelValues(job).Add(float64(count))
}

// ObserveNotification records one notification send attempt.
func (m *MetricsService) ObserveNotification(category, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(category, outcome).Inc()
}
