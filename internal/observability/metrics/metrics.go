package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every instrument.
type Config struct {
	ServiceName string
	Environment string
}

func (c Config) constLabels() prometheus.Labels {
	serviceName := strings.TrimSpace(c.ServiceName)
	if serviceName == "" {
		serviceName = "sunsizer"
	}
	environment := strings.TrimSpace(c.Environment)
	if environment == "" {
		environment = "unknown"
	}
	return prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}
}

// HTTPMetrics captures request-level health signals.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *HTTPMetrics
)

// NewHTTPMetrics returns the singleton HTTP metrics registry.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		httpMetrics = newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return httpMetrics
}

// ResetHTTPMetricsForTest resets the HTTP metrics singleton for tests.
func ResetHTTPMetricsForTest() {
	httpMetricsOnce = sync.Once{}
	httpMetrics = nil
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sunsizer_http_requests_total",
		Help:        "HTTP requests by route and status code.",
		ConstLabels: constLabels,
	}, []string{"route", "method", "status_code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "sunsizer_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		Buckets:     []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		ConstLabels: constLabels,
	}, []string{"route", "method"})

	registerer.MustRegister(requests, duration)
	return &HTTPMetrics{requests: requests, duration: duration}
}

// Observe records one completed request.
func (m *HTTPMetrics) Observe(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	route = normalizeRoute(route)
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(route)
	if route == "" {
		return "unknown"
	}
	return route
}

// AnalysisMetrics captures sizing engine outcomes.
type AnalysisMetrics struct {
	analyses            *prometheus.CounterVec
	infeasibleScenarios *prometheus.CounterVec
}

var (
	analysisMetricsOnce sync.Once
	analysisMetrics     *AnalysisMetrics
)

// NewAnalysisMetrics returns the singleton analysis metrics registry.
func NewAnalysisMetrics(cfg Config) *AnalysisMetrics {
	analysisMetricsOnce.Do(func() {
		analysisMetrics = newAnalysisMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return analysisMetrics
}

// ResetAnalysisMetricsForTest resets the analysis metrics singleton for tests.
func ResetAnalysisMetricsForTest() {
	analysisMetricsOnce = sync.Once{}
	analysisMetrics = nil
}

func newAnalysisMetrics(registerer prometheus.Registerer, cfg Config) *AnalysisMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	constLabels := cfg.constLabels()

	analyses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sunsizer_analyses_total",
		Help:        "Sizing analyses by hardware family and outcome.",
		ConstLabels: constLabels,
	}, []string{"family", "outcome"})
	infeasible := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "sunsizer_infeasible_scenarios_total",
		Help:        "Scenarios rejected by family constraint rules.",
		ConstLabels: constLabels,
	}, []string{"family", "scenario"})

	registerer.MustRegister(analyses, infeasible)
	return &AnalysisMetrics{analyses: analyses, infeasibleScenarios: infeasible}
}

// RecordAnalysis increments the analysis counter for one completed request.
func (m *AnalysisMetrics) RecordAnalysis(family, outcome string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(strings.TrimSpace(family), strings.TrimSpace(outcome)).Inc()
}

// RecordInfeasibleScenario counts a scenario that violated a hard cap.
func (m *AnalysisMetrics) RecordInfeasibleScenario(family, scenario string) {
	if m == nil {
		return
	}
	m.infeasibleScenarios.WithLabelValues(strings.TrimSpace(family), strings.TrimSpace(scenario)).Inc()
}
