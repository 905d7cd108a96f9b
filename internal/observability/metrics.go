package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/slideforge-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	llmRequests *CounterVec
	llmLatency  *HistogramVec
	llmWait     *HistogramVec

	stageLatency *HistogramVec
	stageTotal   *CounterVec
	fallbacks    *CounterVec
	runs         *CounterVec

	imageSearches *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process metrics, or nil when metrics are disabled.
// Every method is nil-safe.
func Current() *Metrics {
	return instance
}

// Init builds the process metrics once. It returns nil when enabled is false.
func Init(log *logger.Logger, enabled bool) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics initialized")
		}
	})
	return instance
}

// New builds an unregistered Metrics value; tests use it directly.
func New() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("sf_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sf_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 120},
		),
		apiInflight: NewGauge("sf_api_inflight_requests", "In-flight API requests."),
		llmRequests: NewCounterVec("sf_llm_requests_total", "LLM gateway calls by provider/context/outcome.", []string{"provider", "context", "outcome"}),
		llmLatency: NewHistogramVec(
			"sf_llm_request_duration_seconds",
			"LLM gateway call latency in seconds by provider/context.",
			[]string{"provider", "context"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		),
		llmWait: NewHistogramVec(
			"sf_llm_ratelimit_wait_seconds",
			"Time spent waiting on the provider rate limiter.",
			[]string{"provider"},
			[]float64{0, 0.1, 0.5, 1, 2, 3, 5, 10},
		),
		stageLatency: NewHistogramVec(
			"sf_pipeline_stage_duration_seconds",
			"Pipeline stage latency in seconds by stage.",
			[]string{"stage"},
			[]float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 30},
		),
		stageTotal:    NewCounterVec("sf_pipeline_stage_total", "Pipeline stage executions by stage/outcome.", []string{"stage", "outcome"}),
		fallbacks:     NewCounterVec("sf_pipeline_fallback_total", "Deterministic fallbacks taken by stage.", []string{"stage"}),
		runs:          NewCounterVec("sf_pipeline_runs_total", "Pipeline runs by mode/outcome.", []string{"mode", "outcome"}),
		imageSearches: NewCounterVec("sf_image_search_total", "Stock image searches by outcome.", []string{"outcome"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.llmRequests, m.llmLatency, m.llmWait,
		m.stageLatency, m.stageTotal, m.fallbacks, m.runs,
		m.imageSearches,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

// ObserveAPIStream counts a long-lived streaming response without feeding
// its duration into the latency histogram.
func (m *Metrics) ObserveAPIStream(method, route, status string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	m.apiRequests.Inc(method, route, status)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveLLMRequest records one gateway call. outcome is ok, config_error,
// provider_error, extraction_error, timeout or cancelled.
func (m *Metrics) ObserveLLMRequest(provider, contextLabel, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.Inc(provider, contextLabel, outcome)
	if dur > 0 {
		m.llmLatency.Observe(dur.Seconds(), provider, contextLabel)
	}
}

func (m *Metrics) ObserveRateLimitWait(provider string, dur time.Duration) {
	if m == nil {
		return
	}
	m.llmWait.Observe(dur.Seconds(), provider)
}

func (m *Metrics) ObserveStage(stage, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.stageTotal.Inc(stage, outcome)
	m.stageLatency.Observe(dur.Seconds(), stage)
}

func (m *Metrics) IncFallback(stage string) {
	if m == nil {
		return
	}
	m.fallbacks.Inc(stage)
}

func (m *Metrics) IncRun(mode, outcome string) {
	if m == nil {
		return
	}
	m.runs.Inc(mode, outcome)
}

func (m *Metrics) IncImageSearch(outcome string) {
	if m == nil {
		return
	}
	m.imageSearches.Inc(outcome)
}

func (m *Metrics) LLMRequestCount(provider, contextLabel, outcome string) float64 {
	if m == nil {
		return 0
	}
	return m.llmRequests.Value(provider, contextLabel, outcome)
}

func (m *Metrics) FallbackCount(stage string) float64 {
	if m == nil {
		return 0
	}
	return m.fallbacks.Value(stage)
}
