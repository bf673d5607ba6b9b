package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/park285/dermacare-server-go/internal/llm"
)

const namespace = "dermacare"

// Store 는 외부 호출 통계를 저장한다.
// 누적 카운터는 /api/metrics JSON 스냅샷에, Prometheus 수집기는 /metrics 에 쓰인다.
type Store struct {
	totalCalls           int64
	totalErrors          int64
	totalInputTokens     int64
	totalOutputTokens    int64
	totalReasoningTokens int64
	totalDurationMs      int64
	clinicsKept          int64
	clinicsDropped       int64

	registry         *prometheus.Registry
	upstreamCalls    *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	tokens           *prometheus.CounterVec
	clinics          *prometheus.CounterVec
}

// NewStore 는 전용 레지스트리를 가진 통계 저장소를 생성한다.
func NewStore() *Store {
	s := &Store{
		registry: prometheus.NewRegistry(),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "calls_total",
			Help:      "Upstream calls by service and result.",
		}, []string{"service", "result"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Upstream call duration, including full stream consumption for the model.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"service"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "tokens_total",
			Help:      "Model tokens reported by the provider.",
		}, []string{"kind"}),
		clinics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "clinics",
			Name:      "records_total",
			Help:      "Place records seen by the relevance filter.",
		}, []string{"outcome"}),
	}
	s.registry.MustRegister(
		s.upstreamCalls,
		s.upstreamDuration,
		s.tokens,
		s.clinics,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return s
}

// RecordUpstream 는 외부 호출 한 번의 결과를 기록한다.
func (s *Store) RecordUpstream(service string, duration time.Duration, err error) {
	atomic.AddInt64(&s.totalCalls, 1)
	atomic.AddInt64(&s.totalDurationMs, duration.Milliseconds())
	result := "ok"
	if err != nil {
		atomic.AddInt64(&s.totalErrors, 1)
		result = "error"
	}
	s.upstreamCalls.WithLabelValues(service, result).Inc()
	s.upstreamDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordUsage 는 모델이 보고한 토큰 사용량을 누적한다.
func (s *Store) RecordUsage(usage llm.Usage) {
	atomic.AddInt64(&s.totalInputTokens, int64(usage.InputTokens))
	atomic.AddInt64(&s.totalOutputTokens, int64(usage.OutputTokens))
	atomic.AddInt64(&s.totalReasoningTokens, int64(usage.ReasoningTokens))
	s.tokens.WithLabelValues("input").Add(float64(usage.InputTokens))
	s.tokens.WithLabelValues("output").Add(float64(usage.OutputTokens))
	s.tokens.WithLabelValues("reasoning").Add(float64(usage.ReasoningTokens))
}

// RecordFiltered 는 관련성 필터 결과를 기록한다.
func (s *Store) RecordFiltered(kept int, dropped int) {
	atomic.AddInt64(&s.clinicsKept, int64(kept))
	atomic.AddInt64(&s.clinicsDropped, int64(dropped))
	s.clinics.WithLabelValues("kept").Add(float64(kept))
	s.clinics.WithLabelValues("dropped").Add(float64(dropped))
}

// UsageTotals 는 누적 사용량을 반환한다.
func (s *Store) UsageTotals() llm.Usage {
	input := atomic.LoadInt64(&s.totalInputTokens)
	output := atomic.LoadInt64(&s.totalOutputTokens)
	reasoning := atomic.LoadInt64(&s.totalReasoningTokens)
	return llm.Usage{
		InputTokens:     int(input),
		OutputTokens:    int(output),
		TotalTokens:     int(input + output),
		ReasoningTokens: int(reasoning),
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	totalCalls := atomic.LoadInt64(&s.totalCalls)
	durationMs := atomic.LoadInt64(&s.totalDurationMs)
	usage := s.UsageTotals()

	avgDuration := 0.0
	if totalCalls > 0 {
		avgDuration = float64(durationMs) / float64(totalCalls)
	}

	return map[string]float64{
		"total_calls":            float64(totalCalls),
		"total_errors":           float64(atomic.LoadInt64(&s.totalErrors)),
		"total_input_tokens":     float64(usage.InputTokens),
		"total_output_tokens":    float64(usage.OutputTokens),
		"total_reasoning_tokens": float64(usage.ReasoningTokens),
		"total_tokens":           float64(usage.TotalTokens),
		"total_duration_ms":      float64(durationMs),
		"avg_duration_ms":        avgDuration,
		"clinics_kept":           float64(atomic.LoadInt64(&s.clinicsKept)),
		"clinics_dropped":        float64(atomic.LoadInt64(&s.clinicsDropped)),
	}
}

// Registry 는 수집기 레지스트리를 반환한다.
func (s *Store) Registry() *prometheus.Registry {
	return s.registry
}

// Handler 는 Prometheus 노출 핸들러를 반환한다.
func (s *Store) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
