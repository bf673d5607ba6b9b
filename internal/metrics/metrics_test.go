package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/park285/dermacare-server-go/internal/llm"
)

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordUpstream("gemini", 120*time.Millisecond, nil)
	store.RecordUsage(llm.Usage{InputTokens: 2, OutputTokens: 3, ReasoningTokens: 1})
	store.RecordUpstream("places", 50*time.Millisecond, errors.New("boom"))
	store.RecordFiltered(2, 3)

	usage := store.UsageTotals()
	if usage.InputTokens != 2 || usage.OutputTokens != 3 || usage.ReasoningTokens != 1 || usage.TotalTokens != 5 {
		t.Fatalf("unexpected usage totals: %+v", usage)
	}

	snapshot := store.Snapshot()
	if snapshot["total_calls"] != 2 {
		t.Fatalf("expected total_calls 2, got %v", snapshot["total_calls"])
	}
	if snapshot["total_errors"] != 1 {
		t.Fatalf("expected total_errors 1, got %v", snapshot["total_errors"])
	}
	if snapshot["avg_duration_ms"] != 85 {
		t.Fatalf("unexpected avg duration: %v", snapshot["avg_duration_ms"])
	}
	if snapshot["clinics_kept"] != 2 || snapshot["clinics_dropped"] != 3 {
		t.Fatalf("unexpected clinic counts: %v", snapshot)
	}

	if got := testutil.ToFloat64(store.upstreamCalls.WithLabelValues("places", "error")); got != 1 {
		t.Fatalf("expected one places error, got %v", got)
	}
	if got := testutil.ToFloat64(store.tokens.WithLabelValues("output")); got != 3 {
		t.Fatalf("expected 3 output tokens, got %v", got)
	}
}

func TestStoreHandlerExposesCollectors(t *testing.T) {
	store := NewStore()
	store.RecordUpstream("gemini", time.Second, nil)

	rec := httptest.NewRecorder()
	store.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `dermacare_upstream_calls_total{result="ok",service="gemini"} 1`) {
		t.Fatalf("expected upstream counter in exposition:\n%s", body)
	}
}

func TestStoresAreIsolated(t *testing.T) {
	first := NewStore()
	second := NewStore()
	first.RecordFiltered(1, 0)
	if second.Snapshot()["clinics_kept"] != 0 {
		t.Fatalf("stores must not share counters")
	}
}
