package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/health"
	"github.com/park285/dermacare-server-go/internal/identity/identitytest"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/ratelimit"
	"github.com/park285/dermacare-server-go/internal/usage"
)

type routerFixture struct {
	router   http.Handler
	streamer *scriptedStreamer
	identity *identitytest.Fake
}

func newRouterFixture(t *testing.T, mutate func(cfg *config.Config)) routerFixture {
	t.Helper()
	cfg := &config.Config{
		Gemini:   config.GeminiConfig{APIKey: "key", Model: "gemini-test", TimeoutSeconds: 30},
		Places:   config.PlacesConfig{APIKey: "maps", DefaultRadius: 5000},
		Identity: config.IdentityConfig{CredentialsPath: "/etc/creds.json"},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	if mutate != nil {
		mutate(cfg)
	}

	metricsStore := metrics.NewStore()
	streamer := &scriptedStreamer{fragments: []string{"Use a gentle moisturizer."}}
	fake := identitytest.NewFake()
	fake.IssueToken("good", "uid-1")

	var limiter ratelimit.Limiter
	if cfg.HTTPRateLimit.RequestsPerMinute > 0 {
		limiter = ratelimit.NewMemoryLimiter(cfg.HTTPRateLimit)
	}

	router := NewRouter(
		cfg,
		discardLogger(),
		limiter,
		fake,
		health.NewChecker(cfg, nil, nil),
		metricsStore,
		NewAssistantHandler(newAssistantService(t, streamer), discardLogger()),
		NewClinicsHandler(cfg, &recordingSearcher{records: mustRecords(t, `{"name":"City Skin Clinic"}`)}, metricsStore, discardLogger()),
		NewIdentityHandler(fake, discardLogger()),
		NewUsageHandler(cfg, usage.NewRepository(cfg, discardLogger()), discardLogger()),
	)
	return routerFixture{router: router, streamer: streamer, identity: fake}
}

func TestRouterHealthRoutes(t *testing.T) {
	fixture := newRouterFixture(t, nil)

	for _, target := range []string{"/health", "/health/ready", "/health/models", "/metrics"} {
		resp := perform(fixture.router, http.MethodGet, target, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, resp.Code)
		}
	}

	resp := perform(fixture.router, http.MethodGet, "/health/models", "")
	var models ModelConfigResponse
	decodeBody(t, resp, &models)
	if models.Model != "gemini-test" || models.TopK != 40 || models.MaxOutputTokens != 8192 {
		t.Fatalf("unexpected model config: %+v", models)
	}
}

func TestRouterPrometheusMetrics(t *testing.T) {
	fixture := newRouterFixture(t, nil)
	perform(fixture.router, http.MethodGet, "/api/clinics?lat=37.5&lng=126.9", "")

	resp := perform(fixture.router, http.MethodGet, "/metrics", "")
	if !strings.Contains(resp.Body.String(), `dermacare_clinics_records_total{outcome="kept"} 1`) {
		t.Fatalf("expected clinic metric in exposition")
	}
}

func TestRouterOptionalSession(t *testing.T) {
	fixture := newRouterFixture(t, nil)

	resp := perform(fixture.router, http.MethodPost, "/ai-response", `{"input":"rash"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("anonymous request should pass, got %d", resp.Code)
	}
	if resp.Body.String() != "Use a gentle moisturizer." {
		t.Fatalf("unexpected reply: %q", resp.Body.String())
	}

	resp = perform(fixture.router, http.MethodGet, "/api/metrics", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics snapshot, got %d", resp.Code)
	}
}

func TestRouterRequiredSession(t *testing.T) {
	fixture := newRouterFixture(t, func(cfg *config.Config) { cfg.Identity.RequireSession = true })

	resp := perform(fixture.router, http.MethodPost, "/ai-response", `{"input":"rash"}`)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	if len(fixture.streamer.calls) != 0 {
		t.Fatalf("model must not be called without a session")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/clinics?lat=37.5&lng=126.9", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	fixture.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", rec.Code)
	}

	resp = perform(fixture.router, http.MethodGet, "/health", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", resp.Code)
	}
}

func TestRouterRateLimit(t *testing.T) {
	fixture := newRouterFixture(t, func(cfg *config.Config) {
		cfg.HTTPRateLimit = config.HTTPRateLimitConfig{RequestsPerMinute: 1, CacheSize: 10, CacheTTLSeconds: 60}
	})

	first := perform(fixture.router, http.MethodGet, "/api/clinics?lat=37.5&lng=126.9", "")
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	second := perform(fixture.router, http.MethodGet, "/api/clinics?lat=37.5&lng=126.9", "")
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", second.Code)
	}
	health := perform(fixture.router, http.MethodGet, "/health", "")
	if health.Code != http.StatusOK {
		t.Fatalf("health must not be rate limited, got %d", health.Code)
	}
}

func TestRouterRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	fixture := newRouterFixture(t, func(cfg *config.Config) {
		cfg.HTTPRateLimit = config.HTTPRateLimitConfig{RequestsPerMinute: 1, CacheSize: 10, CacheTTLSeconds: 60}
	})

	codes := make([]int, 0, 3)
	for i := range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/clinics?lat=37.5&lng=126.9", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", "10.0.0."+strconv.Itoa(i))
		resp := httptest.NewRecorder()
		fixture.router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected [200 429 429], got %v", codes)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	fixture := newRouterFixture(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/ai-response", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	fixture.router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}
