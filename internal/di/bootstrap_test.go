package di

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/park285/dermacare-server-go/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Gemini: config.GeminiConfig{APIKey: "key", Model: "gemini-test", TimeoutSeconds: 30},
		Places: config.PlacesConfig{APIKey: "maps", BaseURL: "https://places.invalid/nearby", TimeoutSeconds: 1, DefaultRadius: 5000},
		HTTP:   config.HTTPConfig{Host: "127.0.0.1", Port: 0},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildApp(t *testing.T) {
	app, err := buildApp(context.Background(), testConfig(), discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { app.Close(context.Background()) })

	if app.Server == nil || app.Server.Handler == nil {
		t.Fatalf("expected http server with handler")
	}
	if app.RateLimiter != nil {
		t.Fatalf("rate limiter should be off when rpm is 0")
	}
}

func TestBuildAppReleasesStoreOnLaterFailure(t *testing.T) {
	mini := miniredis.RunT(t)
	cfg := testConfig()
	cfg.HTTPRateLimit = config.HTTPRateLimitConfig{
		RequestsPerMinute:  5,
		StoreURL:           "redis://" + mini.Addr(),
		ConnectMaxAttempts: 1,
	}
	cfg.Identity = config.IdentityConfig{CredentialsPath: filepath.Join(t.TempDir(), "missing.json")}

	if _, err := buildApp(context.Background(), cfg, discardLogger()); err == nil {
		t.Fatalf("expected identity provider error")
	}
	if mini.TotalConnectionCount() == 0 {
		t.Fatalf("expected the limiter to have connected before the failure")
	}

	deadline := time.Now().Add(2 * time.Second)
	for mini.CurrentConnectionCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("valkey connections left open: %d", mini.CurrentConnectionCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
