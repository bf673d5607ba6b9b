package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/park285/dermacare-server-go/internal/assistant"
	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/gemini"
	"github.com/park285/dermacare-server-go/internal/health"
	"github.com/park285/dermacare-server-go/internal/identity"
	"github.com/park285/dermacare-server-go/internal/logging"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/places"
	"github.com/park285/dermacare-server-go/internal/ratelimit"
	"github.com/park285/dermacare-server-go/internal/telemetry"
	"github.com/park285/dermacare-server-go/internal/usage"
)

// ProvideLogger: 로거를 구성해 반환합니다.
// OTel이 활성화된 경우 로그에 trace_id/span_id가 자동으로 추가됩니다.
func ProvideLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.NewLoggerWithOTel(cfg.Logging, cfg.Telemetry.Enabled)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

// ProvideTelemetry: 추적 provider 를 초기화합니다.
func ProvideTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Provider, error) {
	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	return provider, nil
}

// ProvideAssistantService: 지침과 모델 클라이언트로 상담 서비스를 구성합니다.
func ProvideAssistantService(cfg *config.Config, directive assistant.Directive, client *gemini.Client, logger *slog.Logger) (*assistant.Service, error) {
	return assistant.NewService(directive, client, cfg.Gemini.Timeout(), logger)
}

// ProvidePlacesClient: 트레이싱 transport 를 쓰는 장소 클라이언트를 구성합니다.
func ProvidePlacesClient(cfg *config.Config, metricsStore *metrics.Store, logger *slog.Logger) (*places.Client, error) {
	return places.NewClient(cfg.Places, nil, metricsStore, logger)
}

// ProvideIdentityProvider: 자격 증명이 없으면 모든 호출이 upstream 오류가 되는 Provider 를 돌려줍니다.
func ProvideIdentityProvider(ctx context.Context, cfg *config.Config) (identity.Provider, error) {
	if !cfg.Identity.Enabled() {
		return identity.Unavailable{}, nil
	}
	provider, err := identity.NewFirebaseProvider(ctx, cfg.Identity)
	if err != nil {
		return nil, fmt.Errorf("identity provider: %w", err)
	}
	return provider, nil
}

// ProvideRateLimiter: 요청 제한기를 구성합니다. 제한이 꺼져 있으면 nil 입니다.
func ProvideRateLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ratelimit.Limiter, error) {
	limiter, err := ratelimit.New(ctx, cfg.HTTPRateLimit, logger)
	if err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return limiter, nil
}

// ProvideHealthChecker: 실제로 쓰는 저장소만 deep check 대상으로 넘깁니다.
func ProvideHealthChecker(cfg *config.Config, limiter ratelimit.Limiter, repo *usage.Repository) *health.Checker {
	var rateStore, usageDB health.Pinger
	if pinger, ok := limiter.(health.Pinger); ok {
		rateStore = pinger
	}
	if repo.Enabled() {
		usageDB = repo
	}
	return health.NewChecker(cfg, rateStore, usageDB)
}
