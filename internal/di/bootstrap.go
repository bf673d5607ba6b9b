package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/park285/dermacare-server-go/internal/assistant"
	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/gemini"
	"github.com/park285/dermacare-server-go/internal/handler"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/server"
	"github.com/park285/dermacare-server-go/internal/usage"
)

const releaseTimeout = 5 * time.Second

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp(ctx context.Context) (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	return buildApp(ctx, cfg, logger)
}

// buildApp 은 도중에 실패하면 그때까지 만든 자원(telemetry, 요청 제한 저장소, DB)을 닫는다.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (app *App, err error) {
	partial := &App{Logger: logger, Config: cfg}
	defer func() {
		if err == nil {
			return
		}
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		partial.Close(releaseCtx)
	}()

	partial.Telemetry, err = ProvideTelemetry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	metricsStore := metrics.NewStore()
	partial.UsageRepository = usage.NewRepository(cfg, logger)
	usageRecorder := usage.NewRecorder(partial.UsageRepository, logger)

	partial.RateLimiter, err = ProvideRateLimiter(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	geminiClient, err := gemini.NewClient(cfg, metricsStore, usageRecorder, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	directive, err := assistant.LoadDirective()
	if err != nil {
		return nil, fmt.Errorf("assistant directive: %w", err)
	}

	assistantService, err := ProvideAssistantService(cfg, directive, geminiClient, logger)
	if err != nil {
		return nil, fmt.Errorf("assistant service: %w", err)
	}

	placesClient, err := ProvidePlacesClient(cfg, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("places client: %w", err)
	}

	identityProvider, err := ProvideIdentityProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	checker := ProvideHealthChecker(cfg, partial.RateLimiter, partial.UsageRepository)

	router := handler.NewRouter(
		cfg,
		logger,
		partial.RateLimiter,
		identityProvider,
		checker,
		metricsStore,
		handler.NewAssistantHandler(assistantService, logger),
		handler.NewClinicsHandler(cfg, placesClient, metricsStore, logger),
		handler.NewIdentityHandler(identityProvider, logger),
		handler.NewUsageHandler(cfg, partial.UsageRepository, logger),
	)
	httpServer := server.NewHTTPServer(cfg, router)

	return NewApp(httpServer, logger, cfg, partial.Telemetry, partial.RateLimiter, partial.UsageRepository), nil
}
