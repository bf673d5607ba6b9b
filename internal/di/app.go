package di

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/ratelimit"
	"github.com/park285/dermacare-server-go/internal/telemetry"
	"github.com/park285/dermacare-server-go/internal/usage"
)

// App: 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server          *http.Server
	Logger          *slog.Logger
	Config          *config.Config
	Telemetry       *telemetry.Provider
	RateLimiter     ratelimit.Limiter
	UsageRepository *usage.Repository
}

// NewApp: App 인스턴스를 생성합니다.
func NewApp(
	server *http.Server,
	logger *slog.Logger,
	cfg *config.Config,
	telemetryProvider *telemetry.Provider,
	limiter ratelimit.Limiter,
	usageRepository *usage.Repository,
) *App {
	return &App{
		Server:          server,
		Logger:          logger,
		Config:          cfg,
		Telemetry:       telemetryProvider,
		RateLimiter:     limiter,
		UsageRepository: usageRepository,
	}
}

// Close: 앱 리소스를 정리합니다. 남은 span 은 ctx 안에서 flush 한다.
func (a *App) Close(ctx context.Context) {
	if a.RateLimiter != nil {
		a.RateLimiter.Close()
	}
	if a.UsageRepository != nil {
		a.UsageRepository.Close()
	}
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil && a.Logger != nil {
			a.Logger.Warn("telemetry_shutdown_failed", "err", err)
		}
	}
}
