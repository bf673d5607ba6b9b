package handler

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/health"
	"github.com/park285/dermacare-server-go/internal/identity"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/middleware"
	"github.com/park285/dermacare-server-go/internal/ratelimit"
)

// NewRouter 는 HTTP 라우터를 구성한다.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	limiter ratelimit.Limiter,
	provider identity.Provider,
	checker *health.Checker,
	metricsStore *metrics.Store,
	assistantHandler *AssistantHandler,
	clinicsHandler *ClinicsHandler,
	identityHandler *IdentityHandler,
	usageHandler *UsageHandler,
) *gin.Engine {
	setGinMode(cfg.Logging.Level)

	router := gin.New()
	// 빈 목록이면 ClientIP 는 RemoteAddr 만 본다
	if err := router.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		_ = router.SetTrustedProxies(nil)
		if logger != nil {
			logger.Warn("trusted_proxies_invalid", "proxies", cfg.HTTP.TrustedProxies, "err", err)
		}
	}
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		gin.Recovery(),
		middleware.CORS(cfg.CORS),
	)
	if cfg.Telemetry.Enabled {
		router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	RegisterHealthRoutes(router, cfg, checker, metricsStore)

	rateLimit := middleware.RateLimit(limiter, logger)
	identityHandler.RegisterRoutes(router.Group("", rateLimit))

	// 세션 검증이 먼저 와야 요청 제한이 uid 기준으로 동작한다
	guarded := []gin.HandlerFunc{rateLimit}
	if cfg.Identity.Enabled() || cfg.Identity.RequireSession {
		guarded = []gin.HandlerFunc{middleware.SessionAuth(provider, cfg.Identity.RequireSession), rateLimit}
	}

	assistantHandler.RegisterRoutes(router.Group("", guarded...))

	api := router.Group("/api", guarded...)
	clinicsHandler.RegisterRoutes(api)
	usageHandler.RegisterRoutes(api)
	RegisterMetricsRoutes(api, metricsStore)

	return router
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
