//go:build wireinject

package di

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"

	"github.com/park285/dermacare-server-go/internal/assistant"
	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/gemini"
	"github.com/park285/dermacare-server-go/internal/handler"
	"github.com/park285/dermacare-server-go/internal/metrics"
	"github.com/park285/dermacare-server-go/internal/places"
	"github.com/park285/dermacare-server-go/internal/server"
	"github.com/park285/dermacare-server-go/internal/usage"
)

func InitializeApp(ctx context.Context) (*App, error) {
	wire.Build(
		config.ProvideConfig,
		ProvideLogger,
		ProvideTelemetry,
		metrics.NewStore,
		usage.NewRepository,
		usage.NewRecorder,
		wire.Bind(new(gemini.UsageRecorder), new(*usage.Recorder)),
		gemini.NewClient,
		assistant.LoadDirective,
		ProvideAssistantService,
		ProvidePlacesClient,
		ProvideIdentityProvider,
		ProvideRateLimiter,
		ProvideHealthChecker,
		wire.Bind(new(handler.Replier), new(*assistant.Service)),
		wire.Bind(new(handler.ClinicSearcher), new(*places.Client)),
		handler.NewAssistantHandler,
		handler.NewClinicsHandler,
		handler.NewIdentityHandler,
		handler.NewUsageHandler,
		handler.NewRouter,
		wire.Bind(new(http.Handler), new(*gin.Engine)),
		server.NewHTTPServer,
		NewApp,
	)
	return nil, nil
}
