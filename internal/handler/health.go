package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/gemini"
	"github.com/park285/dermacare-server-go/internal/health"
	"github.com/park285/dermacare-server-go/internal/metrics"
)

// ModelConfigResponse: 모델 설정 응답입니다.
type ModelConfigResponse struct {
	Model           string  `json:"model"`
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"top_p"`
	TopK            float32 `json:"top_k"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
	ResponseMIME    string  `json:"response_mime_type"`
	TimeoutSeconds  int     `json:"timeout_seconds"`
	HTTP2Enabled    bool    `json:"http2_enabled"`
	TransportMode   string  `json:"transport_mode"`
}

// RegisterHealthRoutes: 상태 확인 및 메트릭 라우트를 등록합니다.
func RegisterHealthRoutes(router *gin.Engine, cfg *config.Config, checker *health.Checker, metricsStore *metrics.Store) {
	router.GET("/health", func(c *gin.Context) {
		// liveness 는 외부 저장소 상태와 무관하게 shallow 로 유지
		c.JSON(http.StatusOK, checker.Collect(c.Request.Context(), false))
	})

	router.GET("/health/ready", func(c *gin.Context) {
		payload := checker.Collect(c.Request.Context(), true)
		status := http.StatusOK
		if payload.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, payload)
	})

	router.GET("/health/models", func(c *gin.Context) {
		transportMode := "h1"
		if cfg.HTTP.HTTP2Enabled {
			transportMode = "h2c"
		}
		c.JSON(http.StatusOK, ModelConfigResponse{
			Model:           cfg.Gemini.Model,
			Temperature:     gemini.Temperature,
			TopP:            gemini.TopP,
			TopK:            gemini.TopK,
			MaxOutputTokens: gemini.MaxOutputTokens,
			ResponseMIME:    gemini.ResponseMIME,
			TimeoutSeconds:  cfg.Gemini.TimeoutSeconds,
			HTTP2Enabled:    cfg.HTTP.HTTP2Enabled,
			TransportMode:   transportMode,
		})
	})

	router.GET("/metrics", gin.WrapH(metricsStore.Handler()))
}

// RegisterMetricsRoutes: 누적 통계 JSON 라우트를 등록합니다.
func RegisterMetricsRoutes(routes gin.IRoutes, metricsStore *metrics.Store) {
	routes.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, metricsStore.Snapshot())
	})
}
