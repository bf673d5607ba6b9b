package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/config"
	"github.com/park285/dermacare-server-go/internal/handler/shared"
	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/usage"
)

const (
	defaultUsageDays = 7
	maxUsageDays     = 90
)

// DailyUsageResponse: 일자별 사용량 응답입니다.
type DailyUsageResponse struct {
	UsageDate       string  `json:"usage_date"`
	InputTokens     int64   `json:"input_tokens"`
	OutputTokens    int64   `json:"output_tokens"`
	TotalTokens     int64   `json:"total_tokens"`
	ReasoningTokens int64   `json:"reasoning_tokens"`
	CachedTokens    int64   `json:"cached_tokens"`
	CacheHitRatio   float64 `json:"cache_hit_ratio"`
	ReplyCount      int64   `json:"reply_count"`
}

// UsageListResponse: 사용량 목록 응답입니다.
type UsageListResponse struct {
	Days              int                  `json:"days"`
	Model             string               `json:"model"`
	Usages            []DailyUsageResponse `json:"usages"`
	TotalInputTokens  int64                `json:"total_input_tokens"`
	TotalOutputTokens int64                `json:"total_output_tokens"`
	TotalTokens       int64                `json:"total_tokens"`
	TotalReplyCount   int64                `json:"total_reply_count"`
}

// UsageHandler: 사용량 API 핸들러입니다.
type UsageHandler struct {
	model  string
	store  usage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewUsageHandler: 사용량 핸들러를 생성합니다.
func NewUsageHandler(cfg *config.Config, repo *usage.Repository, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		model:  cfg.Gemini.Model,
		store:  repo,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterRoutes: 사용량 라우트를 등록합니다.
func (h *UsageHandler) RegisterRoutes(routes gin.IRoutes) {
	routes.GET("/usage", h.handleRecent)
}

func (h *UsageHandler) handleRecent(c *gin.Context) {
	days, ok := parseDays(c)
	if !ok {
		return
	}

	now := h.now()
	usages, err := h.store.Recent(c.Request.Context(), days, now)
	if err != nil {
		if errors.Is(err, usage.ErrDisabled) {
			shared.Abort(c, httperror.NewInvalidInput("usage accounting is disabled"))
			return
		}
		shared.LogFailure(c, h.logger, "usage_query_failed", err)
		shared.Abort(c, httperror.NewInternalError("Failed to load usage"))
		return
	}

	c.JSON(http.StatusOK, h.buildResponse(days, usages))
}

func (h *UsageHandler) buildResponse(days int, usages []usage.DailyUsage) UsageListResponse {
	response := UsageListResponse{
		Days:   days,
		Model:  h.model,
		Usages: make([]DailyUsageResponse, 0, len(usages)),
	}

	for _, row := range usages {
		ratio := 0.0
		if row.InputTokens > 0 {
			ratio = float64(row.CachedTokens) / float64(row.InputTokens)
		}
		response.Usages = append(response.Usages, DailyUsageResponse{
			UsageDate:       row.UsageDate.Format(time.DateOnly),
			InputTokens:     row.InputTokens,
			OutputTokens:    row.OutputTokens,
			TotalTokens:     row.TotalTokens(),
			ReasoningTokens: row.ReasoningTokens,
			CachedTokens:    row.CachedTokens,
			CacheHitRatio:   ratio,
			ReplyCount:      row.ReplyCount,
		})
		response.TotalInputTokens += row.InputTokens
		response.TotalOutputTokens += row.OutputTokens
		response.TotalTokens += row.TotalTokens()
		response.TotalReplyCount += row.ReplyCount
	}
	return response
}

func parseDays(c *gin.Context) (int, bool) {
	days, err := shared.QueryInt(c, "days", defaultUsageDays)
	if err != nil || days <= 0 || days > maxUsageDays {
		shared.Abort(c, httperror.NewInvalidInput("days must be between 1 and 90"))
		return 0, false
	}
	return days, true
}
