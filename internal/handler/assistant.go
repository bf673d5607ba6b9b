package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/assistant"
	"github.com/park285/dermacare-server-go/internal/handler/shared"
	"github.com/park285/dermacare-server-go/internal/httperror"
)

const (
	emptyInputMessage   = "Input cannot be empty."
	replyFailureMessage = "Failed to generate AI response."
)

// AssistantRequest 는 상담 요청 본문이다.
type AssistantRequest struct {
	Input string `json:"input"`
}

// Replier 는 사용자 메시지에 대한 전체 답변을 만든다.
type Replier interface {
	Reply(ctx context.Context, message string) (assistant.Reply, error)
}

// AssistantHandler 는 피부 상담 API 핸들러다.
type AssistantHandler struct {
	replier Replier
	logger  *slog.Logger
}

// NewAssistantHandler 는 AssistantHandler 를 생성한다.
func NewAssistantHandler(replier Replier, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{replier: replier, logger: logger}
}

// RegisterRoutes 는 상담 라우트를 등록한다.
func (h *AssistantHandler) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/ai-response", h.handleReply)
}

func (h *AssistantHandler) handleReply(c *gin.Context) {
	var req AssistantRequest
	if !shared.DecodeBody(c, &req, true) {
		return
	}
	// 공백만 있는 입력도 빈 입력으로 본다. 통과한 입력은 그대로 전달한다.
	if strings.TrimSpace(req.Input) == "" {
		shared.Abort(c, httperror.NewMissingField("input", emptyInputMessage))
		return
	}

	reply, err := h.replier.Reply(c.Request.Context(), req.Input)
	if err != nil {
		shared.LogFailure(c, h.logger, "assistant_request_failed", err)
		shared.Abort(c, httperror.NewAggregationFailed(replyFailureMessage, err))
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(reply.Text))
}
