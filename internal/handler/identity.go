package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/handler/shared"
	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/identity"
	"github.com/park285/dermacare-server-go/internal/upstream"
)

// SignupRequest 는 계정 생성 요청 본문이다.
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest 는 세션 확인 요청 본문이다. id_token 은 클라이언트가 제공자에서 받은 토큰이다.
type LoginRequest struct {
	IDToken string `json:"id_token"`
}

// IdentityResponse 는 제공자가 돌려준 uid 를 담는다.
type IdentityResponse struct {
	Message string `json:"message"`
	UID     string `json:"uid"`
}

// IdentityHandler 는 계정 API 핸들러다. 제공자 결과를 바꾸지 않고 전달한다.
type IdentityHandler struct {
	provider identity.Provider
	logger   *slog.Logger
}

// NewIdentityHandler 는 IdentityHandler 를 생성한다.
func NewIdentityHandler(provider identity.Provider, logger *slog.Logger) *IdentityHandler {
	return &IdentityHandler{provider: provider, logger: logger}
}

// RegisterRoutes 는 계정 라우트를 등록한다.
func (h *IdentityHandler) RegisterRoutes(routes gin.IRoutes) {
	routes.POST("/signup", h.handleSignup)
	routes.POST("/login", h.handleLogin)
}

func (h *IdentityHandler) handleSignup(c *gin.Context) {
	var req SignupRequest
	if !shared.DecodeBody(c, &req, false) {
		return
	}

	uid, err := h.provider.CreateAccount(c.Request.Context(), identity.Account{
		Email:       strings.TrimSpace(req.Email),
		Password:    req.Password,
		DisplayName: strings.TrimSpace(req.Name),
	})
	if err != nil {
		shared.LogFailure(c, h.logger, "signup_failed", err)
		shared.Abort(c, identityError(err, http.StatusBadRequest))
		return
	}

	c.JSON(http.StatusCreated, IdentityResponse{Message: "User created successfully", UID: uid})
}

func (h *IdentityHandler) handleLogin(c *gin.Context) {
	var req LoginRequest
	if !shared.DecodeBody(c, &req, true) {
		return
	}
	token := strings.TrimSpace(req.IDToken)
	if token == "" {
		shared.Abort(c, httperror.NewMissingField("id_token", ""))
		return
	}

	session, err := h.provider.ValidateSession(c.Request.Context(), token)
	if err != nil {
		shared.LogFailure(c, h.logger, "login_failed", err)
		status := http.StatusBadRequest
		if errors.Is(err, identity.ErrInvalidSession) {
			status = http.StatusUnauthorized
		}
		shared.Abort(c, identityError(err, status))
		return
	}

	c.JSON(http.StatusOK, IdentityResponse{Message: "Login successful", UID: session.UID})
}

// identityError: 대기 한도 만료나 미설정은 upstream 오류로, 나머지는 제공자 문구 그대로 돌려준다.
func identityError(err error, status int) error {
	var upstreamErr *upstream.Error
	if errors.As(err, &upstreamErr) {
		return httperror.NewUpstreamError("Identity provider unavailable", err)
	}
	return httperror.NewIdentityError(status, err)
}
