package shared

import (
	"errors"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/middleware"
)

// Abort 는 err 를 구조화된 오류 본문으로 쓰고 이후 핸들러를 멈춘다.
func Abort(c *gin.Context, err error) {
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.AbortWithStatusJSON(status, payload)
}

// DecodeBody 는 JSON 본문을 out 에 채운다. 실패하면 400 을 쓰고 false 를 반환한다.
// allowEmpty 이면 본문이 비어 있어도 통과시키고 필수 필드 검사는 호출자가 한다.
func DecodeBody(c *gin.Context, out any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(out)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	Abort(c, httperror.NewValidationError(err))
	return false
}

// LogFailure 는 핸들러 실패를 요청 ID 와 함께 경고로 남긴다.
func LogFailure(c *gin.Context, logger *slog.Logger, event string, err error) {
	if logger == nil || err == nil {
		return
	}
	logger.WarnContext(c.Request.Context(), event,
		"request_id", middleware.GetRequestID(c),
		"route", c.FullPath(),
		"err", err,
	)
}
