package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/ratelimit"
)

// RateLimit 는 요청 제한 미들웨어다. limiter 가 nil 이면 제한하지 않는다.
// 저장소 오류 시에는 요청을 통과시키고 경고만 남긴다.
func RateLimit(limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		identity := rateLimitIdentity(c)
		decision, err := limiter.Allow(c.Request.Context(), identity)
		if err != nil {
			if logger != nil {
				logger.WarnContext(c.Request.Context(), "rate_limit_check_failed",
					"identity", identity,
					"err", err,
				)
			}
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(retryAfter, 1)))
			abortWithError(c, httperror.NewRateLimitExceeded(map[string]any{
				"path":        c.Request.URL.Path,
				"identity":    identity,
				"retry_after": max(retryAfter, 1),
			}))
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Next()
	}
}

func rateLimitIdentity(c *gin.Context) string {
	if uid := GetSessionUID(c); uid != "" {
		return "uid:" + hashKey(uid)
	}

	// ClientIP 는 엔진에 등록된 신뢰 프록시에서 온 경우에만 X-Forwarded-For 를 따른다
	if ip := c.ClientIP(); ip != "" {
		return "ip:" + ip
	}
	return "ip:unknown"
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:16]
}
