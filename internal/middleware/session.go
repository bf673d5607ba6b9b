package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/park285/dermacare-server-go/internal/httperror"
	"github.com/park285/dermacare-server-go/internal/identity"
)

const sessionUIDKey = "session_uid"

// SessionAuth 는 Bearer 세션 토큰을 인증 제공자로 검증한다.
// required 가 false 이면 토큰이 없는 요청도 익명으로 통과시키지만, 제시된 토큰이 무효하면 거부한다.
func SessionAuth(provider identity.Provider, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c)
		if token == "" {
			if required {
				abortWithError(c, httperror.NewUnauthorized("Missing session token", map[string]any{
					"path": c.Request.URL.Path,
				}))
				return
			}
			c.Next()
			return
		}

		session, err := provider.ValidateSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidSession) {
				abortWithError(c, httperror.NewUnauthorized("Invalid session token", map[string]any{
					"path": c.Request.URL.Path,
				}))
				return
			}
			abortWithError(c, err)
			return
		}

		c.Set(sessionUIDKey, session.UID)
		c.Next()
	}
}

// GetSessionUID: 검증된 세션의 uid 를 반환합니다. 익명 요청이면 빈 문자열입니다.
func GetSessionUID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionUIDKey)
}

func extractBearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func abortWithError(c *gin.Context, err error) {
	status, payload := httperror.Response(err, GetRequestID(c))
	c.AbortWithStatusJSON(status, payload)
}
