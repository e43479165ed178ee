package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/response"

	"github.com/wyfcoding/usermanagement/internal/user/application"
	"github.com/wyfcoding/usermanagement/internal/user/domain"
)

const (
	principalKey    = "principal"
	sessionTokenKey = "session_token"
)

// SessionAuth 解析 Bearer Token 并从会话存储建立调用者身份
func SessionAuth(query *application.UserQueryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing bearer token", "")
			c.Abort()
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		session, err := query.GetSession(c.Request.Context(), token)
		if err != nil {
			logging.Error(c.Request.Context(), "session lookup failed", "error", err)
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired session", "")
			c.Abort()
			return
		}
		if session == nil || session.IsExpired() {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired session", "")
			c.Abort()
			return
		}

		c.Set(sessionTokenKey, token)
		c.Set(principalKey, domain.Principal{
			UserID: session.UserID,
			Email:  session.Email,
			Role:   session.Role,
		})
		c.Next()
	}
}

// RequireAdmin 角色门禁，在进入任何 /admin 处理器之前执行
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok || !principal.IsAdmin() {
			response.ErrorWithStatus(c, http.StatusForbidden, domain.ErrForbidden.Error(), "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PrincipalFrom 取出 SessionAuth 建立的调用者身份
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := v.(domain.Principal)
	return principal, ok
}
