/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-22 20:41:15
 * @FilePath: \rental-desk\backend\internal\middleware\auth_middleware.go
 * @LastEditTime: 2026-09-22 20:41:20
 */
package middleware

import (
	"net/http"
	"strings"

	response "rental-desk/backend/internal/infra/common"
	"rental-desk/backend/internal/infra/token"

	"github.com/gin-gonic/gin"
)

// TokenParser 解析访问令牌，由 token.JWTManager 实现。
type TokenParser interface {
	ParseAccessToken(raw string) (token.AccessClaims, error)
}

// AuthMiddleware 校验 Bearer 访问令牌，保护受限路由。
type AuthMiddleware struct {
	parser TokenParser
}

// NewAuthMiddleware 创建鉴权中间件实例。
func NewAuthMiddleware(parser TokenParser) *AuthMiddleware {
	return &AuthMiddleware{parser: parser}
}

// Handle 返回 Gin 中间件，验证通过后在上下文中写入 userID/isAdmin。
func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "missing authorization header", nil)
			c.Abort()
			return
		}

		claims, err := m.parser.ParseAccessToken(strings.TrimSpace(authHeader[7:]))
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, response.ErrUnauthorized, "invalid token", nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.StaffID)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}
