package middleware

import "github.com/gin-gonic/gin"

// OfflineAuthMiddleware 在本地模式下注入固定员工，绕过 JWT 校验流程。
type OfflineAuthMiddleware struct {
	staffID uint
	isAdmin bool
}

// NewOfflineAuthMiddleware 构造用于本地模式的鉴权中间件。
func NewOfflineAuthMiddleware(staffID uint, isAdmin bool) *OfflineAuthMiddleware {
	return &OfflineAuthMiddleware{
		staffID: staffID,
		isAdmin: isAdmin,
	}
}

// Handle 将固定员工写入上下文，使后续 Handler 可以读取 userID/isAdmin。
func (m *OfflineAuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextUserID, m.staffID)
		c.Set(ContextIsAdmin, m.isAdmin)
		c.Next()
	}
}
