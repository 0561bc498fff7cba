package middleware

import (
	"net/http"

	response "rental-desk/backend/internal/infra/common"

	"github.com/gin-gonic/gin"
)

// 上下文中保存当前员工身份的键。
const (
	ContextUserID  = "userID"
	ContextIsAdmin = "isAdmin"
)

// Authenticator 抽象鉴权中间件，实现 Handle() 的结构体即可插入路由。
type Authenticator interface {
	Handle() gin.HandlerFunc
}

// RequireAdmin 拦截非管理员的写操作，需挂在 Authenticator 之后。
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if admin, _ := c.Get(ContextIsAdmin); admin != true {
			response.Fail(c, http.StatusForbidden, response.ErrForbidden, "administrator privilege required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
