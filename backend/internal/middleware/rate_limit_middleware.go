package middleware

import (
	"net/http"
	"strconv"
	"strings"

	response "rental-desk/backend/internal/infra/common"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware 按客户端 IP 对报表接口做固定窗口限流。
type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	scope   string
	logger  *zap.SugaredLogger
}

// NewRateLimitMiddleware 构建限流中间件，scope 用于区分不同路由组的计数。
func NewRateLimitMiddleware(limiter ratelimit.Limiter, scope string, logger *zap.SugaredLogger) *RateLimitMiddleware {
	if logger == nil {
		logger = appLogger.S()
	}
	if scope == "" {
		scope = "default"
	}
	return &RateLimitMiddleware{
		limiter: limiter,
		scope:   scope,
		logger:  logger.With("component", "middleware.ratelimit"),
	}
}

// Handle 返回 Gin 中间件；限流器出错时放行并记录告警。
func (m *RateLimitMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.limiter == nil {
			c.Next()
			return
		}
		ip := strings.TrimSpace(c.ClientIP())
		if ip == "" {
			c.Next()
			return
		}

		decision, err := m.limiter.Allow(c.Request.Context(), m.scope+":"+ip)
		if err != nil {
			m.logger.Warnw("rate limit check failed", "ip", ip, "scope", m.scope, "error", err)
			c.Next()
			return
		}
		if decision.Remaining >= 0 {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			if seconds := int(decision.RetryAfter.Seconds()); seconds > 0 {
				c.Header("Retry-After", strconv.Itoa(seconds))
			}
			m.logger.Infow("request rate limited", "ip", ip, "scope", m.scope)
			response.Fail(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "request rate limited", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
