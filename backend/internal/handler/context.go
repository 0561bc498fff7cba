package handler

import (
	"errors"
	"strconv"

	"rental-desk/backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

var errInvalidID = errors.New("invalid id")

func extractUserID(c *gin.Context) (uint, bool) {
	val, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return 0, false
	}
	switch id := val.(type) {
	case uint:
		return id, true
	case uint64:
		return uint(id), true
	case int:
		if id < 0 {
			return 0, false
		}
		return uint(id), true
	case float64:
		if id < 0 {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
}

// parseUintParam 从路径参数解析非零无符号整数。
func parseUintParam(c *gin.Context, name string) (uint, error) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id64 == 0 {
		return 0, errInvalidID
	}
	return uint(id64), nil
}
