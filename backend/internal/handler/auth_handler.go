/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-22 20:40:58
 * @FilePath: \rental-desk\backend\internal\handler\auth_handler.go
 * @LastEditTime: 2026-09-22 20:41:04
 */
package handler

import (
	"errors"
	"net/http"

	response "rental-desk/backend/internal/infra/common"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 负责员工登录接口。
type AuthHandler struct {
	service *auth.Service
	logger  *zap.SugaredLogger
}

// NewAuthHandler 创建 AuthHandler。
func NewAuthHandler(service *auth.Service, logger *zap.SugaredLogger) *AuthHandler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &AuthHandler{service: service, logger: logger.With("component", "auth.handler")}
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 校验凭证并返回访问令牌。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}

	staff, tokens, err := h.service.Login(c.Request.Context(), auth.LoginParams{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidLogin):
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials, err.Error(), nil)
		case errors.Is(err, auth.ErrLoginRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		default:
			h.logger.Errorw("login failed", "error", err)
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "login failed", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"staff":  staff,
		"tokens": tokens,
	}, nil)
}
