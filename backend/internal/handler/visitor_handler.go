package handler

import (
	"errors"
	"net/http"

	response "rental-desk/backend/internal/infra/common"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/service/visitor"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// VisitorHandler 提供住客维护接口。
type VisitorHandler struct {
	service *visitor.Service
	logger  *zap.SugaredLogger
}

// NewVisitorHandler 构造 handler。
func NewVisitorHandler(service *visitor.Service, logger *zap.SugaredLogger) *VisitorHandler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &VisitorHandler{service: service, logger: logger.With("component", "visitor.handler")}
}

type visitorRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

// List 返回全部住客。
func (h *VisitorHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("list visitors failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "list visitors failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// Create 新增住客。
func (h *VisitorHandler) Create(c *gin.Context) {
	var req visitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Create(c.Request.Context(), req.FullName)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, item, nil)
}

// Update 修改住客姓名。
func (h *VisitorHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	var req visitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, req.FullName)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Delete 删除住客。
func (h *VisitorHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *VisitorHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, visitor.ErrVisitorNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound, err.Error(), nil)
	case errors.Is(err, visitor.ErrNameRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
	default:
		h.logger.Errorw("save visitor failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "save visitor failed", nil)
	}
}
