package handler

import (
	"errors"
	"net/http"

	response "rental-desk/backend/internal/infra/common"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/service/apartment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ApartmentHandler 提供房间维护接口。
type ApartmentHandler struct {
	service *apartment.Service
	logger  *zap.SugaredLogger
}

// NewApartmentHandler 构造 handler。
func NewApartmentHandler(service *apartment.Service, logger *zap.SugaredLogger) *ApartmentHandler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &ApartmentHandler{service: service, logger: logger.With("component", "apartment.handler")}
}

type apartmentRequest struct {
	TypeID      uint `json:"type_id" binding:"required"`
	ConditionID uint `json:"condition_id" binding:"required"`
}

// List 返回全部房间。
func (h *ApartmentHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("list apartments failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "list apartments failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// Lookups 返回房型与状态字典。
func (h *ApartmentHandler) Lookups(c *gin.Context) {
	lookups, err := h.service.Lookups(c.Request.Context())
	if err != nil {
		h.logger.Errorw("load apartment lookups failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "load lookups failed", nil)
		return
	}
	response.Success(c, http.StatusOK, lookups, nil)
}

// Create 新增房间。
func (h *ApartmentHandler) Create(c *gin.Context) {
	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Create(c.Request.Context(), apartment.Params{TypeID: req.TypeID, ConditionID: req.ConditionID})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, item, nil)
}

// Update 修改房间。
func (h *ApartmentHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	var req apartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	item, err := h.service.Update(c.Request.Context(), id, apartment.Params{TypeID: req.TypeID, ConditionID: req.ConditionID})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, item, nil)
}

// Delete 删除房间。
func (h *ApartmentHandler) Delete(c *gin.Context) {
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

func (h *ApartmentHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apartment.ErrApartmentNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound, err.Error(), nil)
	case errors.Is(err, apartment.ErrTypeNotFound), errors.Is(err, apartment.ErrConditionNotFound):
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
	default:
		h.logger.Errorw("save apartment failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "save apartment failed", nil)
	}
}
