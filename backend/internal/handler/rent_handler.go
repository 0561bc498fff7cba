package handler

import (
	"errors"
	"net/http"

	response "rental-desk/backend/internal/infra/common"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/service/rent"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RentHandler 提供租赁账本的 HTTP 入口。
type RentHandler struct {
	service *rent.Service
	logger  *zap.SugaredLogger
}

// NewRentHandler 构造 handler。
func NewRentHandler(service *rent.Service, logger *zap.SugaredLogger) *RentHandler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &RentHandler{service: service, logger: logger.With("component", "rent.handler")}
}

type rentRequest struct {
	ApartmentID  uint `json:"apartment_id" binding:"required"`
	VisitorID    uint `json:"visitor_id" binding:"required"`
	StaffID      uint `json:"staff_id"`
	QuantityDays int  `json:"quantity_days" binding:"required"`
}

// params 未指定经办员工时使用当前登录员工。
func (r rentRequest) params(c *gin.Context) rent.Params {
	staffID := r.StaffID
	if staffID == 0 {
		staffID, _ = extractUserID(c)
	}
	return rent.Params{
		ApartmentID:  r.ApartmentID,
		VisitorID:    r.VisitorID,
		StaffID:      staffID,
		QuantityDays: r.QuantityDays,
	}
}

// List 返回全部租赁。
func (h *RentHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("list rents failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "list rents failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, nil)
}

// Options 返回录入租赁所需的下拉选项。
func (h *RentHandler) Options(c *gin.Context) {
	opts, err := h.service.Options(c.Request.Context())
	if err != nil {
		h.logger.Errorw("load rent options failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "load rent options failed", nil)
		return
	}
	response.Success(c, http.StatusOK, opts, nil)
}

// Create 登记新租赁。
func (h *RentHandler) Create(c *gin.Context) {
	var req rentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	payment, err := h.service.Create(c.Request.Context(), req.params(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, payment, nil)
}

// Update 修改租赁。
func (h *RentHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	var req rentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		return
	}
	payment, err := h.service.Update(c.Request.Context(), id, req.params(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, payment, nil)
}

// Delete 删除租赁。
func (h *RentHandler) Delete(c *gin.Context) {
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

func (h *RentHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, rent.ErrInvalidDays):
		response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
	case errors.Is(err, rent.ErrStaffNotAdministrator):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrStaffNotAdmin, err.Error(), nil)
	case errors.Is(err, rent.ErrApartmentUnavailable):
		response.Fail(c, http.StatusConflict, response.ErrApartmentUnavailable, err.Error(), nil)
	case errors.Is(err, rent.ErrRentNotFound),
		errors.Is(err, rent.ErrApartmentNotFound),
		errors.Is(err, rent.ErrVisitorNotFound),
		errors.Is(err, rent.ErrStaffNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound, err.Error(), nil)
	default:
		h.logger.Errorw("save rent failed", "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "save rent failed", nil)
	}
}
