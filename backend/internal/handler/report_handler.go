package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	response "rental-desk/backend/internal/infra/common"
	"rental-desk/backend/internal/infra/export"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"
	"rental-desk/backend/internal/service/revenue"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler 暴露 ADR / RevPAR 报表及其 CSV 导出。
type ReportHandler struct {
	service *revenue.Service
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// NewReportHandler 构造报表 handler。
func NewReportHandler(service *revenue.Service, logger *zap.SugaredLogger) *ReportHandler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &ReportHandler{service: service, logger: logger.With("component", "report.handler"), now: time.Now}
}

// ADR 返回 ADR 视图。
func (h *ReportHandler) ADR(c *gin.Context) {
	h.render(c, revenue.ViewADR)
}

// RevPAR 返回 RevPAR 视图。
func (h *ReportHandler) RevPAR(c *gin.Context) {
	h.render(c, revenue.ViewRevPAR)
}

// ExportADR 以 CSV 附件导出 ADR 视图。
func (h *ReportHandler) ExportADR(c *gin.Context) {
	h.export(c, revenue.ViewADR)
}

// ExportRevPAR 以 CSV 附件导出 RevPAR 视图。
func (h *ReportHandler) ExportRevPAR(c *gin.Context) {
	h.export(c, revenue.ViewRevPAR)
}

func (h *ReportHandler) render(c *gin.Context, view revenue.View) {
	series, ok := h.compute(c, view)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, revenue.Project(view, series), response.MetaRange{
		Start: series.Start.Format("2006-01-02"),
		End:   series.End.Format("2006-01-02"),
		Days:  len(series.Days),
	})
}

func (h *ReportHandler) export(c *gin.Context, view revenue.View) {
	series, ok := h.compute(c, view)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, view, series); err != nil {
		metrics.RecordReportExport("http", "error")
		h.logger.Errorw("export report failed", "view", view, "error", err)
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "export report failed", nil)
		return
	}
	metrics.RecordReportExport("http", "success")
	response.Attachment(c, export.FileName(view, h.now()), "text/csv; charset=utf-8", buf.Bytes())
}

// compute 解析 start/end 查询参数，缺省时使用最近的默认区间。
func (h *ReportHandler) compute(c *gin.Context, view revenue.View) (revenue.Series, bool) {
	start, end := h.service.DefaultRange()

	if raw := strings.TrimSpace(c.Query("start")); raw != "" {
		parsed, err := h.service.ParseDay(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "start must be YYYY-MM-DD", nil)
			return revenue.Series{}, false
		}
		start = parsed
	}
	if raw := strings.TrimSpace(c.Query("end")); raw != "" {
		parsed, err := h.service.ParseDay(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, "end must be YYYY-MM-DD", nil)
			return revenue.Series{}, false
		}
		end = parsed
	}

	series, err := h.service.Compute(c.Request.Context(), view, start, end)
	if err != nil {
		switch {
		case errors.Is(err, revenue.ErrInvalidRange), errors.Is(err, revenue.ErrMissingRange):
			response.Fail(c, http.StatusBadRequest, response.ErrBadRequest, err.Error(), nil)
		default:
			h.logger.Errorw("compute report failed", "view", view, "error", err)
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal, "compute report failed", nil)
		}
		return revenue.Series{}, false
	}
	return series, true
}
