package scheduler

import (
	"context"
	"errors"
	"time"

	"rental-desk/backend/internal/infra/export"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"
	"rental-desk/backend/internal/service/revenue"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const exportTimeout = 2 * time.Minute

// ErrScheduleDisabled 表示未配置导出计划。
var ErrScheduleDisabled = errors.New("report export schedule disabled")

// ReportScheduler 按 cron 表达式把前一天的 ADR 与 RevPAR 报表导出为 CSV。
type ReportScheduler struct {
	cron     *cron.Cron
	cronSpec string
	dir      string
	service  *revenue.Service
	logger   *zap.SugaredLogger
	now      func() time.Time
}

// NewReportScheduler 创建调度器，cron 使用报表时区解析表达式。
func NewReportScheduler(cronSpec, dir string, service *revenue.Service, logger *zap.SugaredLogger) *ReportScheduler {
	if logger == nil {
		logger = appLogger.S()
	}
	return &ReportScheduler{
		cron:     cron.New(cron.WithLocation(service.Location())),
		cronSpec: cronSpec,
		dir:      dir,
		service:  service,
		logger:   logger.With("component", "scheduler.report"),
		now:      time.Now,
	}
}

// Start 注册导出任务并启动调度；表达式为空时返回 ErrScheduleDisabled。
func (s *ReportScheduler) Start() error {
	if s.cronSpec == "" {
		return ErrScheduleDisabled
	}
	if _, err := s.cron.AddFunc(s.cronSpec, s.runDaily); err != nil {
		s.logger.Errorw("failed to schedule report export", "cron", s.cronSpec, "error", err)
		return err
	}
	s.logger.Infow("starting report scheduler", "cron", s.cronSpec, "dir", s.dir)
	s.cron.Start()
	return nil
}

// Stop 停止调度并等待正在执行的任务结束。
func (s *ReportScheduler) Stop() {
	s.logger.Infow("stopping report scheduler")
	<-s.cron.Stop().Done()
}

func (s *ReportScheduler) runDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	day := s.service.Yesterday()
	if _, err := s.ExportRange(ctx, day, day); err != nil {
		s.logger.Errorw("scheduled export failed", "day", day.Format("2006-01-02"), "error", err)
	}
}

// ExportRange 计算 [start, end] 的两种视图并写入导出目录，返回生成的文件路径。
func (s *ReportScheduler) ExportRange(ctx context.Context, start, end time.Time) ([]string, error) {
	paths := make([]string, 0, 2)
	for _, view := range []revenue.View{revenue.ViewADR, revenue.ViewRevPAR} {
		series, err := s.service.Compute(ctx, view, start, end)
		if err != nil {
			metrics.RecordReportExport("scheduler", "error")
			return paths, err
		}
		path, err := export.WriteFile(s.dir, view, series, s.now())
		if err != nil {
			metrics.RecordReportExport("scheduler", "error")
			return paths, err
		}
		metrics.RecordReportExport("scheduler", "success")
		s.logger.Infow("report exported", "view", view, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
