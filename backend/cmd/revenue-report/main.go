package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"rental-desk/backend/internal/app"
	"rental-desk/backend/internal/infra/export"
	"rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"
	"rental-desk/backend/internal/repository"
	"rental-desk/backend/internal/service/revenue"
)

var (
	viewFlag   = flag.String("view", "adr", "报表类型：adr 或 revpar")
	startFlag  = flag.String("start", "", "起始日期 YYYY-MM-DD，默认为最近区间的起点")
	endFlag    = flag.String("end", "", "结束日期 YYYY-MM-DD，默认为今天")
	outputFlag = flag.String("output", "", "CSV 输出路径，为空时写到标准输出")
)

// main 在命令行计算 ADR / RevPAR 报表并输出 CSV。
func main() {
	flag.Parse()

	zapLogger, err := logger.Init()
	if err != nil {
		panic(fmt.Sprintf("init logger failed: %v", err))
	}
	defer logger.Sync()
	sugar := zapLogger.Sugar()

	view, err := revenue.ParseView(*viewFlag)
	if err != nil {
		sugar.Fatalw("invalid view", "view", *viewFlag, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resources, err := app.InitResources(ctx)
	if err != nil {
		sugar.Fatalw("initialise resources failed", "error", err)
	}
	defer func() {
		if closeErr := resources.Close(); closeErr != nil {
			sugar.Warnw("close resources failed", "error", closeErr)
		}
	}()

	reportCfg := resources.Config.Report
	service, err := revenue.NewService(revenue.Config{
		Rounding:    revenue.Rounding(reportCfg.Rounding),
		Location:    reportCfg.Location,
		DefaultDays: reportCfg.DefaultDays,
	}, sugar, repository.NewPaymentRepository(resources.DB), repository.NewApartmentRepository(resources.DB))
	if err != nil {
		sugar.Fatalw("build revenue service failed", "error", err)
	}

	start, end := service.DefaultRange()
	if raw := strings.TrimSpace(*startFlag); raw != "" {
		if start, err = service.ParseDay(raw); err != nil {
			sugar.Fatalw("invalid start", "error", err)
		}
	}
	if raw := strings.TrimSpace(*endFlag); raw != "" {
		if end, err = service.ParseDay(raw); err != nil {
			sugar.Fatalw("invalid end", "error", err)
		}
	}

	series, err := service.Compute(ctx, view, start, end)
	if err != nil {
		sugar.Fatalw("compute report failed", "error", err)
	}

	if err := writeOutput(*outputFlag, view, series); err != nil {
		metrics.RecordReportExport("cli", "error")
		sugar.Fatalw("write report failed", "error", err)
	}
	metrics.RecordReportExport("cli", "success")
}

func writeOutput(path string, view revenue.View, series revenue.Series) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return export.Write(os.Stdout, view, series)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		_, err := export.WriteFile(path, view, series, time.Now())
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := export.Write(file, view, series); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
