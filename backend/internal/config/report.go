package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// RoundingHalfEven 银行家舍入，默认值。
	RoundingHalfEven = "half_even"
	// RoundingHalfAwayFromZero 四舍五入（远离零）。
	RoundingHalfAwayFromZero = "half_away_from_zero"

	defaultReportDays       = 30
	defaultReportRateLimit  = 60
	defaultReportRateWindow = time.Minute
	defaultReportExportDir  = "exports"
)

// ReportConfig 汇总 ADR/RevPAR 报表的计算与导出参数。
type ReportConfig struct {
	Rounding    string
	Location    *time.Location
	DefaultDays int
	RateLimit   int
	RateWindow  time.Duration
	ExportCron  string
	ExportDir   string
}

// LoadReportConfig 从环境变量解析报表配置，非法的舍入方式或时区会直接报错。
func LoadReportConfig() (ReportConfig, error) {
	LoadEnvFiles()

	rounding := strings.ToLower(envString("REPORT_ROUNDING", RoundingHalfEven))
	switch rounding {
	case RoundingHalfEven, RoundingHalfAwayFromZero:
	default:
		return ReportConfig{}, fmt.Errorf("unsupported REPORT_ROUNDING %q", rounding)
	}

	loc := time.Local
	if name := strings.TrimSpace(os.Getenv("REPORT_TIMEZONE")); name != "" {
		parsed, err := time.LoadLocation(name)
		if err != nil {
			return ReportConfig{}, fmt.Errorf("load REPORT_TIMEZONE: %w", err)
		}
		loc = parsed
	}

	return ReportConfig{
		Rounding:    rounding,
		Location:    loc,
		DefaultDays: envPositiveInt("REPORT_DEFAULT_DAYS", defaultReportDays),
		RateLimit:   envPositiveInt("REPORT_RATE_LIMIT", defaultReportRateLimit),
		RateWindow:  envDuration("REPORT_RATE_WINDOW", defaultReportRateWindow),
		ExportCron:  strings.TrimSpace(os.Getenv("REPORT_EXPORT_CRON")),
		ExportDir:   normalisePath(envString("REPORT_EXPORT_DIR", defaultReportExportDir)),
	}, nil
}
