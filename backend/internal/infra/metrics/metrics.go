package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registerOnce       sync.Once
	reportRuns         *prometheus.CounterVec
	reportDuration     *prometheus.HistogramVec
	reportDaysComputed *prometheus.CounterVec
	rentSaves          *prometheus.CounterVec
	reportExports      *prometheus.CounterVec
)

const (
	namespaceMetrics = "rentaldesk"
)

// MustRegister 初始化 Prometheus 指标并注册 Go 运行时采样器，需在应用启动阶段调用一次。
func MustRegister() {
	registerOnce.Do(func() {
		reportRuns = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "report",
					Name:      "runs_total",
					Help:      "营收报表的计算次数，按报表类型与结果统计。",
				},
				[]string{"view", "status"},
			),
		)
		reportDuration = registerHistogramVec(
			prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: namespaceMetrics,
					Subsystem: "report",
					Name:      "duration_seconds",
					Help:      "营收报表从读取账本到完成聚合的耗时。",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"view"},
			),
		)
		reportDaysComputed = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "report",
					Name:      "days_total",
					Help:      "营收报表累计输出的日维度行数。",
				},
				[]string{"view"},
			),
		)
		reportExports = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "report",
					Name:      "exports_total",
					Help:      "CSV 导出次数，按触发来源与结果统计。",
				},
				[]string{"source", "result"},
			),
		)
		rentSaves = registerCounterVec(
			prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespaceMetrics,
					Subsystem: "rent",
					Name:      "save_requests_total",
					Help:      "租赁记录的新增、修改与删除次数，按操作与结果分类。",
				},
				[]string{"operation", "result"},
			),
		)

		registerRuntimeCollectors()
	})
}

// ObserveReport 记录一次报表计算的结果、耗时与输出天数。
func ObserveReport(view, status string, duration time.Duration, days int) {
	if reportRuns == nil || reportDuration == nil {
		return
	}
	viewLabel := normalizeLabel(view, "unknown")
	reportRuns.WithLabelValues(viewLabel, normalizeLabel(status, "unknown")).Inc()
	reportDuration.WithLabelValues(viewLabel).Observe(duration.Seconds())
	if reportDaysComputed != nil && days > 0 {
		reportDaysComputed.WithLabelValues(viewLabel).Add(float64(days))
	}
}

// RecordReportExport 记录 CSV 导出的来源（http/scheduler/cli）与结果。
func RecordReportExport(source, result string) {
	if reportExports == nil {
		return
	}
	reportExports.WithLabelValues(normalizeLabel(source, "unknown"), normalizeLabel(result, "unknown")).Inc()
}

// RecordRentSave 记录租赁写操作的结果分布。
func RecordRentSave(operation, result string) {
	if rentSaves == nil {
		return
	}
	rentSaves.WithLabelValues(normalizeLabel(operation, "unknown"), normalizeLabel(result, "unknown")).Inc()
}

func normalizeLabel(value string, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func registerCounterVec(vec *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerHistogramVec(vec *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing
			}
		}
		panic(err)
	}
	return vec
}

func registerRuntimeCollectors() {
	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		if !isAlreadyRegistered(err) {
			panic(err)
		}
	}
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		if !isAlreadyRegistered(err) {
			panic(err)
		}
	}
}

func isAlreadyRegistered(err error) bool {
	_, ok := err.(prometheus.AlreadyRegisteredError)
	return ok
}
