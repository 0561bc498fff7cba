package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"rental-desk/backend/internal/service/revenue"
)

const (
	// Delimiter 与表格软件的区域设置保持一致，使用分号分隔。
	Delimiter    = ';'
	dateLayout   = "02.01.2006"
	summaryLabel = "Total"
	stampLayout  = "20060102_150405"
)

var (
	adrHeader    = []string{"Date", "Daily revenue", "Rent count", "ADR"}
	revparHeader = []string{"Date", "Daily revenue", "Occupied rooms", "Total rooms", "Occupancy %", "ADR", "RevPAR"}
)

// FileName 返回导出文件名，例如 ADR_20260918_143000.csv。
func FileName(view revenue.View, at time.Time) string {
	prefix := "ADR"
	if view == revenue.ViewRevPAR {
		prefix = "RevPAR"
	}
	return fmt.Sprintf("%s_%s.csv", prefix, at.Format(stampLayout))
}

// Write 将报表按视图写成 CSV：表头、逐日行，最后一行为汇总。
func Write(w io.Writer, view revenue.View, series revenue.Series) error {
	writer := csv.NewWriter(w)
	writer.Comma = Delimiter

	var rows [][]string
	switch view {
	case revenue.ViewADR:
		rows = adrRows(revenue.NewADRReport(series), series)
	case revenue.ViewRevPAR:
		rows = revparRows(revenue.NewRevPARReport(series), series)
	default:
		return revenue.ErrUnknownView
	}

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteFile 在 dir 下创建导出文件并写入，返回文件路径。
func WriteFile(dir string, view revenue.View, series revenue.Series, at time.Time) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(view, at))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Write(file, view, series); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

func adrRows(report revenue.ADRReport, series revenue.Series) [][]string {
	rows := make([][]string, 0, len(report.Days)+2)
	rows = append(rows, adrHeader)
	for i, day := range report.Days {
		rows = append(rows, []string{
			series.Days[i].Date.Format(dateLayout),
			day.DailyRevenue,
			strconv.Itoa(day.RentCount),
			day.ADR,
		})
	}
	rows = append(rows, []string{
		summaryLabel,
		report.Summary.TotalRevenue,
		strconv.Itoa(report.Summary.RentCount),
		report.Summary.ADR,
	})
	return rows
}

func revparRows(report revenue.RevPARReport, series revenue.Series) [][]string {
	rows := make([][]string, 0, len(report.Days)+2)
	rows = append(rows, revparHeader)
	for i, day := range report.Days {
		rows = append(rows, []string{
			series.Days[i].Date.Format(dateLayout),
			day.DailyRevenue,
			strconv.Itoa(day.OccupiedRooms),
			strconv.Itoa(day.TotalRooms),
			day.OccupancyRate + "%",
			day.ADR,
			day.RevPAR,
		})
	}
	rows = append(rows, []string{
		summaryLabel,
		report.Summary.TotalRevenue,
		strconv.Itoa(report.Summary.OccupiedRooms),
		strconv.Itoa(report.Summary.TotalRooms),
		report.Summary.OccupancyRate + "%",
		report.Summary.ADR,
		report.Summary.RevPAR,
	})
	return rows
}
