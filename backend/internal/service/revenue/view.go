package revenue

import (
	"errors"
	"strings"
)

// View 区分 ADR 与 RevPAR 两种报表视图，二者共用同一份 Series。
type View string

const (
	ViewADR    View = "adr"
	ViewRevPAR View = "revpar"
)

// ErrUnknownView 表示请求了不支持的报表类型。
var ErrUnknownView = errors.New("unknown report view")

// ParseView 解析报表类型，大小写不敏感。
func ParseView(raw string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(raw))) {
	case ViewADR:
		return ViewADR, nil
	case ViewRevPAR:
		return ViewRevPAR, nil
	default:
		return "", ErrUnknownView
	}
}

// ADRRow 是 ADR 视图的一行。
type ADRRow struct {
	Date         string `json:"date"`
	DailyRevenue string `json:"daily_revenue"`
	RentCount    int    `json:"rent_count"`
	ADR          string `json:"adr"`
}

// ADRSummary 是 ADR 视图的汇总行。
type ADRSummary struct {
	TotalRevenue string `json:"total_revenue"`
	RentCount    int    `json:"rent_count"`
	ADR          string `json:"adr"`
}

// ADRReport 是 ADR 视图的完整输出。
type ADRReport struct {
	View    View       `json:"view"`
	Start   string     `json:"start"`
	End     string     `json:"end"`
	Days    []ADRRow   `json:"days"`
	Summary ADRSummary `json:"summary"`
}

// RevPARRow 是 RevPAR 视图的一行。
type RevPARRow struct {
	Date          string `json:"date"`
	DailyRevenue  string `json:"daily_revenue"`
	OccupiedRooms int    `json:"occupied_rooms"`
	TotalRooms    int    `json:"total_rooms"`
	OccupancyRate string `json:"occupancy_rate"`
	ADR           string `json:"adr"`
	RevPAR        string `json:"revpar"`
}

// RevPARSummary 是 RevPAR 视图的汇总行，TotalRooms 为区间内的可售房晚数。
type RevPARSummary struct {
	TotalRevenue  string `json:"total_revenue"`
	OccupiedRooms int    `json:"occupied_rooms"`
	TotalRooms    int    `json:"total_rooms"`
	TotalDays     int    `json:"total_days"`
	OccupancyRate string `json:"occupancy_rate"`
	ADR           string `json:"adr"`
	RevPAR        string `json:"revpar"`
}

// RevPARReport 是 RevPAR 视图的完整输出。
type RevPARReport struct {
	View    View          `json:"view"`
	Start   string        `json:"start"`
	End     string        `json:"end"`
	Days    []RevPARRow   `json:"days"`
	Summary RevPARSummary `json:"summary"`
}

// NewADRReport 将 Series 投影为 ADR 视图。
func NewADRReport(series Series) ADRReport {
	rows := make([]ADRRow, 0, len(series.Days))
	for _, day := range series.Days {
		rows = append(rows, ADRRow{
			Date:         day.Date.Format(dayLayout),
			DailyRevenue: day.DailyRevenue.StringFixed(ratePlaces),
			RentCount:    day.OccupiedCount,
			ADR:          day.ADR.StringFixed(ratePlaces),
		})
	}
	return ADRReport{
		View:  ViewADR,
		Start: series.Start.Format(dayLayout),
		End:   series.End.Format(dayLayout),
		Days:  rows,
		Summary: ADRSummary{
			TotalRevenue: series.Summary.TotalRevenue.StringFixed(ratePlaces),
			RentCount:    series.Summary.TotalOccupied,
			ADR:          series.Summary.ADR.StringFixed(ratePlaces),
		},
	}
}

// NewRevPARReport 将 Series 投影为 RevPAR 视图。
func NewRevPARReport(series Series) RevPARReport {
	rows := make([]RevPARRow, 0, len(series.Days))
	for _, day := range series.Days {
		rows = append(rows, RevPARRow{
			Date:          day.Date.Format(dayLayout),
			DailyRevenue:  day.DailyRevenue.StringFixed(ratePlaces),
			OccupiedRooms: day.OccupiedCount,
			TotalRooms:    day.TotalRooms,
			OccupancyRate: day.OccupancyRate.StringFixed(ratePlaces),
			ADR:           day.ADR.StringFixed(ratePlaces),
			RevPAR:        day.RevPAR.StringFixed(ratePlaces),
		})
	}
	return RevPARReport{
		View:  ViewRevPAR,
		Start: series.Start.Format(dayLayout),
		End:   series.End.Format(dayLayout),
		Days:  rows,
		Summary: RevPARSummary{
			TotalRevenue:  series.Summary.TotalRevenue.StringFixed(ratePlaces),
			OccupiedRooms: series.Summary.TotalOccupied,
			TotalRooms:    series.Summary.RoomDays,
			TotalDays:     series.Summary.TotalDays,
			OccupancyRate: series.Summary.OccupancyRate.StringFixed(ratePlaces),
			ADR:           series.Summary.ADR.StringFixed(ratePlaces),
			RevPAR:        series.Summary.RevPAR.StringFixed(ratePlaces),
		},
	}
}

// Project 按视图返回对应的报表结构，供 HTTP 层直接序列化。
func Project(view View, series Series) any {
	if view == ViewRevPAR {
		return NewRevPARReport(series)
	}
	return NewADRReport(series)
}
