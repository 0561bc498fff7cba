package revenue

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Rounding 指定比率字段保留两位小数时使用的舍入方式，一个计算器只使用一种。
type Rounding string

const (
	// RoundHalfEven 银行家舍入：0.125 -> 0.12，0.135 -> 0.14。
	RoundHalfEven Rounding = "half_even"
	// RoundHalfAwayFromZero 远离零舍入：0.125 -> 0.13。
	RoundHalfAwayFromZero Rounding = "half_away_from_zero"
)

const (
	ratePlaces = 2
	dayLayout  = "2006-01-02"
)

var (
	// ErrMissingRange 表示起止日期缺失。
	ErrMissingRange = errors.New("report start and end dates are required")
	// ErrInvalidRange 表示起始日期晚于结束日期。
	ErrInvalidRange = errors.New("report start date must not be after end date")
	// ErrInvalidInventory 表示房间总数为负。
	ErrInvalidInventory = errors.New("total rooms must not be negative")
	// ErrUnknownRounding 表示配置了不支持的舍入方式。
	ErrUnknownRounding = errors.New("unknown rounding policy")

	hundred = decimal.NewFromInt(100)
)

// RentalRecord 是账本中的一笔付款，只关心日期、金额与房间。
type RentalRecord struct {
	Date   time.Time
	Amount decimal.Decimal
	RoomID uint
}

// DailyMetric 描述区间内某一天的营收与入住指标。
type DailyMetric struct {
	Date          time.Time       `json:"date"`
	DailyRevenue  decimal.Decimal `json:"daily_revenue"`
	OccupiedCount int             `json:"occupied_count"`
	TotalRooms    int             `json:"total_rooms"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
	ADR           decimal.Decimal `json:"adr"`
	RevPAR        decimal.Decimal `json:"revpar"`
}

// SummaryMetric 汇总整个区间，比率均由总量直接计算而非逐日平均。
type SummaryMetric struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalOccupied int             `json:"total_occupied"`
	TotalDays     int             `json:"total_days"`
	RoomDays      int             `json:"room_days"`
	OccupancyRate decimal.Decimal `json:"occupancy_rate"`
	ADR           decimal.Decimal `json:"adr"`
	RevPAR        decimal.Decimal `json:"revpar"`
}

// Series 是一次报表计算的完整结果：逐日序列加汇总。
type Series struct {
	Start      time.Time     `json:"start"`
	End        time.Time     `json:"end"`
	TotalRooms int           `json:"total_rooms"`
	Days       []DailyMetric `json:"days"`
	Summary    SummaryMetric `json:"summary"`
}

// CalculatorConfig 配置舍入方式与判定自然日所用的时区。
// Location 为空时使用起始日期自带的时区。
type CalculatorConfig struct {
	Rounding Rounding
	Location *time.Location
}

// Calculator 是无状态的纯计算组件，可被并发调用。
type Calculator struct {
	rounding Rounding
	loc      *time.Location
}

// NewCalculator 创建计算器，未指定舍入方式时使用银行家舍入。
func NewCalculator(cfg CalculatorConfig) (*Calculator, error) {
	rounding := cfg.Rounding
	if rounding == "" {
		rounding = RoundHalfEven
	}
	if rounding != RoundHalfEven && rounding != RoundHalfAwayFromZero {
		return nil, ErrUnknownRounding
	}
	return &Calculator{rounding: rounding, loc: cfg.Location}, nil
}

// ComputeDailySeries 使用默认配置计算逐日序列与汇总。
func ComputeDailySeries(start, end time.Time, records []RentalRecord, totalRooms int) (Series, error) {
	calc := &Calculator{rounding: RoundHalfEven}
	return calc.ComputeDailySeries(start, end, records, totalRooms)
}

// Validate 校验日期区间，返回起止日在时区内的第一个时刻。
func (c *Calculator) Validate(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, ErrMissingRange
	}
	loc := c.location(start)
	startDate := calendarDate(start, loc)
	endDate := calendarDate(end, loc)
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return dayStart(startDate, loc), dayStart(endDate, loc), nil
}

// nextDayStart 返回 day 所在自然日的下一天的第一个时刻，作为账本查询的开区间上界。
func (c *Calculator) nextDayStart(day time.Time) time.Time {
	loc := c.location(day)
	return dayStart(calendarDate(day, loc).AddDate(0, 0, 1), loc)
}

// ComputeDailySeries 按自然日遍历 [start, end]，对每天的付款求和并计算 ADR、入住率与 RevPAR。
// records 会被重新按自然日过滤，预先过滤过的输入同样安全。
func (c *Calculator) ComputeDailySeries(start, end time.Time, records []RentalRecord, totalRooms int) (Series, error) {
	if _, _, err := c.Validate(start, end); err != nil {
		return Series{}, err
	}
	if totalRooms < 0 {
		return Series{}, ErrInvalidInventory
	}
	loc := c.location(start)
	startDate := calendarDate(start, loc)
	endDate := calendarDate(end, loc)

	type bucket struct {
		revenue decimal.Decimal
		count   int
	}
	buckets := make(map[string]*bucket)
	for _, record := range records {
		date := calendarDate(record.Date, loc)
		if date.Before(startDate) || date.After(endDate) {
			continue
		}
		key := date.Format(dayLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{revenue: decimal.Zero}
			buckets[key] = b
		}
		b.revenue = b.revenue.Add(record.Amount)
		b.count++
	}

	totalDays := daysBetween(startDate, endDate) + 1
	rooms := decimal.NewFromInt(int64(totalRooms))

	days := make([]DailyMetric, 0, totalDays)
	totalRevenue := decimal.Zero
	totalOccupied := 0

	for i := 0; i < totalDays; i++ {
		date := startDate.AddDate(0, 0, i)
		revenue := decimal.Zero
		occupied := 0
		if b, ok := buckets[date.Format(dayLayout)]; ok {
			revenue = b.revenue
			occupied = b.count
		}

		metric := DailyMetric{
			Date:          dayStart(date, loc),
			DailyRevenue:  revenue,
			OccupiedCount: occupied,
			TotalRooms:    totalRooms,
			OccupancyRate: decimal.Zero,
			ADR:           decimal.Zero,
			RevPAR:        decimal.Zero,
		}
		if occupied > 0 {
			metric.ADR = c.round(revenue.Div(decimal.NewFromInt(int64(occupied))))
		}
		if totalRooms > 0 {
			metric.OccupancyRate = c.round(decimal.NewFromInt(int64(occupied)).Mul(hundred).Div(rooms))
			metric.RevPAR = c.round(revenue.Div(rooms))
		}
		days = append(days, metric)

		totalRevenue = totalRevenue.Add(revenue)
		totalOccupied += occupied
	}

	summary := SummaryMetric{
		TotalRevenue:  totalRevenue,
		TotalOccupied: totalOccupied,
		TotalDays:     totalDays,
		RoomDays:      totalRooms * totalDays,
		OccupancyRate: decimal.Zero,
		ADR:           decimal.Zero,
		RevPAR:        decimal.Zero,
	}
	if totalOccupied > 0 {
		summary.ADR = c.round(totalRevenue.Div(decimal.NewFromInt(int64(totalOccupied))))
	}
	if totalDays > 0 && totalRooms > 0 {
		roomDays := decimal.NewFromInt(int64(summary.RoomDays))
		summary.OccupancyRate = c.round(decimal.NewFromInt(int64(totalOccupied)).Mul(hundred).Div(roomDays))
		summary.RevPAR = c.round(totalRevenue.Div(roomDays))
	}

	return Series{
		Start:      dayStart(startDate, loc),
		End:        dayStart(endDate, loc),
		TotalRooms: totalRooms,
		Days:       days,
		Summary:    summary,
	}, nil
}

func (c *Calculator) round(value decimal.Decimal) decimal.Decimal {
	if c.rounding == RoundHalfAwayFromZero {
		return value.Round(ratePlaces)
	}
	return value.RoundBank(ratePlaces)
}

func (c *Calculator) location(reference time.Time) *time.Location {
	if c != nil && c.loc != nil {
		return c.loc
	}
	if loc := reference.Location(); loc != nil {
		return loc
	}
	return time.UTC
}

// calendarDate 取 t 在 loc 中的年月日，以 UTC 零点表示。
// 日历日与时区的夏令时切换无关，分桶、遍历与计数都基于它。
func calendarDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayStart 返回日历日 date 在 loc 中的第一个时刻。
// 夏令时在零点开始时当地零点不存在，此时返回切换后的第一个时刻。
func dayStart(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if sameDate(midnight.In(loc), y, m, d) {
		return midnight
	}
	lo, hi := midnight, time.Date(y, m, d, 12, 0, 0, 0, loc)
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if sameDate(mid.In(loc), y, m, d) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi.Truncate(time.Second).In(loc)
}

func sameDate(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}

// daysBetween 计算两个日历日相差的天数。
func daysBetween(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours() / 24)
}
