package revenue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-desk/backend/internal/domain/rental"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger 提供区间内的付款快照，由付款仓储实现。
type Ledger interface {
	ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]rental.Payment, error)
}

// Inventory 提供可出租房间总数，由房间仓储实现。
type Inventory interface {
	CountApartments(ctx context.Context) (int64, error)
}

// Config 汇总报表服务所需的配置项。
type Config struct {
	Rounding    Rounding
	Location    *time.Location
	DefaultDays int
}

// Service 负责读取账本与房间数量后调用计算器生成报表。
type Service struct {
	calc      *Calculator
	ledger    Ledger
	inventory Inventory
	logger    *zap.SugaredLogger
	loc       *time.Location

	defaultDays int
	now         func() time.Time
}

// NewService 构建报表服务，logger 为空时使用全局日志。
func NewService(cfg Config, logger *zap.SugaredLogger, ledger Ledger, inventory Inventory) (*Service, error) {
	if ledger == nil || inventory == nil {
		return nil, errors.New("revenue service requires ledger and inventory")
	}
	calc, err := NewCalculator(CalculatorConfig{Rounding: cfg.Rounding, Location: cfg.Location})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = appLogger.S()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	days := cfg.DefaultDays
	if days <= 0 {
		days = 30
	}
	return &Service{
		calc:        calc,
		ledger:      ledger,
		inventory:   inventory,
		logger:      logger.With("component", "service.revenue"),
		loc:         loc,
		defaultDays: days,
		now:         time.Now,
	}, nil
}

// SetClock 替换服务使用的时钟，便于测试默认区间。
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Location 返回判定自然日使用的时区。
func (s *Service) Location() *time.Location {
	return s.loc
}

// DefaultRange 返回 [今天-defaultDays, 今天]。
func (s *Service) DefaultRange() (time.Time, time.Time) {
	today := calendarDate(s.now(), s.loc)
	return dayStart(today.AddDate(0, 0, -s.defaultDays), s.loc), dayStart(today, s.loc)
}

// Yesterday 返回昨天零点，定时导出使用。
func (s *Service) Yesterday() time.Time {
	return dayStart(calendarDate(s.now(), s.loc).AddDate(0, 0, -1), s.loc)
}

// Compute 校验区间后读取一次房间数量与账本快照，计算逐日序列。
func (s *Service) Compute(ctx context.Context, view View, start, end time.Time) (Series, error) {
	began := time.Now()
	reportID := uuid.NewString()
	log := s.logger.With("report_id", reportID, "view", string(view))

	startDay, endDay, err := s.calc.Validate(start, end)
	if err != nil {
		metrics.ObserveReport(string(view), "invalid", time.Since(began), 0)
		log.Warnw("reject report range", "start", start, "end", end, "error", err)
		return Series{}, err
	}

	rooms, err := s.inventory.CountApartments(ctx)
	if err != nil {
		metrics.ObserveReport(string(view), "error", time.Since(began), 0)
		log.Errorw("count apartments failed", "error", err)
		return Series{}, fmt.Errorf("count room inventory: %w", err)
	}

	payments, err := s.ledger.ListPaymentsBetween(ctx, startDay, s.calc.nextDayStart(endDay))
	if err != nil {
		metrics.ObserveReport(string(view), "error", time.Since(began), 0)
		log.Errorw("load ledger snapshot failed", "error", err)
		return Series{}, fmt.Errorf("load ledger snapshot: %w", err)
	}

	records := make([]RentalRecord, 0, len(payments))
	for _, payment := range payments {
		records = append(records, RentalRecord{
			Date:   payment.PaidAt,
			Amount: payment.Amount,
			RoomID: payment.ApartmentID,
		})
	}

	series, err := s.calc.ComputeDailySeries(startDay, endDay, records, int(rooms))
	if err != nil {
		metrics.ObserveReport(string(view), "invalid", time.Since(began), 0)
		log.Warnw("compute series failed", "error", err)
		return Series{}, err
	}

	metrics.ObserveReport(string(view), "success", time.Since(began), len(series.Days))
	log.Infow("report computed",
		"start", series.Start.Format(dayLayout),
		"end", series.End.Format(dayLayout),
		"days", len(series.Days),
		"records", len(records),
		"total_rooms", series.TotalRooms,
		"total_revenue", series.Summary.TotalRevenue.StringFixed(ratePlaces),
	)
	return series, nil
}

// ParseDay 按 YYYY-MM-DD 解析日历日，返回该日在服务时区内的第一个时刻。
func (s *Service) ParseDay(raw string) (time.Time, error) {
	date, err := time.Parse(dayLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", raw, err)
	}
	return dayStart(date, s.loc), nil
}
