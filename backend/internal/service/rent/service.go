package rent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-desk/backend/internal/domain/rental"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/infra/metrics"
	"rental-desk/backend/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrRentNotFound 表示租赁记录不存在。
	ErrRentNotFound = errors.New("rent not found")
	// ErrInvalidDays 表示租住天数不是正整数。
	ErrInvalidDays = errors.New("quantity of days must be positive")
	// ErrApartmentNotFound 表示房间不存在。
	ErrApartmentNotFound = errors.New("apartment not found")
	// ErrApartmentUnavailable 表示房间当前不是可出租的清洁状态。
	ErrApartmentUnavailable = errors.New("apartment is not clean")
	// ErrVisitorNotFound 表示住客不存在。
	ErrVisitorNotFound = errors.New("visitor not found")
	// ErrStaffNotFound 表示经办员工不存在。
	ErrStaffNotFound = errors.New("staff not found")
	// ErrStaffNotAdministrator 表示经办员工不是管理员。
	ErrStaffNotAdministrator = errors.New("staff must be an administrator")
)

// Params 描述新增或修改租赁时提交的字段，金额由服务端计算。
type Params struct {
	ApartmentID  uint
	VisitorID    uint
	StaffID      uint
	QuantityDays int
}

// ApartmentOption 是可出租房间的下拉选项，附带房型单价。
type ApartmentOption struct {
	ApartmentID uint            `json:"apartment_id"`
	TypeName    string          `json:"type_name"`
	TypeCost    decimal.Decimal `json:"type_cost"`
}

// StaffOption 是经办员工的下拉选项。
type StaffOption struct {
	StaffID  uint   `json:"staff_id"`
	FullName string `json:"full_name"`
}

// Options 汇总录入租赁时可选的房间、住客与员工。
type Options struct {
	Apartments []ApartmentOption `json:"apartments"`
	Visitors   []rental.Visitor  `json:"visitors"`
	Staff      []StaffOption     `json:"staff"`
}

// Service 维护租赁账本，并负责同步房间状态。
//
// 房间状态流转：
//   - 新建租赁：房间 clean -> occupied。
//   - 修改租赁且换房：原房间 -> dirty，新房间 clean -> occupied。
type Service struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewService 构造租赁服务，logger 为空时使用全局日志。
func NewService(db *gorm.DB, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = appLogger.S()
	}
	return &Service{
		db:     db,
		logger: logger.With("component", "service.rent"),
		now:    time.Now,
	}
}

// SetClock 替换付款时间使用的时钟。
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List 返回全部租赁记录，附带住客与员工姓名。
func (s *Service) List(ctx context.Context) ([]rental.PaymentView, error) {
	items, err := repository.NewPaymentRepository(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rents: %w", err)
	}
	return items, nil
}

// Options 返回清洁状态的房间、全部住客以及管理员员工。
func (s *Service) Options(ctx context.Context) (Options, error) {
	apartments, err := repository.NewApartmentRepository(s.db).ListByCondition(ctx, rental.ConditionClean)
	if err != nil {
		return Options{}, err
	}
	visitors, err := repository.NewVisitorRepository(s.db).List(ctx)
	if err != nil {
		return Options{}, err
	}
	admins, err := repository.NewStaffRepository(s.db).ListByRole(ctx, rental.RoleAdministrator)
	if err != nil {
		return Options{}, err
	}

	opts := Options{
		Apartments: make([]ApartmentOption, 0, len(apartments)),
		Visitors:   visitors,
		Staff:      make([]StaffOption, 0, len(admins)),
	}
	for _, item := range apartments {
		opts.Apartments = append(opts.Apartments, ApartmentOption{
			ApartmentID: item.ID,
			TypeName:    item.Type.Name,
			TypeCost:    item.Type.Cost,
		})
	}
	for _, item := range admins {
		opts.Staff = append(opts.Staff, StaffOption{StaffID: item.ID, FullName: item.FullName})
	}
	return opts, nil
}

// Create 登记一笔新租赁：金额 = 天数 × 房型单价，房间随即标记为 occupied。
func (s *Service) Create(ctx context.Context, params Params) (*rental.Payment, error) {
	log := s.logger.With("operation", "create", "apartment_id", params.ApartmentID, "visitor_id", params.VisitorID)

	var created *rental.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apartments := repository.NewApartmentRepository(tx)

		apartment, err := s.checkParams(ctx, tx, params)
		if err != nil {
			return err
		}
		if apartment.Condition.Name != rental.ConditionClean {
			return ErrApartmentUnavailable
		}

		payment := &rental.Payment{
			ApartmentID:  params.ApartmentID,
			VisitorID:    params.VisitorID,
			StaffID:      params.StaffID,
			QuantityDays: params.QuantityDays,
			Amount:       amountFor(apartment.Type, params.QuantityDays),
			PaidAt:       s.now().UTC(),
		}
		if err := repository.NewPaymentRepository(tx).Create(ctx, payment); err != nil {
			return err
		}
		if err := apartments.SetCondition(ctx, apartment.ID, rental.ConditionOccupied); err != nil {
			return fmt.Errorf("mark apartment occupied: %w", err)
		}
		created = payment
		return nil
	})
	if err != nil {
		s.record("create", err)
		log.Warnw("create rent failed", "error", err)
		return nil, err
	}

	s.record("create", nil)
	log.Infow("rent created", "rent_id", created.ID, "amount", created.Amount.StringFixed(2))
	return created, nil
}

// Update 修改租赁并重新计算金额；换房时原房间标记为 dirty，新房间须为 clean 并标记为 occupied。
func (s *Service) Update(ctx context.Context, id uint, params Params) (*rental.Payment, error) {
	log := s.logger.With("operation", "update", "rent_id", id)

	var updated *rental.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payments := repository.NewPaymentRepository(tx)
		apartments := repository.NewApartmentRepository(tx)

		current, err := payments.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRentNotFound
			}
			return fmt.Errorf("find rent: %w", err)
		}

		apartment, err := s.checkParams(ctx, tx, params)
		if err != nil {
			return err
		}
		moved := current.ApartmentID != apartment.ID
		if moved && apartment.Condition.Name != rental.ConditionClean {
			return ErrApartmentUnavailable
		}

		previousApartment := current.ApartmentID
		current.ApartmentID = params.ApartmentID
		current.VisitorID = params.VisitorID
		current.StaffID = params.StaffID
		current.QuantityDays = params.QuantityDays
		current.Amount = amountFor(apartment.Type, params.QuantityDays)
		current.PaidAt = s.now().UTC()
		if err := payments.Update(ctx, current); err != nil {
			return err
		}

		if moved {
			if err := apartments.SetCondition(ctx, previousApartment, rental.ConditionDirty); err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("mark previous apartment dirty: %w", err)
			}
			if err := apartments.SetCondition(ctx, apartment.ID, rental.ConditionOccupied); err != nil {
				return fmt.Errorf("mark apartment occupied: %w", err)
			}
		}
		updated = current
		return nil
	})
	if err != nil {
		s.record("update", err)
		log.Warnw("update rent failed", "error", err)
		return nil, err
	}

	s.record("update", nil)
	log.Infow("rent updated", "apartment_id", updated.ApartmentID, "amount", updated.Amount.StringFixed(2))
	return updated, nil
}

// Delete 删除租赁记录，不改变房间状态。
func (s *Service) Delete(ctx context.Context, id uint) error {
	err := repository.NewPaymentRepository(s.db).Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrRentNotFound
	}
	s.record("delete", err)
	if err != nil {
		if !errors.Is(err, ErrRentNotFound) {
			err = fmt.Errorf("delete rent: %w", err)
		}
		s.logger.Warnw("delete rent failed", "rent_id", id, "error", err)
		return err
	}
	s.logger.Infow("rent deleted", "rent_id", id)
	return nil
}

// checkParams 校验天数、住客、员工角色与房间是否存在，返回预加载了房型与状态的房间。
func (s *Service) checkParams(ctx context.Context, tx *gorm.DB, params Params) (*rental.Apartment, error) {
	if params.QuantityDays <= 0 {
		return nil, ErrInvalidDays
	}

	if _, err := repository.NewVisitorRepository(tx).FindByID(ctx, params.VisitorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, fmt.Errorf("find visitor: %w", err)
	}

	staff, err := repository.NewStaffRepository(tx).FindByID(ctx, params.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("find staff: %w", err)
	}
	if !staff.IsAdministrator() {
		return nil, ErrStaffNotAdministrator
	}

	apartment, err := repository.NewApartmentRepository(tx).FindByID(ctx, params.ApartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("find apartment: %w", err)
	}
	return apartment, nil
}

func (s *Service) record(operation string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidDays), errors.Is(err, ErrApartmentUnavailable), errors.Is(err, ErrStaffNotAdministrator):
		result = "rejected"
	case errors.Is(err, ErrRentNotFound), errors.Is(err, ErrApartmentNotFound), errors.Is(err, ErrVisitorNotFound), errors.Is(err, ErrStaffNotFound):
		result = "not_found"
	default:
		result = "error"
	}
	metrics.RecordRentSave(operation, result)
}

// amountFor 计算租赁金额：天数 × 房型单价。
func amountFor(apartmentType rental.ApartmentType, days int) decimal.Decimal {
	return apartmentType.Cost.Mul(decimal.NewFromInt(int64(days)))
}
