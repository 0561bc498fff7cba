package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rental-desk/backend/internal/domain/rental"

	"gorm.io/gorm"
)

// PaymentRepository 负责租赁付款（营收账本）的读写。
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建付款仓储，复用共享的 *gorm.DB。
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// ListPaymentsBetween 读取 [from, to) 区间内的付款，按时间升序返回，作为报表计算的一次性快照。
// 边界统一转换为 UTC，与写入时保持一致，SQLite 按文本比较时间也不会错位。
func (r *PaymentRepository) ListPaymentsBetween(ctx context.Context, from, to time.Time) ([]rental.Payment, error) {
	var payments []rental.Payment
	query := r.db.WithContext(ctx).Model(&rental.Payment{})
	if !from.IsZero() {
		query = query.Where("paid_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		query = query.Where("paid_at < ?", to.UTC())
	}
	if err := query.Order("paid_at ASC").Order("id ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments between: %w", err)
	}
	return payments, nil
}

// List 返回全部付款，并联表带出住客与员工姓名。
func (r *PaymentRepository) List(ctx context.Context) ([]rental.PaymentView, error) {
	var views []rental.PaymentView
	err := r.db.WithContext(ctx).
		Table("rent_payments AS p").
		Select("p.*, v.full_name AS visitor_name, s.full_name AS staff_name").
		Joins("JOIN visitors AS v ON v.id = p.visitor_id").
		Joins("JOIN staff AS s ON s.id = p.staff_id").
		Order("p.id ASC").
		Scan(&views).Error
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return views, nil
}

// FindByID 根据主键查找付款。
func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (*rental.Payment, error) {
	var payment rental.Payment
	if err := r.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create 分配空闲 ID 后写入付款记录。
func (r *PaymentRepository) Create(ctx context.Context, payment *rental.Payment) error {
	if payment == nil {
		return errors.New("payment entity is nil")
	}
	if err := createWithNextID(ctx, r.db, payment, func(id uint) { payment.ID = id }); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update 保存付款的全部字段。
func (r *PaymentRepository) Update(ctx context.Context, payment *rental.Payment) error {
	if payment == nil {
		return errors.New("payment entity is nil")
	}
	if err := r.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete 删除付款，不存在时返回 gorm.ErrRecordNotFound。
func (r *PaymentRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &rental.Payment{}, id)
}
