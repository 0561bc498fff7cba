package repository

import (
	"context"
	"fmt"

	"rental-desk/backend/internal/domain/rental"

	"gorm.io/gorm"
)

// StaffRepository 提供员工与角色的只读查询。
type StaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓储。
func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByID 根据主键查找员工并预加载角色。
func (r *StaffRepository) FindByID(ctx context.Context, id uint) (*rental.Staff, error) {
	var staff rental.Staff
	if err := r.db.WithContext(ctx).Preload("Role").First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// FindByLogin 通过登录名查找员工。
func (r *StaffRepository) FindByLogin(ctx context.Context, login string) (*rental.Staff, error) {
	var staff rental.Staff
	if err := r.db.WithContext(ctx).Preload("Role").Where("login = ?", login).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

// ListByRole 返回指定角色下的全部员工。
func (r *StaffRepository) ListByRole(ctx context.Context, roleName string) ([]rental.Staff, error) {
	var staff []rental.Staff
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Joins("JOIN roles ON roles.id = staff.role_id").
		Where("roles.name = ?", roleName).
		Order("staff.id ASC").
		Find(&staff).Error; err != nil {
		return nil, fmt.Errorf("list staff by role: %w", err)
	}
	return staff, nil
}

// Create 分配空闲 ID 后写入员工，主要用于初始化数据。
func (r *StaffRepository) Create(ctx context.Context, staff *rental.Staff) error {
	if err := createWithNextID(ctx, r.db, staff, func(id uint) { staff.ID = id }); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}
