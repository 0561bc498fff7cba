package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-desk/backend/internal/domain/rental"

	"gorm.io/gorm"
)

// VisitorRepository 封装住客的增删改查。
type VisitorRepository struct {
	db *gorm.DB
}

// NewVisitorRepository 创建住客仓储。
func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

// List 按 ID 升序返回全部住客。
func (r *VisitorRepository) List(ctx context.Context) ([]rental.Visitor, error) {
	var visitors []rental.Visitor
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&visitors).Error; err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return visitors, nil
}

// FindByID 根据主键查找住客。
func (r *VisitorRepository) FindByID(ctx context.Context, id uint) (*rental.Visitor, error) {
	var visitor rental.Visitor
	if err := r.db.WithContext(ctx).First(&visitor, id).Error; err != nil {
		return nil, err
	}
	return &visitor, nil
}

// Create 分配空闲 ID 后写入住客。
func (r *VisitorRepository) Create(ctx context.Context, visitor *rental.Visitor) error {
	if visitor == nil {
		return errors.New("visitor entity is nil")
	}
	if err := createWithNextID(ctx, r.db, visitor, func(id uint) { visitor.ID = id }); err != nil {
		return fmt.Errorf("create visitor: %w", err)
	}
	return nil
}

// UpdateName 修改住客姓名。
func (r *VisitorRepository) UpdateName(ctx context.Context, id uint, fullName string) error {
	result := r.db.WithContext(ctx).
		Model(&rental.Visitor{}).
		Where("id = ?", id).
		Update("full_name", fullName)
	if result.Error != nil {
		return fmt.Errorf("update visitor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除住客，不存在时返回 gorm.ErrRecordNotFound。
func (r *VisitorRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &rental.Visitor{}, id)
}
