package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-desk/backend/internal/domain/rental"

	"gorm.io/gorm"
)

// ApartmentRepository 负责房间、房型与房间状态的数据访问。
type ApartmentRepository struct {
	db *gorm.DB
}

// NewApartmentRepository 创建房间仓储。
func NewApartmentRepository(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// CountApartments 返回可出租房间总数，是 RevPAR 的分母来源。
func (r *ApartmentRepository) CountApartments(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&rental.Apartment{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count apartments: %w", err)
	}
	return total, nil
}

// List 返回全部房间，预加载房型与状态。
func (r *ApartmentRepository) List(ctx context.Context) ([]rental.Apartment, error) {
	var apartments []rental.Apartment
	if err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Condition").
		Order("id ASC").
		Find(&apartments).Error; err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return apartments, nil
}

// ListByCondition 返回处于指定状态的房间。
func (r *ApartmentRepository) ListByCondition(ctx context.Context, conditionName string) ([]rental.Apartment, error) {
	var apartments []rental.Apartment
	if err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Condition").
		Joins("JOIN conditions ON conditions.id = apartments.condition_id").
		Where("conditions.name = ?", conditionName).
		Order("apartments.id ASC").
		Find(&apartments).Error; err != nil {
		return nil, fmt.Errorf("list apartments by condition: %w", err)
	}
	return apartments, nil
}

// FindByID 根据主键查找房间，预加载房型与状态。
func (r *ApartmentRepository) FindByID(ctx context.Context, id uint) (*rental.Apartment, error) {
	var apartment rental.Apartment
	if err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Condition").
		First(&apartment, id).Error; err != nil {
		return nil, err
	}
	return &apartment, nil
}

// Create 分配空闲 ID 后写入房间。
func (r *ApartmentRepository) Create(ctx context.Context, apartment *rental.Apartment) error {
	if apartment == nil {
		return errors.New("apartment entity is nil")
	}
	if err := createWithNextID(ctx, r.db, apartment, func(id uint) { apartment.ID = id }); err != nil {
		return fmt.Errorf("create apartment: %w", err)
	}
	return nil
}

// Update 更新房型与状态外键。
func (r *ApartmentRepository) Update(ctx context.Context, apartment *rental.Apartment) error {
	if apartment == nil {
		return errors.New("apartment entity is nil")
	}
	result := r.db.WithContext(ctx).
		Model(&rental.Apartment{}).
		Where("id = ?", apartment.ID).
		Updates(map[string]any{
			"type_id":      apartment.TypeID,
			"condition_id": apartment.ConditionID,
		})
	if result.Error != nil {
		return fmt.Errorf("update apartment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除房间，不存在时返回 gorm.ErrRecordNotFound。
func (r *ApartmentRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &rental.Apartment{}, id)
}

// SetCondition 按状态名称修改房间状态，状态不存在时返回 gorm.ErrRecordNotFound。
func (r *ApartmentRepository) SetCondition(ctx context.Context, apartmentID uint, conditionName string) error {
	condition, err := r.FindConditionByName(ctx, conditionName)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&rental.Apartment{}).
		Where("id = ?", apartmentID).
		Update("condition_id", condition.ID)
	if result.Error != nil {
		return fmt.Errorf("set apartment condition: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTypes 返回全部房型。
func (r *ApartmentRepository) ListTypes(ctx context.Context) ([]rental.ApartmentType, error) {
	var types []rental.ApartmentType
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("list apartment types: %w", err)
	}
	return types, nil
}

// FindTypeByID 根据主键查找房型。
func (r *ApartmentRepository) FindTypeByID(ctx context.Context, id uint) (*rental.ApartmentType, error) {
	var apartmentType rental.ApartmentType
	if err := r.db.WithContext(ctx).First(&apartmentType, id).Error; err != nil {
		return nil, err
	}
	return &apartmentType, nil
}

// ListConditions 返回全部房间状态。
func (r *ApartmentRepository) ListConditions(ctx context.Context) ([]rental.Condition, error) {
	var conditions []rental.Condition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&conditions).Error; err != nil {
		return nil, fmt.Errorf("list conditions: %w", err)
	}
	return conditions, nil
}

// FindConditionByID 根据主键查找房间状态。
func (r *ApartmentRepository) FindConditionByID(ctx context.Context, id uint) (*rental.Condition, error) {
	var condition rental.Condition
	if err := r.db.WithContext(ctx).First(&condition, id).Error; err != nil {
		return nil, err
	}
	return &condition, nil
}

// FindConditionByName 根据名称查找房间状态。
func (r *ApartmentRepository) FindConditionByName(ctx context.Context, name string) (*rental.Condition, error) {
	var condition rental.Condition
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&condition).Error; err != nil {
		return nil, err
	}
	return &condition, nil
}
