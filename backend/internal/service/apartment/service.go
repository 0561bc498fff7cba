package apartment

import (
	"context"
	"errors"
	"fmt"

	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrApartmentNotFound 表示指定房间不存在。
	ErrApartmentNotFound = errors.New("apartment not found")
	// ErrTypeNotFound 表示房型不存在。
	ErrTypeNotFound = errors.New("apartment type not found")
	// ErrConditionNotFound 表示房间状态不存在。
	ErrConditionNotFound = errors.New("apartment condition not found")
)

// Service 封装房间的维护逻辑。
type Service struct {
	apartments *repository.ApartmentRepository
}

// NewService 构造房间服务。
func NewService(apartments *repository.ApartmentRepository) *Service {
	return &Service{apartments: apartments}
}

// Lookups 是编辑房间时可选的房型与状态。
type Lookups struct {
	Types      []rental.ApartmentType `json:"types"`
	Conditions []rental.Condition     `json:"conditions"`
}

// Params 描述新增或修改房间时允许填写的字段。
type Params struct {
	TypeID      uint
	ConditionID uint
}

// List 返回全部房间。
func (s *Service) List(ctx context.Context) ([]rental.Apartment, error) {
	items, err := s.apartments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list apartments: %w", err)
	}
	return items, nil
}

// Lookups 返回房型与状态字典。
func (s *Service) Lookups(ctx context.Context) (Lookups, error) {
	types, err := s.apartments.ListTypes(ctx)
	if err != nil {
		return Lookups{}, err
	}
	conditions, err := s.apartments.ListConditions(ctx)
	if err != nil {
		return Lookups{}, err
	}
	return Lookups{Types: types, Conditions: conditions}, nil
}

// Create 新增房间，房型与状态必须存在。
func (s *Service) Create(ctx context.Context, params Params) (*rental.Apartment, error) {
	if err := s.checkRefs(ctx, params); err != nil {
		return nil, err
	}
	entity := &rental.Apartment{TypeID: params.TypeID, ConditionID: params.ConditionID}
	if err := s.apartments.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("create apartment: %w", err)
	}
	return s.reload(ctx, entity.ID)
}

// Update 修改房间的房型与状态。
func (s *Service) Update(ctx context.Context, id uint, params Params) (*rental.Apartment, error) {
	if err := s.checkRefs(ctx, params); err != nil {
		return nil, err
	}
	entity := &rental.Apartment{ID: id, TypeID: params.TypeID, ConditionID: params.ConditionID}
	if err := s.apartments.Update(ctx, entity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("update apartment: %w", err)
	}
	return s.reload(ctx, id)
}

// Delete 删除房间。
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.apartments.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrApartmentNotFound
		}
		return fmt.Errorf("delete apartment: %w", err)
	}
	return nil
}

func (s *Service) checkRefs(ctx context.Context, params Params) error {
	if _, err := s.apartments.FindTypeByID(ctx, params.TypeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTypeNotFound
		}
		return fmt.Errorf("find apartment type: %w", err)
	}
	if _, err := s.apartments.FindConditionByID(ctx, params.ConditionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConditionNotFound
		}
		return fmt.Errorf("find condition: %w", err)
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id uint) (*rental.Apartment, error) {
	entity, err := s.apartments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApartmentNotFound
		}
		return nil, fmt.Errorf("reload apartment: %w", err)
	}
	return entity, nil
}
