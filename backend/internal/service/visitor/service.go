package visitor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/repository"

	"gorm.io/gorm"
)

var (
	// ErrVisitorNotFound 表示指定住客不存在。
	ErrVisitorNotFound = errors.New("visitor not found")
	// ErrNameRequired 表示住客姓名为空。
	ErrNameRequired = errors.New("visitor full name is required")
)

// Service 封装住客的维护逻辑。
type Service struct {
	visitors *repository.VisitorRepository
}

// NewService 构造住客服务。
func NewService(visitors *repository.VisitorRepository) *Service {
	return &Service{visitors: visitors}
}

// List 返回全部住客。
func (s *Service) List(ctx context.Context) ([]rental.Visitor, error) {
	items, err := s.visitors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return items, nil
}

// Create 新增住客，姓名去除首尾空白后不能为空。
func (s *Service) Create(ctx context.Context, fullName string) (*rental.Visitor, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	entity := &rental.Visitor{FullName: name}
	if err := s.visitors.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("create visitor: %w", err)
	}
	return entity, nil
}

// Update 修改住客姓名。
func (s *Service) Update(ctx context.Context, id uint, fullName string) (*rental.Visitor, error) {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return nil, ErrNameRequired
	}
	if err := s.visitors.UpdateName(ctx, id, name); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitorNotFound
		}
		return nil, fmt.Errorf("update visitor: %w", err)
	}
	return &rental.Visitor{ID: id, FullName: name}, nil
}

// Delete 删除住客。
func (s *Service) Delete(ctx context.Context, id uint) error {
	if err := s.visitors.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVisitorNotFound
		}
		return fmt.Errorf("delete visitor: %w", err)
	}
	return nil
}
