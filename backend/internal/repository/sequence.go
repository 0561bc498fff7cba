package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// NextAvailableID 返回表中第一个未被占用的主键，优先复用删除后留下的空洞。
// 调用方应在同一事务内紧接着写入，避免并发分配到相同 ID。
func NextAvailableID(ctx context.Context, tx *gorm.DB, model any) (uint, error) {
	var ids []uint
	if err := tx.WithContext(ctx).Model(model).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("list existing ids: %w", err)
	}

	expected := uint(1)
	for _, id := range ids {
		if id > expected {
			return expected, nil
		}
		if id == expected {
			expected++
		}
	}
	return expected, nil
}

// createWithNextID 在事务内分配 ID 后写入实体，assign 负责把 ID 写回实体。
func createWithNextID(ctx context.Context, db *gorm.DB, entity any, assign func(uint)) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := NextAvailableID(ctx, tx, entity)
		if err != nil {
			return err
		}
		assign(id)
		return tx.Create(entity).Error
	})
}

// deleteByID 按主键删除记录，未命中时返回 gorm.ErrRecordNotFound。
func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint) error {
	result := db.WithContext(ctx).Delete(model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
