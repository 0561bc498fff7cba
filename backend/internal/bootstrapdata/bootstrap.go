package bootstrapdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rental-desk/backend/internal/domain/rental"
	appLogger "rental-desk/backend/internal/infra/logger"
	"rental-desk/backend/internal/service/auth"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	envDataDir              = "LOCAL_BOOTSTRAP_DATA_DIR"
	defaultBootstrapDataDir = "backend/data/bootstrap"
	inventoryFilename       = "inventory.json"
)

// AdminSeed 描述本地模式的默认前台员工。
type AdminSeed struct {
	ID       uint
	FullName string
	Login    string
	Password string
	IsAdmin  bool
}

// Options 描述预置数据导入所需的可选参数。
type Options struct {
	DataDir string
	Admin   AdminSeed
	Logger  *zap.SugaredLogger
}

// SeedLocalDatabase 写入字典数据与默认员工；房间表为空时再导入样例房型、房间与住客。
func SeedLocalDatabase(ctx context.Context, db *gorm.DB, opts Options) error {
	if db == nil {
		return errors.New("db is nil")
	}
	if opts.DataDir == "" {
		opts.DataDir = ResolveDataDir()
	}
	logger := opts.Logger
	if logger == nil {
		logger = appLogger.S()
	}

	if err := SeedReferenceData(ctx, db); err != nil {
		return err
	}
	if opts.Admin.ID != 0 {
		if err := seedAdmin(ctx, db, opts.Admin, logger); err != nil {
			return err
		}
	}
	return seedInventory(ctx, db, opts.DataDir, logger)
}

// ResolveDataDir 解析预置数据所在目录。
func ResolveDataDir() string {
	raw := strings.TrimSpace(os.Getenv(envDataDir))
	if raw == "" {
		return defaultBootstrapDataDir
	}
	return raw
}

// SeedReferenceData 写入房间状态与员工角色字典，可重复执行。
func SeedReferenceData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conditions := []rental.Condition{
			{ID: 1, Name: rental.ConditionClean},
			{ID: 2, Name: rental.ConditionOccupied},
			{ID: 3, Name: rental.ConditionDirty},
		}
		for _, item := range conditions {
			var entity rental.Condition
			if err := tx.Where(rental.Condition{Name: item.Name}).Attrs(rental.Condition{ID: item.ID}).FirstOrCreate(&entity).Error; err != nil {
				return fmt.Errorf("seed condition %s: %w", item.Name, err)
			}
		}

		roles := []rental.Role{
			{ID: 1, Name: rental.RoleAdministrator},
			{ID: 2, Name: rental.RoleHousekeeper},
		}
		for _, item := range roles {
			var entity rental.Role
			if err := tx.Where(rental.Role{Name: item.Name}).Attrs(rental.Role{ID: item.ID}).FirstOrCreate(&entity).Error; err != nil {
				return fmt.Errorf("seed role %s: %w", item.Name, err)
			}
		}
		return nil
	})
}

// seedAdmin 确保默认员工存在；已存在时只同步姓名与角色，不覆盖密码。
func seedAdmin(ctx context.Context, db *gorm.DB, seed AdminSeed, logger *zap.SugaredLogger) error {
	roleName := rental.RoleHousekeeper
	if seed.IsAdmin {
		roleName = rental.RoleAdministrator
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var role rental.Role
		if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
			return fmt.Errorf("load role %s: %w", roleName, err)
		}

		var existing rental.Staff
		err := tx.First(&existing, seed.ID).Error
		switch {
		case err == nil:
			updates := map[string]any{"role_id": role.ID}
			if name := strings.TrimSpace(seed.FullName); name != "" {
				updates["full_name"] = name
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("update local staff: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return fmt.Errorf("load local staff: %w", err)
		}

		hash, err := auth.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("hash local staff password: %w", err)
		}
		staff := rental.Staff{
			ID:           seed.ID,
			FullName:     strings.TrimSpace(seed.FullName),
			Login:        strings.TrimSpace(seed.Login),
			PasswordHash: hash,
			RoleID:       role.ID,
		}
		if err := tx.Create(&staff).Error; err != nil {
			return fmt.Errorf("create local staff: %w", err)
		}
		logger.Infow("local staff created", "staff_id", staff.ID, "login", staff.Login, "role", roleName)
		return nil
	})
}

type inventorySeed struct {
	ApartmentTypes []struct {
		Name string          `json:"name"`
		Cost decimal.Decimal `json:"cost"`
	} `json:"apartment_types"`
	Apartments []struct {
		Type      string `json:"type"`
		Condition string `json:"condition"`
	} `json:"apartments"`
	Visitors []string `json:"visitors"`
}

// seedInventory 在房间表为空时导入样例数据，文件缺失时跳过。
func seedInventory(ctx context.Context, db *gorm.DB, dataDir string, logger *zap.SugaredLogger) error {
	var count int64
	if err := db.WithContext(ctx).Model(&rental.Apartment{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count apartments: %w", err)
	}
	if count > 0 {
		return nil
	}

	path := filepath.Join(dataDir, inventoryFilename)
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Infow("inventory seed not found, skip", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read inventory seed: %w", err)
	}

	var seed inventorySeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse inventory seed: %w", err)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		typeIDs := make(map[string]uint, len(seed.ApartmentTypes))
		for idx, item := range seed.ApartmentTypes {
			name := strings.TrimSpace(item.Name)
			var entity rental.ApartmentType
			if err := tx.Where(rental.ApartmentType{Name: name}).
				Attrs(rental.ApartmentType{ID: uint(idx + 1), Cost: item.Cost}).
				FirstOrCreate(&entity).Error; err != nil {
				return fmt.Errorf("seed apartment type at index %d: %w", idx, err)
			}
			typeIDs[name] = entity.ID
		}

		var conditions []rental.Condition
		if err := tx.Find(&conditions).Error; err != nil {
			return fmt.Errorf("load conditions: %w", err)
		}
		conditionIDs := make(map[string]uint, len(conditions))
		for _, item := range conditions {
			conditionIDs[item.Name] = item.ID
		}

		for idx, item := range seed.Apartments {
			typeID, ok := typeIDs[item.Type]
			if !ok {
				return fmt.Errorf("seed apartment at index %d: unknown type %q", idx, item.Type)
			}
			conditionName := item.Condition
			if conditionName == "" {
				conditionName = rental.ConditionClean
			}
			conditionID, ok := conditionIDs[conditionName]
			if !ok {
				return fmt.Errorf("seed apartment at index %d: unknown condition %q", idx, conditionName)
			}
			entity := rental.Apartment{ID: uint(idx + 1), TypeID: typeID, ConditionID: conditionID}
			if err := tx.Create(&entity).Error; err != nil {
				return fmt.Errorf("insert apartment at index %d: %w", idx, err)
			}
		}

		var visitorCount int64
		if err := tx.Model(&rental.Visitor{}).Count(&visitorCount).Error; err != nil {
			return fmt.Errorf("count visitors: %w", err)
		}
		if visitorCount == 0 {
			for idx, name := range seed.Visitors {
				entity := rental.Visitor{ID: uint(idx + 1), FullName: strings.TrimSpace(name)}
				if err := tx.Create(&entity).Error; err != nil {
					return fmt.Errorf("insert visitor at index %d: %w", idx, err)
				}
			}
		}

		logger.Infow("inventory seed imported",
			"apartment_types", len(seed.ApartmentTypes),
			"apartments", len(seed.Apartments),
			"visitors", len(seed.Visitors),
		)
		return nil
	})
}
