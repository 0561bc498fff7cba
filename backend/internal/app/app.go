/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-21 19:54:47
 * @FilePath: \rental-desk\backend\internal\app\app.go
 * @LastEditTime: 2026-09-23 10:02:51
 */
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rental-desk/backend/internal/bootstrapdata"
	"rental-desk/backend/internal/config"
	"rental-desk/backend/internal/domain/rental"
	infra "rental-desk/backend/internal/infra/client"
	appLogger "rental-desk/backend/internal/infra/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppConfig 汇总启动阶段解析出的配置。
type AppConfig struct {
	config.RuntimeFlags
	Report config.ReportConfig
	MySQL  infra.MySQLConfig
}

// Resources 持有数据库与 Redis 等需要在退出时关闭的资源。
type Resources struct {
	Config AppConfig
	DB     *gorm.DB
	Redis  *redis.Client

	sqlDB *sql.DB
}

// InitResources 按运行模式初始化资源：
//   - local：打开本地 SQLite，自动建表并写入默认员工与样例数据，不连接 Redis。
//   - online：连接 MySQL 并自动建表；配置了 REDIS_ENDPOINT 时连接 Redis。
func InitResources(ctx context.Context) (*Resources, error) {
	config.LoadEnvFiles()
	logger := appLogger.Component("app.resources")

	flags := config.LoadRuntimeFlags()
	reportCfg, err := config.LoadReportConfig()
	if err != nil {
		return nil, fmt.Errorf("load report config: %w", err)
	}

	res := &Resources{Config: AppConfig{RuntimeFlags: flags, Report: reportCfg}}

	if flags.IsLocal() {
		db, err := infra.NewGORMSQLite(flags.Local.DBPath)
		if err != nil {
			return nil, err
		}
		res.DB = db
		if res.sqlDB, err = db.DB(); err != nil {
			return nil, fmt.Errorf("get sql db: %w", err)
		}
		if err := Migrate(ctx, db); err != nil {
			_ = res.Close()
			return nil, err
		}
		if err := bootstrapdata.SeedLocalDatabase(ctx, db, bootstrapdata.Options{
			Admin: bootstrapdata.AdminSeed{
				ID:       flags.Local.StaffID,
				FullName: flags.Local.StaffName,
				Login:    flags.Local.StaffLogin,
				Password: flags.Local.StaffPassword,
				IsAdmin:  flags.Local.IsAdmin,
			},
			Logger: logger,
		}); err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("seed local database: %w", err)
		}
		logger.Infow("local resources ready", "sqlite", flags.Local.DBPath, "staff_id", flags.Local.StaffID)
		return res, nil
	}

	mysqlCfg, err := infra.LoadMySQLConfig()
	if err != nil {
		return nil, fmt.Errorf("load mysql config: %w", err)
	}
	res.Config.MySQL = mysqlCfg

	db, sqlDB, err := infra.NewGORMMySQL(mysqlCfg, reportCfg.Location)
	if err != nil {
		return nil, fmt.Errorf("connect mysql: %w", err)
	}
	res.DB = db
	res.sqlDB = sqlDB
	if err := Migrate(ctx, db); err != nil {
		_ = res.Close()
		return nil, err
	}
	if err := bootstrapdata.SeedReferenceData(ctx, db); err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("seed reference data: %w", err)
	}

	redisOpts, err := infra.LoadRedisOptions()
	switch {
	case errors.Is(err, infra.ErrRedisNotConfigured):
		logger.Warnw("redis not configured, falling back to in-memory rate limiting")
	case err != nil:
		_ = res.Close()
		return nil, fmt.Errorf("load redis options: %w", err)
	default:
		client, err := infra.NewRedisClient(ctx, redisOpts)
		if err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		res.Redis = client
	}

	logger.Infow("online resources ready", "mysql_host", mysqlCfg.Host, "database", mysqlCfg.Database, "redis", res.Redis != nil)
	return res, nil
}

// Migrate 对全部实体执行 AutoMigrate。
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(rental.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Close 释放数据库与 Redis 连接。
func (r *Resources) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if r.sqlDB != nil {
		if err := r.sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	return errors.Join(errs...)
}
