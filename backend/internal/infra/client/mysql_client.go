/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-21 11:16:56
 * @FilePath: \rental-desk\backend\internal\infra\client\mysql_client.go
 * @LastEditTime: 2026-09-21 11:49:45
 */
package infra

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"rental-desk/backend/internal/config"

	"github.com/go-sql-driver/mysql"
	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	envMySQLHost     = "MYSQL_HOST"
	envMySQLPort     = "MYSQL_PORT"
	envMySQLUsername = "MYSQL_USERNAME"
	envMySQLPassword = "MYSQL_PASSWORD"
	envMySQLDatabase = "MYSQL_DATABASE"
	envMySQLParams   = "MYSQL_PARAMS"
)

const (
	defaultMySQLPort     = 3306
	defaultMySQLDatabase = "rental_desk"
	defaultMySQLParams   = "charset=utf8mb4"
)

// MySQLConfig 描述线上模式的数据库连接配置。
type MySQLConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	Params   string
}

// LoadMySQLConfig 从环境变量读取 MySQL 配置，并填充可选字段的默认值。
func LoadMySQLConfig() (MySQLConfig, error) {
	config.LoadEnvFiles()

	cfg := MySQLConfig{
		Host:     strings.TrimSpace(os.Getenv(envMySQLHost)),
		Port:     defaultMySQLPort,
		Username: strings.TrimSpace(os.Getenv(envMySQLUsername)),
		Password: os.Getenv(envMySQLPassword),
		Database: strings.TrimSpace(os.Getenv(envMySQLDatabase)),
		Params:   strings.TrimSpace(os.Getenv(envMySQLParams)),
	}
	if raw := strings.TrimSpace(os.Getenv(envMySQLPort)); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 {
			return MySQLConfig{}, fmt.Errorf("invalid %s %q", envMySQLPort, raw)
		}
		cfg.Port = port
	}
	if cfg.Database == "" {
		cfg.Database = defaultMySQLDatabase
	}
	if cfg.Params == "" {
		cfg.Params = defaultMySQLParams
	}
	return cfg, nil
}

// BuildMySQLDSN 校验配置后借助驱动的 Config.FormatDSN 生成 DSN。
// parseTime 始终开启，loc 使用报表时区，保证 paid_at 读写与自然日判定一致。
func BuildMySQLDSN(cfg MySQLConfig, loc *time.Location) (string, error) {
	if err := validateMySQLConfig(cfg); err != nil {
		return "", err
	}
	if loc == nil {
		loc = time.Local
	}

	port := cfg.Port
	if port == 0 {
		port = defaultMySQLPort
	}

	driverCfg := mysql.NewConfig()
	driverCfg.User = cfg.Username
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	driverCfg.DBName = cfg.Database
	driverCfg.ParseTime = true
	driverCfg.Loc = loc

	params, err := url.ParseQuery(cfg.Params)
	if err != nil {
		return "", fmt.Errorf("parse mysql params: %w", err)
	}
	if len(params) > 0 {
		driverCfg.Params = make(map[string]string, len(params))
		for key, values := range params {
			if key == "parseTime" || key == "loc" || len(values) == 0 {
				continue
			}
			driverCfg.Params[key] = values[len(values)-1]
		}
	}

	return driverCfg.FormatDSN(), nil
}

// NewGORMMySQL 创建 GORM 连接并返回 ORM 与底层 *sql.DB，便于控制生命周期。
func NewGORMMySQL(cfg MySQLConfig, loc *time.Location) (*gorm.DB, *sql.DB, error) {
	dsn, err := BuildMySQLDSN(cfg, loc)
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysqlDriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open gorm mysql: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql db: %w", err)
	}

	sqlDB.SetConnMaxLifetime(60 * time.Minute)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(25)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("ping mysql: %w", err)
	}

	return gormDB, sqlDB, nil
}

// validateMySQLConfig 校验配置字段是否完整。
func validateMySQLConfig(cfg MySQLConfig) error {
	if cfg.Host == "" {
		return fmt.Errorf("mysql host is required")
	}
	if cfg.Username == "" {
		return fmt.Errorf("mysql username is required")
	}
	if cfg.Database == "" {
		return fmt.Errorf("mysql database is required")
	}
	return nil
}
