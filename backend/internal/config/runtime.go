package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// ModeLocal 表示前台单机运行，使用本地 SQLite。
	ModeLocal = "local"
	// ModeOnline 表示默认的在线模式，连接 MySQL 与 Redis。
	ModeOnline = "online"

	defaultLocalStaffID    = 1
	defaultLocalStaffName  = "前台管理员"
	defaultLocalStaffLogin = "admin"
	defaultLocalStaffPass  = "admin"
	defaultLocalDBRelPath  = "data/rental-desk-local.db"

	defaultServerPort     = "8080"
	defaultJWTAccessTTL   = 12 * time.Hour
	defaultJWTSecretLocal = "rental-desk-local-secret"
)

// RuntimeFlags 汇总运行期所需的模式与本地环境配置。
type RuntimeFlags struct {
	Mode  string
	Local LocalRuntime
}

// LocalRuntime 描述本地模式下需要的额外配置。
type LocalRuntime struct {
	DBPath     string
	StaffID    uint
	StaffName  string
	StaffLogin string

	// StaffPassword 仅在首次建库时写入 bcrypt 哈希。
	StaffPassword string
	IsAdmin       bool
}

// IsLocal 判断是否运行在本地模式。
func (f RuntimeFlags) IsLocal() bool {
	return f.Mode == ModeLocal
}

// ServerConfig 描述 HTTP 服务与令牌签发相关的配置。
type ServerConfig struct {
	Port      string
	JWTSecret string
	AccessTTL time.Duration
}

// LoadRuntimeFlags 读取环境变量，推导当前运行模式及本地模式参数。
func LoadRuntimeFlags() RuntimeFlags {
	LoadEnvFiles()

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("APP_MODE")))
	if mode != ModeLocal {
		mode = ModeOnline
	}

	local := LocalRuntime{
		DBPath:        normalisePath(defaultLocalDBRelPath),
		StaffID:       defaultLocalStaffID,
		StaffName:     envString("LOCAL_STAFF_NAME", defaultLocalStaffName),
		StaffLogin:    envString("LOCAL_STAFF_LOGIN", defaultLocalStaffLogin),
		StaffPassword: envString("LOCAL_STAFF_PASSWORD", defaultLocalStaffPass),
		IsAdmin:       envBool("LOCAL_STAFF_ADMIN", true),
	}

	if rawPath := strings.TrimSpace(os.Getenv("LOCAL_SQLITE_PATH")); rawPath != "" {
		local.DBPath = normalisePath(rawPath)
	}
	if rawID := strings.TrimSpace(os.Getenv("LOCAL_STAFF_ID")); rawID != "" {
		if parsed, err := strconv.ParseUint(rawID, 10, 32); err == nil && parsed > 0 {
			local.StaffID = uint(parsed)
		}
	}

	return RuntimeFlags{
		Mode:  mode,
		Local: local,
	}
}

// LoadServerConfig 读取端口与 JWT 配置，本地模式允许使用内置密钥。
func LoadServerConfig(flags RuntimeFlags) ServerConfig {
	LoadEnvFiles()

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" && flags.IsLocal() {
		secret = defaultJWTSecretLocal
	}

	return ServerConfig{
		Port:      envString("SERVER_PORT", defaultServerPort),
		JWTSecret: secret,
		AccessTTL: envDuration("JWT_ACCESS_TTL", defaultJWTAccessTTL),
	}
}

// normalisePath 将路径展开为绝对路径，兼容 ~ 前缀与相对路径。
func normalisePath(raw string) string {
	if raw == "" {
		return raw
	}
	if strings.HasPrefix(raw, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			raw = filepath.Join(home, strings.TrimPrefix(raw, "~"))
		}
	}
	if filepath.IsAbs(raw) {
		return raw
	}
	if abs, err := filepath.Abs(raw); err == nil {
		return abs
	}
	return raw
}
