package infra

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"rental-desk/backend/internal/config"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-sql-driver/mysql"
)

func disableEnvFiles(t *testing.T) {
	t.Helper()
	config.SetEnvFileLoadingForTest(false)
	t.Cleanup(func() { config.SetEnvFileLoadingForTest(true) })
}

func TestLoadRedisOptionsFromEnv(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("REDIS_ENDPOINT", "redis://127.0.0.1:6380")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	opts, err := LoadRedisOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Host != "127.0.0.1" || opts.Port != 6380 {
		t.Fatalf("unexpected host/port: %s:%d", opts.Host, opts.Port)
	}
	if opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Addr() != "127.0.0.1:6380" {
		t.Fatalf("unexpected addr: %s", opts.Addr())
	}
}

func TestLoadRedisOptionsMissingEndpoint(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("REDIS_ENDPOINT", "")

	if _, err := LoadRedisOptions(); !errors.Is(err, ErrRedisNotConfigured) {
		t.Fatalf("expected ErrRedisNotConfigured, got %v", err)
	}
}

func TestNewRedisClient(t *testing.T) {
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer server.Close()

	port, err := strconv.Atoi(server.Port())
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	client, err := NewRedisClient(context.Background(), RedisOptions{Host: server.Host(), Port: port, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewRedisClient returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := client.Set(context.Background(), "foo", "bar", 0).Err(); err != nil {
		t.Fatalf("redis set: %v", err)
	}
	if got := server.DB(0).Exists("foo"); !got {
		t.Fatalf("expected key written to miniredis")
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	dsn, err := BuildMySQLDSN(MySQLConfig{
		Host:     "db.internal",
		Port:     3307,
		Username: "desk",
		Password: "p@ss",
		Database: "rental_desk",
		Params:   "charset=utf8mb4&parseTime=false",
	}, loc)
	if err != nil {
		t.Fatalf("build dsn: %v", err)
	}

	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("parse dsn %q: %v", dsn, err)
	}
	if parsed.Addr != "db.internal:3307" || parsed.DBName != "rental_desk" || parsed.User != "desk" {
		t.Fatalf("unexpected dsn fields: %+v", parsed)
	}
	if !parsed.ParseTime {
		t.Fatalf("parseTime must stay enabled")
	}
	if parsed.Loc.String() != "Europe/Moscow" {
		t.Fatalf("unexpected loc: %s", parsed.Loc)
	}
	if !strings.Contains(dsn, "charset=utf8mb4") {
		t.Fatalf("custom params dropped: %s", dsn)
	}

	if _, err := BuildMySQLDSN(MySQLConfig{Username: "desk", Database: "rental_desk"}, nil); err == nil {
		t.Fatalf("expected error without host")
	}
}

func TestLoadMySQLConfigDefaults(t *testing.T) {
	disableEnvFiles(t)
	t.Setenv("MYSQL_HOST", "localhost")
	t.Setenv("MYSQL_USERNAME", "root")
	t.Setenv("MYSQL_PORT", "")
	t.Setenv("MYSQL_DATABASE", "")
	t.Setenv("MYSQL_PARAMS", "")

	cfg, err := LoadMySQLConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 3306 || cfg.Database != "rental_desk" || cfg.Params != "charset=utf8mb4" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	t.Setenv("MYSQL_PORT", "not-a-port")
	if _, err := LoadMySQLConfig(); err == nil {
		t.Fatalf("expected invalid port error")
	}
}

func TestNewGORMSQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "desk.db")
	db, err := NewGORMSQLite(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
