/*
 * @Author: NEFU AB-IN
 * @Date: 2026-09-22 16:10:03
 * @FilePath: \rental-desk\backend\internal\service\auth\service_test.go
 * @LastEditTime: 2026-09-22 16:10:03
 */
package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/infra/token"
	"rental-desk/backend/internal/repository"
	"rental-desk/backend/internal/service/auth"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestAuthService(t *testing.T) (*auth.Service, *token.JWTManager) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&rental.Role{}, &rental.Staff{}); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	fixtures := []any{
		&rental.Role{ID: 1, Name: rental.RoleAdministrator},
		&rental.Role{ID: 2, Name: rental.RoleHousekeeper},
		&rental.Staff{ID: 1, FullName: "Front Desk", Login: "desk", PasswordHash: hash, RoleID: 1},
		&rental.Staff{ID: 2, FullName: "No Password", Login: "nopass", RoleID: 2},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed %T: %v", fixture, err)
		}
	}

	tokens := token.NewJWTManager("test-secret", time.Hour)
	return auth.NewService(repository.NewStaffRepository(db), tokens, zap.NewNop().Sugar()), tokens
}

func TestAuthServiceLogin(t *testing.T) {
	svc, tokens := newTestAuthService(t)

	staff, pair, err := svc.Login(context.Background(), auth.LoginParams{Login: " desk ", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if staff.ID != 1 || !staff.IsAdministrator() {
		t.Fatalf("unexpected staff: %+v", staff)
	}
	if pair.AccessToken == "" || pair.ExpiresIn != 3600 {
		t.Fatalf("unexpected token pair: %+v", pair)
	}

	claims, err := tokens.ParseAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.StaffID != 1 || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthServiceLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	cases := []auth.LoginParams{
		{Login: "desk", Password: "wrong-password"},
		{Login: "ghost", Password: "password123"},
		{Login: "nopass", Password: "anything"},
	}
	for _, params := range cases {
		if _, _, err := svc.Login(ctx, params); !errors.Is(err, auth.ErrInvalidLogin) {
			t.Fatalf("login %q: expected invalid login, got %v", params.Login, err)
		}
	}

	if _, _, err := svc.Login(ctx, auth.LoginParams{Login: "desk"}); !errors.Is(err, auth.ErrLoginRequired) {
		t.Fatalf("expected login required, got %v", err)
	}
}
