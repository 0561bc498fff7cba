package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rental-desk/backend/internal/bootstrapdata"
	"rental-desk/backend/internal/domain/rental"
	response "rental-desk/backend/internal/infra/common"
	"rental-desk/backend/internal/infra/token"
	"rental-desk/backend/internal/repository"
	"rental-desk/backend/internal/service/apartment"
	"rental-desk/backend/internal/service/auth"
	"rental-desk/backend/internal/service/visitor"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDeskRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(rental.AllModels()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	if err := bootstrapdata.SeedReferenceData(context.Background(), db); err != nil {
		t.Fatalf("seed reference data: %v", err)
	}

	hash, err := auth.HashPassword("secret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	fixtures := []any{
		&rental.ApartmentType{ID: 1, Name: "Standard", Cost: decimal.RequireFromString("2500.00")},
		&rental.Apartment{ID: 1, TypeID: 1, ConditionID: 1},
		&rental.Visitor{ID: 1, FullName: "Anna Petrova"},
		&rental.Staff{ID: 1, FullName: "Front Desk", Login: "desk", PasswordHash: hash, RoleID: 1},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed fixture %T: %v", fixture, err)
		}
	}

	nop := zap.NewNop().Sugar()
	authHandler := NewAuthHandler(auth.NewService(repository.NewStaffRepository(db), token.NewJWTManager("test-secret", time.Hour), nop), nop)
	apartments := NewApartmentHandler(apartment.NewService(repository.NewApartmentRepository(db)), nop)
	visitors := NewVisitorHandler(visitor.NewService(repository.NewVisitorRepository(db)), nop)

	router := gin.New()
	router.POST("/auth/login", authHandler.Login)
	router.POST("/apartments", apartments.Create)
	router.PUT("/apartments/:id", apartments.Update)
	router.DELETE("/apartments/:id", apartments.Delete)
	router.POST("/visitors", visitors.Create)
	router.PUT("/visitors/:id", visitors.Update)
	router.DELETE("/visitors/:id", visitors.Delete)
	return router
}

func serveJSON(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorCode {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v (%s)", err, rec.Body.String())
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestDeskHandlersMapErrors(t *testing.T) {
	router := newTestDeskRouter(t)

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   response.ErrorCode
	}{
		{"login wrong password", http.MethodPost, "/auth/login", `{"login":"desk","password":"wrong"}`, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{"login unknown staff", http.MethodPost, "/auth/login", `{"login":"ghost","password":"secret"}`, http.StatusUnauthorized, response.ErrInvalidCredentials},
		{"login missing password", http.MethodPost, "/auth/login", `{"login":"desk"}`, http.StatusBadRequest, response.ErrBadRequest},
		{"update missing apartment", http.MethodPut, "/apartments/99", `{"type_id":1,"condition_id":1}`, http.StatusNotFound, response.ErrNotFound},
		{"delete missing apartment", http.MethodDelete, "/apartments/99", "", http.StatusNotFound, response.ErrNotFound},
		{"apartment unknown type", http.MethodPost, "/apartments", `{"type_id":9,"condition_id":1}`, http.StatusBadRequest, response.ErrBadRequest},
		{"apartment bad id", http.MethodDelete, "/apartments/abc", "", http.StatusBadRequest, response.ErrBadRequest},
		{"update missing visitor", http.MethodPut, "/visitors/99", `{"full_name":"Ivan Sokolov"}`, http.StatusNotFound, response.ErrNotFound},
		{"delete missing visitor", http.MethodDelete, "/visitors/99", "", http.StatusNotFound, response.ErrNotFound},
		{"blank visitor name", http.MethodPost, "/visitors", `{"full_name":"   "}`, http.StatusBadRequest, response.ErrBadRequest},
	}

	for _, tc := range cases {
		rec := serveJSON(router, tc.method, tc.target, tc.body)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d (%s)", tc.name, tc.status, rec.Code, rec.Body.String())
		}
		if got := errorCode(t, rec); got != tc.code {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.code, got)
		}
	}
}

func TestDeskHandlersHappyPath(t *testing.T) {
	router := newTestDeskRouter(t)

	login := serveJSON(router, http.MethodPost, "/auth/login", `{"login":"desk","password":"secret"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("login: unexpected status %d: %s", login.Code, login.Body.String())
	}
	if !strings.Contains(login.Body.String(), `"tokens"`) {
		t.Fatalf("login: tokens missing: %s", login.Body.String())
	}

	created := serveJSON(router, http.MethodPost, "/visitors", `{"full_name":"  Ivan Sokolov "}`)
	if created.Code != http.StatusCreated {
		t.Fatalf("create visitor: unexpected status %d: %s", created.Code, created.Body.String())
	}
	if !strings.Contains(created.Body.String(), `"Ivan Sokolov"`) {
		t.Fatalf("create visitor: name not trimmed: %s", created.Body.String())
	}

	if rec := serveJSON(router, http.MethodPut, "/apartments/1", `{"type_id":1,"condition_id":3}`); rec.Code != http.StatusOK {
		t.Fatalf("update apartment: unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if rec := serveJSON(router, http.MethodDelete, "/apartments/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete apartment: unexpected status %d", rec.Code)
	}
	if rec := serveJSON(router, http.MethodDelete, "/visitors/1", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete visitor: unexpected status %d", rec.Code)
	}
}
