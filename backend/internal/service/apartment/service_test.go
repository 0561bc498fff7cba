package apartment_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"rental-desk/backend/internal/bootstrapdata"
	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/repository"
	"rental-desk/backend/internal/service/apartment"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestApartmentService(t *testing.T) *apartment.Service {
	t.Helper()

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
	if err := db.Create(&rental.ApartmentType{ID: 1, Name: "Comfort", Cost: decimal.RequireFromString("3800.00")}).Error; err != nil {
		t.Fatalf("seed type: %v", err)
	}
	return apartment.NewService(repository.NewApartmentRepository(db))
}

func TestApartmentServiceLifecycle(t *testing.T) {
	svc := newTestApartmentService(t)
	ctx := context.Background()

	lookups, err := svc.Lookups(ctx)
	if err != nil {
		t.Fatalf("lookups: %v", err)
	}
	if len(lookups.Types) != 1 || len(lookups.Conditions) != 3 {
		t.Fatalf("unexpected lookups: %+v", lookups)
	}

	created, err := svc.Create(ctx, apartment.Params{TypeID: 1, ConditionID: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.Type.Name != "Comfort" || created.Condition.Name != rental.ConditionClean {
		t.Fatalf("unexpected apartment: %+v", created)
	}

	updated, err := svc.Update(ctx, created.ID, apartment.Params{TypeID: 1, ConditionID: 3})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Condition.Name != rental.ConditionDirty {
		t.Fatalf("condition not updated: %+v", updated)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d", len(items))
	}
}

func TestApartmentServiceRejectsUnknownReferences(t *testing.T) {
	svc := newTestApartmentService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, apartment.Params{TypeID: 9, ConditionID: 1}); !errors.Is(err, apartment.ErrTypeNotFound) {
		t.Fatalf("expected type not found, got %v", err)
	}
	if _, err := svc.Create(ctx, apartment.Params{TypeID: 1, ConditionID: 9}); !errors.Is(err, apartment.ErrConditionNotFound) {
		t.Fatalf("expected condition not found, got %v", err)
	}
	if _, err := svc.Update(ctx, 5, apartment.Params{TypeID: 1, ConditionID: 1}); !errors.Is(err, apartment.ErrApartmentNotFound) {
		t.Fatalf("expected apartment not found, got %v", err)
	}
	if err := svc.Delete(ctx, 5); !errors.Is(err, apartment.ErrApartmentNotFound) {
		t.Fatalf("expected apartment not found on delete, got %v", err)
	}
}
