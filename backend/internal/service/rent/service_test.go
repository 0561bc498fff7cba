package rent_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"rental-desk/backend/internal/bootstrapdata"
	"rental-desk/backend/internal/domain/rental"
	"rental-desk/backend/internal/service/rent"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminStaffID       = uint(1)
	housekeeperStaffID = uint(2)
	guestID            = uint(1)
)

var fixedNow = time.Date(2026, 9, 18, 14, 30, 0, 0, time.UTC)

func newTestRentService(t *testing.T) (*rent.Service, *gorm.DB) {
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
	ctx := context.Background()
	if err := bootstrapdata.SeedReferenceData(ctx, db); err != nil {
		t.Fatalf("seed reference data: %v", err)
	}

	fixtures := []any{
		&rental.ApartmentType{ID: 1, Name: "Standard", Cost: decimal.RequireFromString("2500.00")},
		&rental.ApartmentType{ID: 2, Name: "Suite", Cost: decimal.RequireFromString("6200.00")},
		&rental.Apartment{ID: 1, TypeID: 1, ConditionID: 1},
		&rental.Apartment{ID: 2, TypeID: 2, ConditionID: 1},
		&rental.Apartment{ID: 3, TypeID: 1, ConditionID: 3},
		&rental.Visitor{ID: guestID, FullName: "Anna Petrova"},
		&rental.Staff{ID: adminStaffID, FullName: "Front Desk", Login: "desk", RoleID: 1},
		&rental.Staff{ID: housekeeperStaffID, FullName: "Housekeeping", Login: "house", RoleID: 2},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed fixture %T: %v", fixture, err)
		}
	}

	svc := rent.NewService(db, zap.NewNop().Sugar())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc, db
}

func conditionOf(t *testing.T, db *gorm.DB, apartmentID uint) string {
	t.Helper()
	var apartment rental.Apartment
	if err := db.Preload("Condition").First(&apartment, apartmentID).Error; err != nil {
		t.Fatalf("load apartment %d: %v", apartmentID, err)
	}
	return apartment.Condition.Name
}

func TestRentServiceCreateOccupiesApartment(t *testing.T) {
	svc, db := newTestRentService(t)
	ctx := context.Background()

	payment, err := svc.Create(ctx, rent.Params{
		ApartmentID:  1,
		VisitorID:    guestID,
		StaffID:      adminStaffID,
		QuantityDays: 3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if payment.ID != 1 {
		t.Fatalf("expected first id 1, got %d", payment.ID)
	}
	if !payment.Amount.Equal(decimal.RequireFromString("7500")) {
		t.Fatalf("expected amount 7500, got %s", payment.Amount)
	}
	if !payment.PaidAt.Equal(fixedNow) {
		t.Fatalf("expected paid at %s, got %s", fixedNow, payment.PaidAt)
	}
	if got := conditionOf(t, db, 1); got != rental.ConditionOccupied {
		t.Fatalf("expected apartment occupied, got %s", got)
	}

	if _, err := svc.Create(ctx, rent.Params{ApartmentID: 1, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1}); !errors.Is(err, rent.ErrApartmentUnavailable) {
		t.Fatalf("expected occupied apartment to be rejected, got %v", err)
	}
}

func TestRentServiceCreateValidation(t *testing.T) {
	svc, db := newTestRentService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params rent.Params
		want   error
	}{
		{name: "zero days", params: rent.Params{ApartmentID: 1, VisitorID: guestID, StaffID: adminStaffID}, want: rent.ErrInvalidDays},
		{name: "dirty apartment", params: rent.Params{ApartmentID: 3, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1}, want: rent.ErrApartmentUnavailable},
		{name: "housekeeper", params: rent.Params{ApartmentID: 1, VisitorID: guestID, StaffID: housekeeperStaffID, QuantityDays: 1}, want: rent.ErrStaffNotAdministrator},
		{name: "unknown visitor", params: rent.Params{ApartmentID: 1, VisitorID: 99, StaffID: adminStaffID, QuantityDays: 1}, want: rent.ErrVisitorNotFound},
		{name: "unknown staff", params: rent.Params{ApartmentID: 1, VisitorID: guestID, StaffID: 99, QuantityDays: 1}, want: rent.ErrStaffNotFound},
		{name: "unknown apartment", params: rent.Params{ApartmentID: 99, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1}, want: rent.ErrApartmentNotFound},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.params); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	var count int64
	if err := db.Model(&rental.Payment{}).Count(&count).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected rents must not be stored, found %d", count)
	}
	if got := conditionOf(t, db, 1); got != rental.ConditionClean {
		t.Fatalf("apartment condition changed by rejected rent: %s", got)
	}
}

func TestRentServiceUpdateMovesApartment(t *testing.T) {
	svc, db := newTestRentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, rent.Params{ApartmentID: 1, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 2})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	later := fixedNow.Add(48 * time.Hour)
	svc.SetClock(func() time.Time { return later })

	updated, err := svc.Update(ctx, created.ID, rent.Params{ApartmentID: 2, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 2})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Amount.Equal(decimal.RequireFromString("12400")) {
		t.Fatalf("expected recomputed amount 12400, got %s", updated.Amount)
	}
	if !updated.PaidAt.Equal(later) {
		t.Fatalf("expected paid at to move to %s, got %s", later, updated.PaidAt)
	}
	if got := conditionOf(t, db, 1); got != rental.ConditionDirty {
		t.Fatalf("expected previous apartment dirty, got %s", got)
	}
	if got := conditionOf(t, db, 2); got != rental.ConditionOccupied {
		t.Fatalf("expected new apartment occupied, got %s", got)
	}

	// 同一房间只改天数时不要求房间为 clean。
	same, err := svc.Update(ctx, created.ID, rent.Params{ApartmentID: 2, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1})
	if err != nil {
		t.Fatalf("update same apartment: %v", err)
	}
	if !same.Amount.Equal(decimal.RequireFromString("6200")) {
		t.Fatalf("expected amount 6200, got %s", same.Amount)
	}

	if _, err := svc.Update(ctx, created.ID, rent.Params{ApartmentID: 3, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1}); !errors.Is(err, rent.ErrApartmentUnavailable) {
		t.Fatalf("expected dirty target to be rejected, got %v", err)
	}
	if _, err := svc.Update(ctx, 404, rent.Params{ApartmentID: 2, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1}); !errors.Is(err, rent.ErrRentNotFound) {
		t.Fatalf("expected rent not found, got %v", err)
	}
}

func TestRentServiceDeleteAndListOptions(t *testing.T) {
	svc, db := newTestRentService(t)
	ctx := context.Background()

	opts, err := svc.Options(ctx)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if len(opts.Apartments) != 2 {
		t.Fatalf("expected 2 clean apartments, got %d", len(opts.Apartments))
	}
	if len(opts.Staff) != 1 || opts.Staff[0].StaffID != adminStaffID {
		t.Fatalf("expected only the administrator as staff option, got %+v", opts.Staff)
	}
	if !opts.Apartments[1].TypeCost.Equal(decimal.RequireFromString("6200")) {
		t.Fatalf("unexpected type cost: %s", opts.Apartments[1].TypeCost)
	}

	created, err := svc.Create(ctx, rent.Params{ApartmentID: 2, VisitorID: guestID, StaffID: adminStaffID, QuantityDays: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 || items[0].VisitorName != "Anna Petrova" || items[0].StaffName != "Front Desk" {
		t.Fatalf("unexpected list: %+v", items)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); !errors.Is(err, rent.ErrRentNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if got := conditionOf(t, db, 2); got != rental.ConditionOccupied {
		t.Fatalf("delete must not change apartment condition, got %s", got)
	}
}
