package export_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rental-desk/backend/internal/infra/export"
	"rental-desk/backend/internal/service/revenue"

	"github.com/shopspring/decimal"
)

func sampleSeries(t *testing.T) revenue.Series {
	t.Helper()
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	records := []revenue.RentalRecord{
		{Date: start.Add(10 * time.Hour), Amount: decimal.RequireFromString("2500.00"), RoomID: 1},
		{Date: start.Add(11 * time.Hour), Amount: decimal.RequireFromString("3800.00"), RoomID: 2},
		{Date: start.AddDate(0, 0, 1).Add(9 * time.Hour), Amount: decimal.RequireFromString("6200.00"), RoomID: 3},
	}
	series, err := revenue.ComputeDailySeries(start, start.AddDate(0, 0, 1), records, 4)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	return series
}

func TestWriteADR(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, revenue.ViewADR, sampleSeries(t)); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := strings.Join([]string{
		"Date;Daily revenue;Rent count;ADR",
		"01.09.2026;6300.00;2;3150.00",
		"02.09.2026;6200.00;1;6200.00",
		"Total;12500.00;3;4166.67",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected csv:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteRevPAR(t *testing.T) {
	var buf bytes.Buffer
	if err := export.Write(&buf, revenue.ViewRevPAR, sampleSeries(t)); err != nil {
		t.Fatalf("write: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, 2 days and total, got %d lines", len(lines))
	}
	if lines[0] != "Date;Daily revenue;Occupied rooms;Total rooms;Occupancy %;ADR;RevPAR" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[1] != "01.09.2026;6300.00;2;4;50.00%;3150.00;1575.00" {
		t.Fatalf("unexpected first row: %s", lines[1])
	}
	if lines[3] != "Total;12500.00;3;8;37.50%;4166.67;1562.50" {
		t.Fatalf("unexpected total row: %s", lines[3])
	}
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	at := time.Date(2026, 9, 18, 14, 30, 0, 0, time.UTC)

	path, err := export.WriteFile(dir, revenue.ViewRevPAR, sampleSeries(t), at)
	if err != nil {
		t.Fatalf("write file: %v", err)
	}
	if filepath.Base(path) != "RevPAR_20260918_143000.csv" {
		t.Fatalf("unexpected file name: %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(raw), "Date;Daily revenue;Occupied rooms") {
		t.Fatalf("unexpected content: %s", raw)
	}

	if name := export.FileName(revenue.ViewADR, at); name != "ADR_20260918_143000.csv" {
		t.Fatalf("unexpected adr file name: %s", name)
	}
	if err := export.Write(&bytes.Buffer{}, revenue.View("occupancy"), sampleSeries(t)); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}
