package loader

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	f.SetCellValue(sheetName, "A1", "Header1")
	f.SetCellValue(sheetName, "B1", "Header2")
	f.SetCellValue(sheetName, "A2", 100)
	f.SetCellValue(sheetName, "B2", 200.5)
	f.SetCellValue(sheetName, "A3", "Text")
	f.SetCellValue(sheetName, "C3", "1820146074")
	f.SetCellValue(sheetName, "A5", "Total Overdue")

	if _, err := f.NewSheet("Dates"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	f.SetCellValue("Dates", "A1", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write test workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadXLSX(t *testing.T) {
	wb, err := Load(buildWorkbook(t), "test.xlsx", Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if wb.Name != "test.xlsx" {
		t.Errorf("Expected name test.xlsx, got %q", wb.Name)
	}
	if got := wb.SheetNames(); len(got) != 2 || got[0] != "Sheet1" || got[1] != "Dates" {
		t.Fatalf("Unexpected sheets: %v", got)
	}

	s := wb.Sheets[0]
	if len(s.Rows) != 5 {
		t.Errorf("Expected 5 rows, got %d", len(s.Rows))
	}
	if c := s.Row(0).At(0); c.Kind != models.CellString || c.Str != "Header1" {
		t.Errorf("Expected text Header1, got %#v", c)
	}
	if c := s.Row(1).At(0); c.Kind != models.CellNumber || c.Num != 100 {
		t.Errorf("Expected number 100, got %#v", c)
	}
	if c := s.Row(1).At(1); c.Kind != models.CellNumber || c.Num != 200.5 {
		t.Errorf("Expected number 200.5, got %#v", c)
	}
	// Text that looks numeric stays text so reference codes survive.
	if c := s.Row(2).At(2); c.Kind != models.CellString || c.Str != "1820146074" {
		t.Errorf("Expected text 1820146074, got %#v", c)
	}
	if c := s.Row(3).At(0); !c.IsEmpty() {
		t.Errorf("Expected empty row 4, got %#v", c)
	}
	if c := s.Row(4).At(0); c.Str != "Total Overdue" {
		t.Errorf("Expected normalized text, got %q", c.Str)
	}

	d := wb.Sheets[1].Row(0).At(0)
	if d.Kind != models.CellDate {
		t.Fatalf("Expected date cell, got %#v", d)
	}
	if y, m, day := d.Time.Date(); y != 2026 || m != time.January || day != 31 {
		t.Errorf("Expected 2026-01-31, got %v", d.Time)
	}
}

func TestLoadStream(t *testing.T) {
	wb, err := Load(buildWorkbook(t), "big.xlsx", Options{StreamThresholdBytes: 1})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := wb.Sheet("Sheet1")
	if s == nil {
		t.Fatal("Sheet1 missing")
	}
	if c := s.Row(0).At(1); c.Str != "Header2" {
		t.Errorf("Expected Header2, got %#v", c)
	}
	if c := s.Row(1).At(1); c.Kind != models.CellNumber || c.Num != 200.5 {
		t.Errorf("Expected number 200.5, got %#v", c)
	}
	if c := s.Row(2).At(2); c.Kind != models.CellString || c.Str != "1820146074" {
		t.Errorf("Expected text 1820146074, got %#v", c)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.xlsx")
	if err := os.WriteFile(path, buildWorkbook(t), 0644); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	wb, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if wb.Name != "statement.xlsx" {
		t.Errorf("Expected name statement.xlsx, got %q", wb.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnsupportedFormat},
		{"text", []byte("not,a,workbook\n"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		if _, err := Load(tt.data, tt.name, Options{}); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}

	// A zip that is not a workbook fails to open.
	if _, err := Load([]byte("PK\x03\x04garbage"), "bad.xlsx", Options{}); err == nil {
		t.Error("Expected error for corrupt package")
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		data     []byte
		expected Format
	}{
		{[]byte("PK\x03\x04rest"), FormatXLSX},
		{[]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1}, FormatXLS},
		{[]byte("%PDF"), FormatUnknown},
		{nil, FormatUnknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.data); got != tt.expected {
			t.Errorf("Detect(%q) = %v, expected %v", tt.data, got, tt.expected)
		}
	}
}

func TestDecodeBase64(t *testing.T) {
	raw := []byte("PK\x03\x04")
	enc := base64.StdEncoding.EncodeToString(raw)

	for _, payload := range []string{
		enc,
		"data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64," + enc,
		"  " + enc + "\n",
	} {
		got, err := DecodeBase64(payload)
		if err != nil {
			t.Errorf("DecodeBase64(%q) failed: %v", payload, err)
			continue
		}
		if string(got) != string(raw) {
			t.Errorf("DecodeBase64(%q) = %q", payload, got)
		}
	}

	if _, err := DecodeBase64("!!not base64!!"); !errors.Is(err, ErrDecode) {
		t.Errorf("Expected ErrDecode, got %v", err)
	}
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }
	tests := []struct {
		id       int
		custom   *string
		expected bool
	}{
		{0, nil, false},
		{2, nil, false},
		{14, nil, true},
		{22, nil, true},
		{46, nil, true},
		{164, custom("dd/mm/yyyy"), true},
		{164, custom("mmm-yy"), true},
		{164, custom(`#,##0.00 "days"`), false},
		{164, custom("[Red]#,##0.00"), false},
		{164, custom("0.00%"), false},
	}
	for _, tt := range tests {
		if got := IsDateFormat(tt.id, tt.custom); got != tt.expected {
			t.Errorf("IsDateFormat(%d, %v) = %v, expected %v", tt.id, tt.custom, got, tt.expected)
		}
	}
}

func TestXLSCell(t *testing.T) {
	tests := []struct {
		input    string
		kind     models.CellKind
		expected string
	}{
		{"123", models.CellNumber, "123"},
		{"-100.5", models.CellNumber, "-100.5"},
		{"1,234.56", models.CellString, "1,234.56"},
		{"hello", models.CellString, "hello"},
		{"  ", models.CellEmpty, ""},
	}
	for _, tt := range tests {
		c := xlsCell(tt.input)
		if c.Kind != tt.kind || c.String() != tt.expected {
			t.Errorf("xlsCell(%q) = %#v, expected kind %v %q", tt.input, c, tt.kind, tt.expected)
		}
	}
}
