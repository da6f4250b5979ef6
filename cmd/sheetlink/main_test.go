package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"TotalCare Charges"},
		{"Company", "Account", "Reference", "Doc Date", "Due Date", "Amount", "Curr"},
		{100, 200, "INV1", "01/01/2026", "01/02/2026", 500.00, "USD"},
		{"", "", "", "", "Total", 500.00},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Failed to write row: %v", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SHEETLINK_CONFIG", "")
	var stdout, stderr bytes.Buffer
	err := executeContext(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestParseCommand(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "soa.xlsx")
	out, err := run(t, "parse", "--validate", path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var res map[string]any
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", out, err)
	}
	if res["file_type"] != "SOA" {
		t.Errorf("Expected SOA, got %v", res["file_type"])
	}
}

func TestParseCommandOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "soa.xlsx")
	target := filepath.Join(dir, "out.toon")
	if _, err := run(t, "parse", "--format", "toon", "-o", target, path); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), "file_type") {
		t.Errorf("Expected TOON output, got %q", data)
	}
}

func TestParseCommandErrors(t *testing.T) {
	path := writeStatement(t, t.TempDir(), "soa.xlsx")
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"parse", filepath.Join(t.TempDir(), "missing.xlsx")}},
		{"bad format", []string{"parse", "--format", "xml", path}},
		{"bad log format", []string{"--log-format", "xml", "parse", path}},
		{"no args", []string{"parse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeStatement(t, dir, "a.xlsx")
	b := writeStatement(t, dir, "b.xlsx")
	filesDir := filepath.Join(dir, "results")

	out, err := run(t, "batch", "--files-dir", filesDir, "-o", filepath.Join(dir, "batch.json"), a, b)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected nothing on stdout, got %q", out)
	}
	for _, name := range []string{"a.json", "b.json"} {
		if _, err := os.Stat(filepath.Join(filesDir, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "batch.json"))
	if err != nil {
		t.Fatalf("Expected batch output: %v", err)
	}
	var batch map[string]any
	if err := json.Unmarshal(data, &batch); err != nil {
		t.Fatalf("Expected JSON batch output: %v", err)
	}
	summary := batch["session_summary"].(map[string]any)
	if summary["files_loaded"] != 2.0 {
		t.Errorf("Expected 2 files loaded, got %v", summary["files_loaded"])
	}
}

func TestClassifyCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeStatement(t, dir, "soa.xlsx")
	bad := filepath.Join(dir, "bad.xlsx")
	if err := os.WriteFile(bad, []byte("garbage"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	out, err := run(t, "classify", path, bad)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %q", out)
	}
	if !strings.Contains(lines[0], "\tSOA\t") {
		t.Errorf("Unexpected classification line: %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "\tERROR") {
		t.Errorf("Expected ERROR for the bad file, got %q", lines[1])
	}
}
