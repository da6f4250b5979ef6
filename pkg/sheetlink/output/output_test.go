package output

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

func sampleResult() *models.ParseResult {
	amount := 500.0
	ref := "INV1"
	res := models.NewResult(models.FileTypeSOA, "soa.xlsx")
	res.Metadata["lpi_rate"] = math.NaN()
	res.Metadata["report_date"] = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	res.Statement = &models.StatementData{
		Sections: []models.Section{{
			Name:        "TotalCare Charges",
			SectionType: "totalcare",
			Items: []models.StatementItem{{
				Reference: &ref,
				Amount:    &amount,
				Currency:  "USD",
				DueDate:   models.NewDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)),
				EntryType: "Charge",
			}},
			Total:       &amount,
			TotalSource: "summary",
		}},
		SummarySheet: map[string]float64{},
	}
	return res
}

func TestPortable(t *testing.T) {
	p, ok := Portable(sampleResult()).(map[string]any)
	if !ok {
		t.Fatalf("Expected a map, got %T", Portable(sampleResult()))
	}
	meta := p["metadata"].(map[string]any)
	if v, present := meta["lpi_rate"]; !present || v != nil {
		t.Errorf("Expected NaN to become nil, got %v", v)
	}
	if meta["report_date"] != "2026-01-31" {
		t.Errorf("Expected ISO date, got %v", meta["report_date"])
	}

	stmt := p["statement"].(map[string]any)
	item := stmt["sections"].([]any)[0].(map[string]any)["items"].([]any)[0].(map[string]any)
	if item["due_date"] != "2026-02-01" {
		t.Errorf("Expected due_date 2026-02-01, got %v", item["due_date"])
	}
	if item["amount"] != 500.0 {
		t.Errorf("Expected amount 500, got %v", item["amount"])
	}
	if v, present := item["doc_date"]; !present || v != nil {
		t.Errorf("Expected a nil doc_date, got %v", v)
	}
	if _, present := item["days_late_derived"]; present {
		t.Errorf("Expected omitempty field to be dropped")
	}
	if _, present := p["invoice_list"]; present {
		t.Errorf("Expected nil payloads to be omitted")
	}
	if errs, ok := p["errors"].([]any); !ok || len(errs) != 0 {
		t.Errorf("Expected an empty errors list, got %#v", p["errors"])
	}
}

func TestPortableScalars(t *testing.T) {
	tests := []struct {
		in       any
		expected any
	}{
		{nil, nil},
		{3, 3.0},
		{uint8(7), 7.0},
		{math.Inf(1), nil},
		{"x", "x"},
		{true, true},
		{time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02T03:04:05Z"},
		{models.Number(12), 12.0},
		{models.Cell{}, nil},
	}
	for _, tt := range tests {
		if got := Portable(tt.in); got != tt.expected {
			t.Errorf("Portable(%#v): expected %#v, got %#v", tt.in, tt.expected, got)
		}
	}
}

func TestToJSONDeterministic(t *testing.T) {
	a, err := ToJSON(sampleResult(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	b, err := ToJSON(sampleResult(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("Expected identical output for identical input")
	}
	pretty, err := ToJSON(sampleResult(), true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if !bytes.Contains(pretty, []byte("\n  ")) {
		t.Errorf("Expected indented output")
	}
}

func TestToTOON(t *testing.T) {
	s, err := ToTOON(sampleResult())
	if err != nil {
		t.Fatalf("ToTOON failed: %v", err)
	}
	if !strings.Contains(s, "file_type") || !strings.Contains(s, "SOA") {
		t.Errorf("Expected file_type in TOON output, got %q", s)
	}
}

func TestValidateResult(t *testing.T) {
	data, err := ToJSON(sampleResult(), false)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	if err := ValidateResult(data); err != nil {
		t.Errorf("Expected a valid result, got %v", err)
	}

	failed := models.NewResult(models.FileTypeError, "bad.xlsx")
	failed.AddError("could not load workbook")
	data, _ = ToJSON(failed, false)
	if err := ValidateResult(data); err != nil {
		t.Errorf("Expected an ERROR result to validate, got %v", err)
	}

	invalid := []string{
		`{"file_type":"BOGUS","metadata":{},"errors":[]}`,
		`{"file_type":"SOA","metadata":{}}`,
		`{"file_type":"SOA_FALLBACK","metadata":{},"errors":[1]}`,
		`not json`,
	}
	for _, doc := range invalid {
		if err := ValidateResult([]byte(doc)); err == nil {
			t.Errorf("Expected %s to be rejected", doc)
		}
	}
}
