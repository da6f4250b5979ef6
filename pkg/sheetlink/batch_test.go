package sheetlink

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

func linkedStatement(t *testing.T) []byte {
	return buildXLSX(t, "SOA",
		[]any{"Statement of Account"},
		[]any{"TotalCare Charges"},
		[]any{"Company", "Account", "Reference", "Doc Date", "Due Date", "Amount", "Curr"},
		[]any{100, 200, "1820146074", "15/01/2026", "14/02/2026", 500.00, "USD"},
		[]any{"", "", "", "", "Total", 500.00},
	)
}

func linkedRegister(t *testing.T) []byte {
	return buildXLSX(t, "Export",
		[]any{"Reference", "Document Date", "Net Due Date", "Amount in Doc. Curr.", "Document currency"},
		[]any{"1820146074", "15/01/2026", "14/02/2026", 500.00, "USD"},
		[]any{"1820146099", "20/01/2026", "19/03/2026", 80.00, "USD"},
	)
}

func TestParseBatchLinksFiles(t *testing.T) {
	sources := []Source{
		{Name: "soa.xlsx", Data: linkedStatement(t)},
		{Name: "epi.xlsx", Data: linkedRegister(t)},
	}
	batch := ParseBatch(context.Background(), sources, testOptions())

	if batch.Files["soa.xlsx"].FileType != models.FileTypeSOA {
		t.Errorf("Expected SOA, got %s", batch.Files["soa.xlsx"].FileType)
	}
	if batch.Files["epi.xlsx"].FileType != models.FileTypeInvoiceList {
		t.Errorf("Expected INVOICE_LIST, got %s", batch.Files["epi.xlsx"].FileType)
	}
	occ := batch.CrossReferences.CrossRefs["invoice_ref"]["1820146074"]
	if len(occ) != 2 {
		t.Fatalf("Expected invoice 1820146074 linked across both files, got %v", batch.CrossReferences.CrossRefs)
	}
	if _, ok := batch.CrossReferences.CrossRefs["invoice_ref"]["1820146099"]; ok {
		t.Errorf("Expected a single-file reference to stay unlinked")
	}
	if batch.Summary.FilesLoaded != 2 {
		t.Errorf("Expected 2 files loaded, got %d", batch.Summary.FilesLoaded)
	}
	if batch.Summary.CrossFileMatches < 1 {
		t.Errorf("Expected at least 1 cross-file match, got %d", batch.Summary.CrossFileMatches)
	}
	want := []models.FileType{models.FileTypeInvoiceList, models.FileTypeSOA}
	if fmt.Sprint(batch.Summary.FileTypesPresent) != fmt.Sprint(want) {
		t.Errorf("Expected file types %v, got %v", want, batch.Summary.FileTypesPresent)
	}
	if len(batch.CombinedOpenItems) != 3 {
		t.Errorf("Expected 3 combined open items, got %d", len(batch.CombinedOpenItems))
	}
	if fmt.Sprint(batch.FileOrder) != "[soa.xlsx epi.xlsx]" {
		t.Errorf("Expected submission order, got %v", batch.FileOrder)
	}
}

func TestParseBatchDeterministicID(t *testing.T) {
	soa := linkedStatement(t)
	a := ParseBatch(context.Background(), []Source{{Name: "soa.xlsx", Data: soa}}, testOptions())
	b := ParseBatch(context.Background(), []Source{{Name: "soa.xlsx", Data: soa}}, testOptions())
	c := ParseBatch(context.Background(), []Source{{Name: "other.xlsx", Data: soa}}, testOptions())
	if a.BatchID != b.BatchID {
		t.Errorf("Expected equal batch IDs, got %s and %s", a.BatchID, b.BatchID)
	}
	if a.BatchID == c.BatchID {
		t.Errorf("Expected a different ID for a different file name")
	}
}

func TestParseBatchErrorsDoNotAbort(t *testing.T) {
	sources := []Source{
		{Name: "bad.xlsx", Data: []byte("garbage")},
		{Name: "soa.xlsx", Data: statementXLSX(t)},
	}
	batch := ParseBatch(context.Background(), sources, testOptions())
	if batch.Files["bad.xlsx"].FileType != models.FileTypeError {
		t.Errorf("Expected ERROR for bad.xlsx, got %s", batch.Files["bad.xlsx"].FileType)
	}
	if batch.Files["soa.xlsx"].FileType != models.FileTypeSOA {
		t.Errorf("Expected SOA for soa.xlsx, got %s", batch.Files["soa.xlsx"].FileType)
	}
	if len(batch.Summary.Errors) != 1 {
		t.Errorf("Expected 1 session error, got %v", batch.Summary.Errors)
	}
}

func TestParseBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch := ParseBatch(ctx, []Source{{Name: "soa.xlsx", Data: statementXLSX(t)}}, testOptions())
	if len(batch.Files) != 0 {
		t.Errorf("Expected no files parsed after cancellation, got %d", len(batch.Files))
	}
	if len(batch.Summary.Errors) != 1 {
		t.Errorf("Expected the skipped file to be reported, got %v", batch.Summary.Errors)
	}
}

func TestParseBatchInvalidSerialPatterns(t *testing.T) {
	opts := testOptions()
	opts.SerialPatterns = []string{"("}
	batch := ParseBatch(context.Background(), []Source{{Name: "soa.xlsx", Data: statementXLSX(t)}}, opts)
	if len(batch.Summary.Errors) != 1 {
		t.Errorf("Expected the invalid pattern to be reported, got %v", batch.Summary.Errors)
	}
}

func TestUniqueNames(t *testing.T) {
	sources := []Source{{Name: "a.xlsx"}, {Name: "a.xlsx"}, {Name: "a.xlsx"}, {Name: ""}, {Name: "README"}, {Name: "README"}}
	got := uniqueNames(sources)
	want := []string{"a.xlsx", "a (2).xlsx", "a (3).xlsx", "unknown.xlsx", "README", "README (2)"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestParseUploadPayload(t *testing.T) {
	body, err := json.Marshal(UploadPayload{Files: []UploadFile{
		{Name: "soa.xlsx", Data: base64.StdEncoding.EncodeToString(statementXLSX(t))},
		{Name: "soa.xlsx", Data: "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(statementXLSX(t))},
		{Name: "broken.xlsx", Data: "%%%"},
	}})
	if err != nil {
		t.Fatalf("Failed to build payload: %v", err)
	}
	batch, err := ParseUploadPayload(context.Background(), body, testOptions())
	if err != nil {
		t.Fatalf("ParseUploadPayload failed: %v", err)
	}
	if len(batch.Files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(batch.Files))
	}
	if batch.Files["soa (2).xlsx"] == nil || batch.Files["soa (2).xlsx"].FileType != models.FileTypeSOA {
		t.Errorf("Expected the duplicate upload under 'soa (2).xlsx'")
	}
	if batch.Files["broken.xlsx"].FileType != models.FileTypeError {
		t.Errorf("Expected ERROR for undecodable data, got %s", batch.Files["broken.xlsx"].FileType)
	}

	if _, err := ParseUploadPayload(context.Background(), []byte(`{"files":[]}`), testOptions()); !errors.Is(err, ErrNoFiles) {
		t.Errorf("Expected ErrNoFiles, got %v", err)
	}
	if _, err := ParseUploadPayload(context.Background(), []byte(`{`), testOptions()); err == nil {
		t.Errorf("Expected an error for malformed JSON")
	}
}
