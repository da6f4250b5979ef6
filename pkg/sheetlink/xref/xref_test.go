package xref

import (
	"testing"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

func str(s string) *string { return &s }

func num(f float64) *float64 { return &f }

func days(n int) *int { return &n }

func statement(customer string, items ...models.StatementItem) *models.ParseResult {
	res := models.NewResult(models.FileTypeSOA, "soa.xlsx")
	res.Metadata["customer_name"] = customer
	res.Statement = &models.StatementData{Sections: []models.Section{{Name: "TotalCare Charges", SectionType: "totalcare", Items: items}}}
	return res
}

func register(items ...models.InvoiceItem) *models.ParseResult {
	res := models.NewResult(models.FileTypeInvoiceList, "epi.xlsx")
	res.Invoices = &models.InvoiceData{Items: items}
	return res
}

func TestBuildSingleFileExcluded(t *testing.T) {
	files := []File{{Name: "soa.xlsx", Result: statement("Acme", models.StatementItem{Reference: str("1820146074"), Amount: num(500)})}}
	idx := NewBuilder().Build(files)
	if _, ok := idx.CrossRefs["invoice_ref"]; ok {
		t.Errorf("Expected no invoice_ref links for a single file, got %v", idx.CrossRefs["invoice_ref"])
	}
	if idx.Stats.CrossFileMatches != 0 {
		t.Errorf("Expected 0 matches, got %d", idx.Stats.CrossFileMatches)
	}
	if idx.Stats.TotalKeysExtracted != 2 {
		t.Errorf("Expected 2 keys (customer, invoice_ref), got %d", idx.Stats.TotalKeysExtracted)
	}
}

func TestBuildTwoFiles(t *testing.T) {
	files := []File{
		{Name: "soa.xlsx", Result: statement("Acme", models.StatementItem{
			Reference: str("1820146074"), Amount: num(500), DaysLate: days(30), Account: str("5001"),
		})},
		{Name: "epi.xlsx", Result: register(models.InvoiceItem{Reference: str("1820146074"), Amount: num(500)})},
	}
	idx := NewBuilder().Build(files)
	occ := idx.CrossRefs["invoice_ref"]["1820146074"]
	if len(occ) != 2 {
		t.Fatalf("Expected 2 occurrences, got %d", len(occ))
	}
	if occ[0].File != "soa.xlsx" || occ[1].File != "epi.xlsx" {
		t.Errorf("Expected occurrences from both files, got %s and %s", occ[0].File, occ[1].File)
	}
	if occ[0].Section != "TotalCare Charges" || occ[0].FileType != models.FileTypeSOA {
		t.Errorf("Unexpected statement occurrence: %+v", occ[0])
	}
	if occ[0].DaysLate == nil || *occ[0].DaysLate != 30 {
		t.Errorf("Expected days late carried into the occurrence, got %v", occ[0].DaysLate)
	}
	if idx.Stats.CrossFileMatches != 1 || idx.Stats.MatchesByType["invoice_ref"] != 1 {
		t.Errorf("Unexpected stats: %+v", idx.Stats)
	}
	if _, ok := idx.CrossRefs["account"]; ok {
		t.Errorf("Expected the single-file account to be excluded")
	}
}

func TestBuildSkipsErrorsAndPlaceholders(t *testing.T) {
	failed := models.NewResult(models.FileTypeError, "bad.xlsx")
	failed.Statement = &models.StatementData{Sections: []models.Section{{Items: []models.StatementItem{{Reference: str("X1"), Amount: num(1)}}}}}
	files := []File{
		{Name: "a.xlsx", Result: statement("Unknown", models.StatementItem{Reference: str("X1"), Amount: num(1)})},
		{Name: "b.xlsx", Result: statement("unknown", models.StatementItem{Reference: str("nan"), Amount: num(1)})},
		{Name: "bad.xlsx", Result: failed},
	}
	idx := NewBuilder().Build(files)
	if len(idx.CrossRefs) != 0 {
		t.Errorf("Expected no links, got %v", idx.CrossRefs)
	}
}

func TestBuildSerialsFromText(t *testing.T) {
	files := []File{
		{Name: "soa.xlsx", Result: statement("Acme", models.StatementItem{
			Reference: str("INV1"), Amount: num(10), Text: str("Repair ESN 10499 and 91020"),
		})},
		{Name: "history.xlsx", Result: func() *models.ParseResult {
			res := models.NewResult(models.FileTypeShopVisit, "history.xlsx")
			res.ShopVisits = &models.ShopVisitData{ShopVisits: []models.ShopVisitEvent{
				{SerialNumber: "91020", Operator: str("Acme")},
			}}
			return res
		}()},
	}
	idx := NewBuilder().Build(files)
	occ := idx.CrossRefs["esn"]["91020"]
	if len(occ) != 2 {
		t.Fatalf("Expected serial 91020 linked across files, got %v", idx.CrossRefs["esn"])
	}
	if occ[0].Reference != "INV1" {
		t.Errorf("Expected the statement occurrence to carry its reference, got %q", occ[0].Reference)
	}
	if occ[1].Details["operator"] != "Acme" {
		t.Errorf("Expected operator detail, got %v", occ[1].Details)
	}
	if _, ok := idx.CrossRefs["esn"]["10499"]; ok {
		t.Errorf("Expected 10499 to stay unlinked")
	}
}

func TestRegexpExtractor(t *testing.T) {
	tests := []struct {
		text     string
		expected []string
	}{
		{"ESN 10499 removed", []string{"10499"}},
		{"esn12345", []string{"12345"}},
		{"serials 91020, 91021", []string{"91020", "91021"}},
		{"invoice 1820146074", nil},
		{"", nil},
	}
	x := SerialExtractor()
	for _, tt := range tests {
		got := x.FindKeys(tt.text)
		if len(got) != len(tt.expected) {
			t.Errorf("FindKeys(%q): expected %v, got %v", tt.text, tt.expected, got)
			continue
		}
		for i := range got {
			if got[i] != tt.expected[i] {
				t.Errorf("FindKeys(%q): expected %v, got %v", tt.text, tt.expected, got)
			}
		}
	}

	custom, err := NewRegexpExtractor(KeyESN, `\bSN-\d{3}\b`)
	if err != nil {
		t.Fatalf("NewRegexpExtractor failed: %v", err)
	}
	if got := custom.FindKeys("see SN-123"); len(got) != 1 || got[0] != "SN-123" {
		t.Errorf("Expected whole match SN-123, got %v", got)
	}
	if _, err := NewRegexpExtractor(KeyESN, `(`); err == nil {
		t.Errorf("Expected an error for an invalid pattern")
	}
}

func TestCombinedOpenItems(t *testing.T) {
	files := []File{
		{Name: "soa.xlsx", Result: statement("Acme",
			models.StatementItem{Reference: str("A"), Amount: num(100), DaysLate: days(10)},
			models.StatementItem{Reference: str("B"), Amount: num(-900), DaysLate: days(10)},
			models.StatementItem{Reference: str("C"), Amount: num(50)},
		)},
		{Name: "epi.xlsx", Result: register(
			models.InvoiceItem{Reference: str("D"), Amount: num(5), DaysLate: days(90)},
			models.InvoiceItem{Reference: str("E")},
		)},
	}
	items := CombinedOpenItems(files)
	want := []string{"D", "B", "A", "C"}
	if len(items) != len(want) {
		t.Fatalf("Expected %d items, got %d", len(want), len(items))
	}
	for i, ref := range want {
		if *items[i].Reference != ref {
			t.Errorf("Position %d: expected %s, got %s", i, ref, *items[i].Reference)
		}
	}
	if items[0].SourceSection != nil || items[1].SourceSection == nil || *items[1].SourceSection != "TotalCare Charges" {
		t.Errorf("Unexpected source sections: %v / %v", items[0].SourceSection, items[1].SourceSection)
	}
}
