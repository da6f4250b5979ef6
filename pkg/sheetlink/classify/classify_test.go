package classify

import (
	"testing"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

func sheet(name string, rows ...[]string) *models.Sheet {
	s := &models.Sheet{Name: name}
	for _, r := range rows {
		row := make(models.Row, len(r))
		for j, v := range r {
			row[j] = models.Text(v)
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		wb       *models.Workbook
		expected models.FileType
	}{
		{
			name: "statement by content",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("Sheet1",
					[]string{"Statement of Account"},
					[]string{"Customer Name:", "Ethiopian Airlines"},
					[]string{"TotalCare Charges"},
				),
			}},
			expected: models.FileTypeSOA,
		},
		{
			name: "statement by sheet name",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("SOA 26.1", []string{"Company", "Amount"}),
			}},
			expected: models.FileTypeSOA,
		},
		{
			name: "invoice register",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("Export",
					[]string{"Reference", "Reference Key 3", "Document Date", "Net Due Date", "Amount in Doc. Curr.", "Document currency"},
				),
			}},
			expected: models.FileTypeInvoiceList,
		},
		{
			name: "opportunity tracker",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("L2", []string{"#", "Project", "Type of Opportunity", "Term Benefit"}),
				sheet("COVER", []string{"Commercial Optimisation"}),
			}},
			expected: models.FileTypeOpportunityTracker,
		},
		{
			name: "shop visit",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("Report Page 1", []string{"Event Item Part Number", "Event Item Serial Number", "Action Code"}),
			}},
			expected: models.FileTypeShopVisit,
		},
		{
			name: "guarantee master",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("MENU", []string{"Trent 900 Guarantee Administration"}),
				sheet("CLAIMS SUMMARY"),
			}},
			expected: models.FileTypeSVRG,
		},
		{
			name: "unknown",
			wb: &models.Workbook{Sheets: []*models.Sheet{
				sheet("Data", []string{"alpha", "beta"}),
			}},
			expected: models.FileTypeUnknown,
		},
		{
			name:     "empty workbook",
			wb:       &models.Workbook{},
			expected: models.FileTypeUnknown,
		},
	}

	for _, tt := range tests {
		if got := Classify(tt.wb); got != tt.expected {
			t.Errorf("%s: Classify = %s, expected %s", tt.name, got, tt.expected)
		}
	}
}

func TestClassifyTieBreak(t *testing.T) {
	// One statement signal and one invoice signal: the statement wins.
	wb := &models.Workbook{Sheets: []*models.Sheet{
		sheet("Data", []string{"Total Overdue", "Reference Key 3"}),
	}}
	res := New(layout.DefaultThresholds()).Classify(wb)
	if res.Scores[models.FileTypeSOA] != res.Scores[models.FileTypeInvoiceList] {
		t.Fatalf("expected a tie, got %v", res.Scores)
	}
	if res.Type != models.FileTypeSOA {
		t.Errorf("tie resolved to %s, expected SOA", res.Type)
	}
}

func TestClassifyScanDepth(t *testing.T) {
	s := sheet("Data")
	for i := 0; i < 30; i++ {
		s.Rows = append(s.Rows, nil)
	}
	s.Rows = append(s.Rows, models.Row{models.Text("statement of account")})
	wb := &models.Workbook{Sheets: []*models.Sheet{s}}
	if got := Classify(wb); got != models.FileTypeUnknown {
		t.Errorf("signal below scan depth classified as %s", got)
	}
}

func TestClassifySheetNameBoost(t *testing.T) {
	wb := &models.Workbook{Sheets: []*models.Sheet{sheet("soa summary")}}
	res := New(layout.Thresholds{SheetNameBoost: 3}).Classify(wb)
	if res.Scores[models.FileTypeSOA] != 3 {
		t.Errorf("SOA score = %d, expected 3", res.Scores[models.FileTypeSOA])
	}
}
