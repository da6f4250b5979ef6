package layout

import (
	"strings"
	"unicode/utf8"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// Summary labels, lower-cased and without a trailing colon.
const (
	LabelTotal           = "total"
	LabelOverdue         = "overdue"
	LabelAvailableCredit = "available credit"
	LabelTotalOverdue    = "total overdue"
	LabelNetBalance      = "net balance"
	LabelSums            = "sums"
)

var summaryLabels = map[string]bool{
	LabelTotal:           true,
	LabelOverdue:         true,
	LabelAvailableCredit: true,
	LabelTotalOverdue:    true,
	LabelNetBalance:      true,
	LabelSums:            true,
}

// Summary is an aggregate row: its label and the amount found next to it.
type Summary struct {
	// Label is one of the Label constants.
	Label string
	// Value is nil when the row carried no numeric cell.
	Value *float64
	// Column is the label's column.
	Column int
}

// IsGrandTotal reports whether the summary belongs to the whole file
// rather than the active block.
func (s Summary) IsGrandTotal() bool {
	return s.Label == LabelTotalOverdue
}

// IsSummaryLabel reports whether text is a summary label, with or without
// a trailing colon.
func IsSummaryLabel(text string) bool {
	return summaryLabels[normalizeLabel(text)]
}

func normalizeLabel(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	return strings.TrimSpace(strings.TrimRight(s, ":"))
}

// SummaryRow reports whether row is a subtotal or aggregate row. Cells left
// of the row's first amount or date are checked for a short summary label,
// so a record whose status column reads "Overdue" stays a record. Failing
// that, any cell mentioning "total overdue" qualifies.
func SummaryRow(row models.Row, t Thresholds) (Summary, bool) {
	for j, c := range row {
		if isValueCell(c) {
			break
		}
		if c.Kind != models.CellString {
			continue
		}
		text := coerce.Clean(c)
		if utf8.RuneCountInString(text) > t.SummaryLabelMaxLen {
			continue
		}
		if label := normalizeLabel(text); summaryLabels[label] {
			return Summary{Label: label, Value: valueNear(row, j), Column: j}, true
		}
	}
	for j, c := range row {
		if c.Kind == models.CellString && strings.Contains(Lower(c), LabelTotalOverdue) {
			return Summary{Label: LabelTotalOverdue, Value: valueNear(row, j), Column: j}, true
		}
	}
	return Summary{}, false
}

func isValueCell(c models.Cell) bool {
	if _, ok := coerce.ToAmount(c); ok {
		return true
	}
	_, ok := coerce.ToDate(c)
	return ok
}

// valueNear prefers the first amount right of the label, then the first
// amount anywhere else in the row.
func valueNear(row models.Row, labelCol int) *float64 {
	for k := labelCol + 1; k < len(row); k++ {
		if f, ok := coerce.ToAmount(row[k]); ok {
			return &f
		}
	}
	for k := 0; k < labelCol && k < len(row); k++ {
		if f, ok := coerce.ToAmount(row[k]); ok {
			return &f
		}
	}
	return nil
}
