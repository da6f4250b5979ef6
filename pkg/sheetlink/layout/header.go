package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// HeaderKeywords is the vocabulary of column-header words shared by the
// financial export formats.
var HeaderKeywords = []string{
	"company", "account", "reference", "document", "date", "amount",
	"curr", "text", "assignment", "arrangement", "comments", "status",
	"action", "days", "late", "lpi", "invoice", "type", "interest", "net due",
}

// IsHeaderRow reports whether row looks like a column-header row.
//
// A header needs at least HeaderMinCells non-blank cells, no number larger
// than HeaderNumericGuard, and at least HeaderMinShortTexts short labels
// that together score HeaderMinHits keyword hits. Any cell whose text form
// is short counts as a label, numbers included.
func IsHeaderRow(row models.Row, t Thresholds) bool {
	cols := NonBlank(row)
	if len(cols) < t.HeaderMinCells {
		return false
	}
	shortTexts, hits := 0, 0
	for _, j := range cols {
		c := row[j]
		if f, ok := coerce.ToAmount(c); ok && math.Abs(f) > t.HeaderNumericGuard {
			return false
		}
		s := Lower(c)
		if utf8.RuneCountInString(s) >= t.HeaderShortTextLen {
			continue
		}
		shortTexts++
		for _, kw := range HeaderKeywords {
			if strings.Contains(s, kw) {
				hits++
			}
		}
	}
	return hits >= t.HeaderMinHits && shortTexts >= t.HeaderMinShortTexts
}

// FirstHeaderRow returns the index of the first row satisfying IsHeaderRow.
func FirstHeaderRow(s *models.Sheet, t Thresholds) (int, bool) {
	for i, row := range s.Rows {
		if IsHeaderRow(row, t) {
			return i, true
		}
	}
	return -1, false
}
