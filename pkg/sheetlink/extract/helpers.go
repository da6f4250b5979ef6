package extract

import (
	"sort"
	"strings"
	"time"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/layout"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// daysLate returns the whole days from due to anchor, or 0 when not yet due.
func daysLate(due *models.Date, anchor time.Time) *int {
	if due == nil {
		return nil
	}
	n := coerce.DaysBetween(due.Time, anchor)
	if n < 0 {
		n = 0
	}
	return &n
}

// sortedKeys returns the keys of a set in lexical order.
func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// findSheet returns the first sheet whose lower-cased name contains any of
// the fragments.
func findSheet(wb *models.Workbook, fragments ...string) *models.Sheet {
	for _, s := range wb.Sheets {
		if layout.ContainsAny(strings.ToLower(s.Name), fragments) {
			return s
		}
	}
	return nil
}

// cellText is the cleaned text of row[col].
func cellText(row models.Row, col int) string {
	return coerce.Clean(row.At(col))
}

// firstAmountRight returns the first amount within span cells right of col.
func firstAmountRight(row models.Row, col, span int) (float64, bool) {
	c, ok := layout.ScanRight(row, col, span, func(c models.Cell) bool {
		_, ok := coerce.ToAmount(c)
		return ok
	})
	if !ok {
		return 0, false
	}
	return coerce.ToAmount(c)
}

// firstDateRight returns the first date within span cells right of col.
func firstDateRight(row models.Row, col, span int) (time.Time, bool) {
	c, ok := layout.ScanRight(row, col, span, func(c models.Cell) bool {
		_, ok := coerce.ToDate(c)
		return ok
	})
	if !ok {
		return time.Time{}, false
	}
	return coerce.ToDate(c)
}

func ptr[T any](v T) *T {
	return &v
}
