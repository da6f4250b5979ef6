package layout

import (
	"sort"
	"strings"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
)

// NonBlank returns the column indices of the row's non-blank cells.
func NonBlank(row models.Row) []int {
	var cols []int
	for j, c := range row {
		if !coerce.IsBlank(c) {
			cols = append(cols, j)
		}
	}
	return cols
}

// IsBlankRow reports whether every cell of the row is blank.
func IsBlankRow(row models.Row) bool {
	for _, c := range row {
		if !coerce.IsBlank(c) {
			return false
		}
	}
	return true
}

// Lower returns the cleaned, lower-cased text of a cell.
func Lower(c models.Cell) string {
	return strings.ToLower(coerce.Clean(c))
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// SheetText flattens the first maxRows rows of a sheet into one lower-cased,
// space-separated string of non-blank cell texts.
func SheetText(s *models.Sheet, maxRows int) string {
	var b strings.Builder
	for i, row := range s.Rows {
		if i >= maxRows {
			break
		}
		for _, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(Lower(c))
		}
	}
	return b.String()
}

// ScanRight returns the first cell within span columns right of col that
// satisfies accept.
func ScanRight(row models.Row, col, span int, accept func(models.Cell) bool) (models.Cell, bool) {
	for k := col + 1; k <= col+span && k < len(row); k++ {
		if accept(row[k]) {
			return row[k], true
		}
	}
	return models.Cell{}, false
}

// LookRight returns the first non-blank cell within span columns right of col.
func LookRight(row models.Row, col, span int) (models.Cell, bool) {
	return ScanRight(row, col, span, func(c models.Cell) bool { return !coerce.IsBlank(c) })
}

// FindHeaderRow returns the index of the row among the first maxScan rows
// with the most cells containing one of keywords. It returns 0 when no row
// scores.
func FindHeaderRow(s *models.Sheet, keywords []string, maxScan int) int {
	best, bestScore := 0, 0
	for i, row := range s.Rows {
		if i >= maxScan {
			break
		}
		score := 0
		for _, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			if ContainsAny(Lower(c), keywords) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

// NonBlankCells counts the non-blank cells of a sheet.
func NonBlankCells(s *models.Sheet) int {
	n := 0
	for _, row := range s.Rows {
		for _, c := range row {
			if !coerce.IsBlank(c) {
				n++
			}
		}
	}
	return n
}

// PopulatedRows counts the rows holding at least one non-blank cell.
func PopulatedRows(s *models.Sheet) int {
	n := 0
	for _, row := range s.Rows {
		if !IsBlankRow(row) {
			n++
		}
	}
	return n
}

// BySize returns the sheets ordered by descending non-blank cell count,
// keeping workbook order among equals.
func BySize(wb *models.Workbook) []*models.Sheet {
	sheets := append([]*models.Sheet(nil), wb.Sheets...)
	counts := make(map[*models.Sheet]int, len(sheets))
	for _, s := range sheets {
		counts[s] = NonBlankCells(s)
	}
	sort.SliceStable(sheets, func(i, j int) bool {
		return counts[sheets[i]] > counts[sheets[j]]
	})
	return sheets
}
