package layout

import (
	"fmt"

	"github.com/rutishh0/PowerBI/pkg/sheetlink/coerce"
	"github.com/rutishh0/PowerBI/pkg/sheetlink/models"
	"github.com/xuri/excelize/v2"
)

// TableParams holds parameters for table detection.
type TableParams struct {
	DensityMin       float64
	MinNonemptyCells int
}

// DefaultTableParams returns default table detection parameters.
func DefaultTableParams() TableParams {
	return TableParams{
		DensityMin:       0.04,
		MinNonemptyCells: 3,
	}
}

// Bounds is the bounding box of the non-blank cells of a sheet (0-based,
// inclusive).
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Rows returns the height of the box.
func (b Bounds) Rows() int { return b.MaxRow - b.MinRow + 1 }

// Cols returns the width of the box.
func (b Bounds) Cols() int { return b.MaxCol - b.MinCol + 1 }

// Range renders the box in A1 notation, e.g. "A1:D10".
func (b Bounds) Range() string {
	start, _ := excelize.CoordinatesToCellName(b.MinCol+1, b.MinRow+1)
	end, _ := excelize.CoordinatesToCellName(b.MaxCol+1, b.MaxRow+1)
	return fmt.Sprintf("%s:%s", start, end)
}

// DataBounds finds the bounding box of non-blank cells.
func DataBounds(s *models.Sheet) (Bounds, bool) {
	b := Bounds{MinRow: -1, MaxRow: -1, MinCol: -1, MaxCol: -1}
	for i, row := range s.Rows {
		for j, c := range row {
			if coerce.IsBlank(c) {
				continue
			}
			if b.MinRow < 0 || i < b.MinRow {
				b.MinRow = i
			}
			if i > b.MaxRow {
				b.MaxRow = i
			}
			if b.MinCol < 0 || j < b.MinCol {
				b.MinCol = j
			}
			if j > b.MaxCol {
				b.MaxCol = j
			}
		}
	}
	return b, b.MinRow >= 0
}

// DetectTable returns the populated range of a sheet when it is dense
// enough to be a table.
func DetectTable(s *models.Sheet, params TableParams) (string, bool) {
	b, ok := DataBounds(s)
	if !ok {
		return "", false
	}
	nonEmpty := countNonEmptyCells(s, b)
	if nonEmpty < params.MinNonemptyCells {
		return "", false
	}
	density := float64(nonEmpty) / float64(b.Rows()*b.Cols())
	if density < params.DensityMin {
		return "", false
	}
	return b.Range(), true
}

// countNonEmptyCells counts non-blank cells within bounds.
func countNonEmptyCells(s *models.Sheet, b Bounds) int {
	count := 0
	for i := b.MinRow; i <= b.MaxRow && i < len(s.Rows); i++ {
		row := s.Rows[i]
		for j := b.MinCol; j <= b.MaxCol && j < len(row); j++ {
			if !coerce.IsBlank(row[j]) {
				count++
			}
		}
	}
	return count
}
